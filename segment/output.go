package segment

import (
	"context"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bgzf"
)

// HVRTableName is the name of the HVR table inside the output directory.
const HVRTableName = "hvrs.tsv"

// createTable creates path and returns a tsv.Writer for it.  A path ending in
// ".gz" is bgzf-compressed.  finish must be called exactly once; it flushes,
// closes the file, and returns the first error encountered.
func createTable(ctx context.Context, path string) (w *tsv.Writer, finish func(error) error, err error) {
	dst, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	var bgzfWriter *bgzf.Writer
	if strings.HasSuffix(path, ".gz") {
		bgzfWriter = bgzf.NewWriter(dst.Writer(ctx), 1)
		w = tsv.NewWriter(bgzfWriter)
	} else {
		w = tsv.NewWriter(dst.Writer(ctx))
	}
	finish = func(err error) error {
		if err == nil {
			err = w.Flush()
		}
		if bgzfWriter != nil {
			if e := bgzfWriter.Close(); e != nil && err == nil {
				err = e
			}
		}
		file.CloseAndReport(ctx, dst, &err)
		return err
	}
	return w, finish, nil
}

// WriteBreakages writes the breakage table to path.  The header is written
// even if rows is empty.
func WriteBreakages(ctx context.Context, path string, rows []BreakageRow) (err error) {
	w, finish, err := createTable(ctx, path)
	if err != nil {
		return err
	}
	defer func() { err = finish(err) }()
	w.WriteString("target_id\tstart\tend\tbreakage_length\ttarget_length")
	if err = w.EndLine(); err != nil {
		return
	}
	for _, row := range rows {
		w.WriteString(row.Contig)
		w.WriteInt64(int64(row.Start))
		w.WriteInt64(int64(row.End))
		w.WriteInt64(int64(row.Length))
		w.WriteInt64(int64(row.ContigLength))
		if err = w.EndLine(); err != nil {
			return
		}
	}
	log.Printf("segment.WriteBreakages: %d breakage(s) written to %s", len(rows), path)
	return
}

// WriteHVRs writes the HVR table to <outDir>/hvrs.tsv and returns its path.
// Nothing is written when rows is empty; the returned path is then "".
func WriteHVRs(ctx context.Context, outDir string, rows []HVRRow) (path string, err error) {
	if len(rows) == 0 {
		log.Printf("No HVRs found")
		return "", nil
	}
	path = file.Join(outDir, HVRTableName)
	w, finish, err := createTable(ctx, path)
	if err != nil {
		return "", err
	}
	defer func() { err = finish(err) }()
	w.WriteString("sample\tcontig\thvr_start\thvr_end\thvr_length")
	if err = w.EndLine(); err != nil {
		return
	}
	for _, row := range rows {
		w.WriteString(row.Sample)
		w.WriteString(row.Contig)
		w.WriteInt64(int64(row.Start))
		w.WriteInt64(int64(row.End))
		w.WriteInt64(int64(row.Length))
		if err = w.EndLine(); err != nil {
			return
		}
	}
	log.Printf("segment.WriteHVRs: %d HVR(s) written to %s", len(rows), path)
	return
}
