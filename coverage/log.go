package coverage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
)

// Format selects how a Log encodes depth values.
type Format int

const (
	// FormatDelimited writes comma-separated decimal depths.
	FormatDelimited Format = iota
	// FormatLegacyDigits concatenates the decimal depths with no delimiter.
	// The encoding is ambiguous once any depth reaches 10; it exists only for
	// compatibility with older consumers.
	FormatLegacyDigits
)

// ParseFormat parses "delimited" or "legacy".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "delimited":
		return FormatDelimited, nil
	case "legacy":
		return FormatLegacyDigits, nil
	}
	return 0, errors.E(errors.Invalid, fmt.Sprintf("coverage: unknown log format %q", s))
}

func (f Format) String() string {
	switch f {
	case FormatDelimited:
		return "delimited"
	case FormatLegacyDigits:
		return "legacy"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Log is an append-only text file with one line per contig:
//
//   <contig>: <encoded depths>
//
// Append may be called concurrently; each call opens the file, appends one
// whole line and closes it again.
type Log struct {
	path   string
	format Format
	mu     sync.Mutex
}

// NewLog creates or truncates the log at path.
func NewLog(path string, format Format) (*Log, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.E(err, "coverage: create log", path)
	}
	if err := f.Close(); err != nil {
		return nil, errors.E(err, "coverage: create log", path)
	}
	return &Log{path: path, format: format}, nil
}

// Path returns the location of the log.
func (l *Log) Path() string { return l.path }

// Encode appends the line for (contig, depths), including the trailing
// newline, to buf.
func (f Format) Encode(buf []byte, contig string, depths Array) []byte {
	buf = append(buf, contig...)
	buf = append(buf, ':', ' ')
	for i, d := range depths {
		if i > 0 && f == FormatDelimited {
			buf = append(buf, ',')
		}
		buf = strconv.AppendUint(buf, uint64(d), 10)
	}
	return append(buf, '\n')
}

// Append writes the line of one contig.
func (l *Log) Append(contig string, depths Array) (err error) {
	line := l.format.Encode(make([]byte, 0, len(contig)+2*len(depths)+3), contig, depths)

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return errors.E(err, "coverage: open log", l.path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.E(cerr, "coverage: close log", l.path)
		}
	}()
	if _, err = f.Write(line); err != nil {
		return errors.E(err, "coverage: append log", l.path)
	}
	return nil
}

// LogEntry is one decoded line of a coverage log.
type LogEntry struct {
	Contig string
	Depths Array
}

// ParseLog decodes a coverage log written in the given format.  Legacy lines
// decode one digit per position, which is only exact when every depth is
// below 10.
func ParseLog(r io.Reader, format Format) ([]LogEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<30)
	var entries []LogEntry
	for lineIdx := 1; scanner.Scan(); lineIdx++ {
		line := scanner.Text()
		if line == "" {
			continue
		}
		sep := strings.Index(line, ": ")
		if sep < 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("coverage: log line %d: missing ': ' separator", lineIdx))
		}
		entry := LogEntry{Contig: line[:sep]}
		body := line[sep+2:]
		switch format {
		case FormatDelimited:
			if body != "" {
				for _, field := range strings.Split(body, ",") {
					v, err := strconv.ParseUint(field, 10, 32)
					if err != nil {
						return nil, errors.E(errors.Invalid, fmt.Sprintf("coverage: log line %d", lineIdx), err)
					}
					entry.Depths = append(entry.Depths, uint32(v))
				}
			}
		case FormatLegacyDigits:
			entry.Depths = make(Array, len(body))
			for i := 0; i < len(body); i++ {
				c := body[i]
				if c < '0' || c > '9' {
					return nil, errors.E(errors.Invalid, fmt.Sprintf("coverage: log line %d: non-digit %q", lineIdx, c))
				}
				entry.Depths[i] = uint32(c - '0')
			}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadLog is a wrapper for ParseLog that takes a path.  Gzipped logs
// (".gz") are decompressed.
func ReadLog(ctx context.Context, path string, format Format) (entries []LogEntry, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, err
		}
	}
	if entries, err = ParseLog(reader, format); err != nil {
		return nil, errors.E(err, path)
	}
	return entries, nil
}
