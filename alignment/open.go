package alignment

import (
	"context"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// openDecompressed opens path (local or remote) for reading, transparently
// decompressing gzip/bzip2/zstd content.  The returned close function must be
// called once the reader is drained.
func openDecompressed(ctx context.Context, path string) (io.Reader, func() error, error) {
	infile, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "alignment: open", path)
	}
	reader, _ := compress.NewReader(infile.Reader(ctx))
	closer := func() error {
		err := reader.Close()
		if e := infile.Close(ctx); e != nil && err == nil {
			err = e
		}
		return err
	}
	return reader, closer, nil
}
