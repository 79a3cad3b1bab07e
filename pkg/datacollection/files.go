package datacollection

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
)

// lz4Magic is the little-endian LZ4 frame magic number.
var lz4Magic = []byte{0x04, 0x22, 0x4d, 0x18}

// countingWriter counts bytes passed to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeFile creates path and fills it with write. Compression applies when
// compress is set and the collection is configured for it. The returned
// error is the first of create, write, compressor close, and file close.
// A failed write removes the partial file.
func (c *DataCollection) writeFile(ctx context.Context, kind, path string, compress bool, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	cw := &countingWriter{w: f}
	var w io.Writer = cw
	var zw *lz4.Writer
	if compress && c.compression == CompressionLZ4 {
		zw = lz4.NewWriter(cw)
		w = zw
	}

	err = write(w)
	if zw != nil {
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}

	c.filesWritten++
	c.metrics.RecordFileWrite(ctx, kind, cw.n)
	return nil
}

// readFile opens path for a decoder, transparently decompressing LZ4 frames.
func readFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var r io.Reader = br
	if head, err := br.Peek(len(lz4Magic)); err == nil && bytes.Equal(head, lz4Magic) {
		r = lz4.NewReader(br)
	}
	if err := read(r); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
