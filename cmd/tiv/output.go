package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/wbrown/tiv/imageutil"
)

// errWrite marks failures writing the output, which end a -stdin batch.
var errWrite = errors.New("write failed")

// output is the destination of rendered text or a preview image. Close
// flushes any compressor and closes the file; it leaves stdout open.
type output struct {
	io.Writer
	preview string
	closers []io.Closer
}

// openOutput opens path for writing, compressing by its extension: .gz
// with gzip, .zst with zstd. An empty path writes to stdout. Image
// extensions are not opened here; the preview is saved to path as a whole.
func openOutput(path string, stdout io.Writer) (*output, error) {
	if path == "" {
		return &output{Writer: stdout}, nil
	}
	if imageutil.IsSaveFormat(path) {
		return &output{Writer: io.Discard, preview: path}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	out := &output{Writer: f, closers: []io.Closer{f}}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz := gzip.NewWriter(f)
		out.Writer = gz
		out.closers = append([]io.Closer{gz}, out.closers...)
	case ".zst":
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		out.Writer = enc
		out.closers = append([]io.Closer{enc}, out.closers...)
	}
	return out, nil
}

// Close closes the compressor, if any, then the file. It returns the first
// error.
func (o *output) Close() error {
	var first error
	for _, c := range o.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
