package main

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
)

// readInput reads path, or stdin when path is "-", decompressing .zst
// files. Inputs larger than maxSize bytes are rejected.
func readInput(stdin io.Reader, path string, maxSize int64) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "cannot open input")
		}
		defer f.Close()
		r = f
	}

	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read zstd stream %s", path)
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}
	if int64(len(data)) > maxSize {
		return nil, errors.Newf("%s is larger than %d bytes", path, maxSize)
	}
	return data, nil
}
