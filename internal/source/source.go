// Package source opens input files as seekable byte sources.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Open returns a seekable reader over the file at path and a function that
// releases it. With useMmap the file is memory-mapped where the platform
// supports it; the reader must not be used after release.
func Open(path string, useMmap bool) (io.ReadSeeker, func() error, error) {
	if useMmap {
		data, release, err := mapFile(path)
		if err != nil {
			return nil, nil, err
		}
		return bytes.NewReader(data), release, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, f.Close, nil
}
