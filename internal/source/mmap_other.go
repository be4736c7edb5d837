//go:build !unix

package source

import (
	"fmt"
	"os"
)

// mapFile reads the whole file on platforms without mmap support.
func mapFile(filename string) ([]byte, func() error, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, func() error { return nil }, nil
}
