//go:build unix

package source

import (
	"fmt"
	"os"
	"syscall"
)

// mapFile memory-maps a file for reading.
// The returned release function unmaps the file and closes it.
func mapFile(filename string) ([]byte, func() error, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	size := stat.Size()
	if size == 0 {
		// mmap rejects zero-length mappings.
		return []byte{}, f.Close, nil
	}

	data, err := syscall.Mmap(
		int(f.Fd()),
		0,
		int(size),
		syscall.PROT_READ,
		syscall.MAP_SHARED,
	)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to mmap file: %w", err)
	}

	release := func() error {
		merr := syscall.Munmap(data)
		cerr := f.Close()
		if merr != nil {
			return fmt.Errorf("failed to munmap file: %w", merr)
		}
		return cerr
	}

	return data, release, nil
}
