// Package names reads entity names from flat, line-oriented text sources.
//
// The format is deliberately minimal: one name per line, surrounding
// whitespace trimmed, blank lines ignored. There is no comment syntax and no
// quoting, so any non-blank line is accepted as a name however exotic.
package names

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrSource is wrapped by every error caused by an unreadable source.
var ErrSource = errors.New("names source unreadable")

// maxLineSize bounds a single line.
const maxLineSize = 1024 * 1024

// Read returns the trimmed, non-empty lines of r in order.
// Duplicates are kept.
func Read(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	names := []string{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSource, err)
	}
	return names, nil
}

// ReadFile opens path and reads names from it.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrSource, path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	names, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return names, nil
}
