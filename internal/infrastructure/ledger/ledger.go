// Package ledger persists the set of barcodes already attempted, one per
// line, newline-terminated. The file only ever grows; membership survives
// process restarts and each write is flushed before the next barcode is
// considered.
package ledger

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// FileLedger is an append-only file-backed barcode set. Single writer,
// single reader; not safe for concurrent use.
type FileLedger struct {
	file *os.File
	seen map[string]struct{}
}

// Open reads the existing ledger into memory and opens the file for
// appending, creating it when missing.
func Open(path string) (*FileLedger, error) {
	seen := make(map[string]struct{})

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(existing))
	for scanner.Scan() {
		barcode := strings.TrimSpace(scanner.Text())
		if barcode != "" {
			seen[barcode] = struct{}{}
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %s: %w", path, err)
	}

	return &FileLedger{file: file, seen: seen}, nil
}

// Contains reports whether a barcode has already been attempted
func (l *FileLedger) Contains(barcode string) bool {
	_, ok := l.seen[barcode]
	return ok
}

// Record appends a barcode and flushes it to stable storage before
// returning. Recording an already-present barcode is a no-op.
func (l *FileLedger) Record(barcode string) error {
	if l.Contains(barcode) {
		return nil
	}
	if _, err := fmt.Fprintf(l.file, "%s\n", barcode); err != nil {
		return fmt.Errorf("failed to append to ledger: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("failed to flush ledger: %w", err)
	}
	l.seen[barcode] = struct{}{}
	return nil
}

// Size returns the number of recorded barcodes
func (l *FileLedger) Size() int {
	return len(l.seen)
}

// Close closes the underlying file
func (l *FileLedger) Close() error {
	return l.file.Close()
}
