package input

import (
	"fmt"
	"io"
	"os"
)

// Spool copies a non-seekable source (stdin, a pipe) into an unlinked
// temporary file so the indexed reader can seek over it. The file is already
// removed from the filesystem; closing the handle releases the storage.
func Spool(r io.Reader) (*os.File, error) {
	f, err := os.CreateTemp("", "jlcat-*.jsonl")
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	// Unlink immediately so the spool never outlives the process.
	name := f.Name()
	if err := os.Remove(name); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to unlink spool file %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to spool input: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rewind spool file: %w", err)
	}
	return f, nil
}
