// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// OwnerReadWrite is the permission every output file is created with.
const OwnerReadWrite = 0o600

// Output is a destination file that only becomes valid once committed.
//
// In atomic mode the data goes to a temporary file next to the target, which is renamed over
// the target on Commit and removed on Abort. Otherwise the target is truncated up front and a
// failed write leaves whatever was written in place.
type Output struct {
	*os.File

	target string
	atomic bool
}

// Create opens the destination for writing.
func Create(target string, atomic bool) (*Output, error) {
	if !atomic {
		file, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, OwnerReadWrite)
		if err != nil {
			return nil, fmt.Errorf("creating output file: %w", err)
		}

		return &Output{File: file, target: target}, nil
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	if err := tmpFile.Chmod(OwnerReadWrite); err != nil {
		tmpFile.Close()           //nolint:errcheck,gosec // best-effort cleanup
		os.Remove(tmpFile.Name()) //nolint:errcheck,gosec // best-effort cleanup

		return nil, fmt.Errorf("setting file permissions: %w", err)
	}

	return &Output{File: tmpFile, target: target, atomic: true}, nil
}

// Target returns the final path of the output.
func (o *Output) Target() string {
	return o.target
}

// Commit flushes the file to stable storage, closes it and, in atomic mode, moves it into place.
func (o *Output) Commit() error {
	if err := o.Sync(); err != nil {
		o.Abort()

		return fmt.Errorf("syncing output file: %w", err)
	}

	if err := o.Close(); err != nil {
		o.Abort()

		return fmt.Errorf("closing output file: %w", err)
	}

	if !o.atomic {
		return nil
	}

	if err := os.Rename(o.Name(), o.target); err != nil {
		os.Remove(o.Name()) //nolint:errcheck,gosec // best-effort cleanup

		return fmt.Errorf("renaming output file: %w", err)
	}

	return nil
}

// Abort closes the file and, in atomic mode, removes the temporary file.
// It is safe to call after Commit or more than once.
func (o *Output) Abort() {
	o.Close() //nolint:errcheck,gosec // best-effort cleanup

	if o.atomic {
		os.Remove(o.Name()) //nolint:errcheck,gosec // best-effort cleanup
	}
}
