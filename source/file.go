// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Files reads local configuration documents from an [afero.Fs].
type Files struct {
	fs afero.Fs
}

// NewFiles returns a Files backed by fsys. A nil fsys means the OS file system.
func NewFiles(fsys afero.Fs) *Files {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Files{fs: fsys}
}

// ReadFile returns the full contents of the file at path.
func (f *Files) ReadFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)

	info, err := f.fs.Stat(cleanPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NotFoundError{Path: path, Cause: err}
	}
	if err != nil {
		return nil, UnreadableError{Path: path, Cause: err}
	}
	if info.IsDir() {
		return nil, UnreadableError{Path: path, Cause: ErrIsDirectory}
	}

	b, err := afero.ReadFile(f.fs, cleanPath)
	if err != nil {
		return nil, UnreadableError{Path: path, Cause: err}
	}
	return b, nil
}
