// Package store provides read-only access to the model artifact and the
// label file. Both are opened per request; there is no write path and no
// shared mutable state. The filesystem is abstracted behind afero so
// tests run against an in-memory filesystem.
package store

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/visionhost/predict/errors"
)

// ModelFile reads the model artifact. The whole binary is read into
// memory before each request; the bytes are then owned by the caller
// until they are copied into guest memory.
type ModelFile struct {
	fs   afero.Fs
	path string
}

func NewModelFile(fs afero.Fs, path string) *ModelFile {
	return &ModelFile{fs: fs, path: path}
}

// Model returns the full model bytes.
func (m *ModelFile) Model() ([]byte, error) {
	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		return nil, errors.IO(fmt.Sprintf("read model %s", m.path), err)
	}
	return data, nil
}
