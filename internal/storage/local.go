package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores files on the local disk. Files are served by the router
// under /files.
type Local struct {
	dir string
}

// NewLocal creates the directory if needed and returns a local storage.
func NewLocal(dir string) (*Local, error) {
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("could not create upload directory: %w", err)
	}

	return &Local{dir: dir}, nil
}

// Store writes the file under a generated name so that uploads can never
// overwrite each other. Only the extension of the original name is kept.
func (l *Local) Store(name string, _ string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	fileName := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(l.dir, fileName))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer f.Close()

	_, err = io.Copy(f, r)
	if err != nil {
		// Do not leave partial files behind
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return "/files/" + fileName, nil
}

// Delete removes the file for the URL. Deleting a URL that does not match
// a stored file is an error.
func (l *Local) Delete(url string) error {
	fileName := path.Base(url)
	if fileName == "." || fileName == "/" {
		return ErrDeleteFailed
	}

	err := os.Remove(filepath.Join(l.dir, fileName))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	return nil
}
