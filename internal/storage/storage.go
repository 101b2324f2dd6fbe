// Package storage abstracts the file-storage collaborator that holds
// receipt and bill attachments.
//
// The backend only ever stores a file and remembers the returned URL, so
// any provider satisfying Storage can be plugged in.
package storage

import (
	"errors"
	"io"
)

var (
	ErrUploadFailed = errors.New("the file could not be stored")
	ErrDeleteFailed = errors.New("the file could not be deleted")
)

// Storage stores uploaded files and serves them by URL.
type Storage interface {
	// Store persists the file content and returns the URL under which it
	// is available.
	Store(name string, contentType string, r io.Reader) (string, error)

	// Delete removes a previously stored file by its URL.
	Delete(url string) error
}
