// Package storage persists uploaded files on the local filesystem. It only
// streams bytes and checks existence; all validation belongs to callers.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrFileTooLarge = errors.New("file exceeds maximum allowed size")

const copyChunkSize = 8192

type FileStore struct {
	dir      string
	maxBytes int64
}

func NewFileStore(dir string, maxBytes int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &FileStore{dir: dir, maxBytes: maxBytes}, nil
}

// Save streams the reader into a file under the store directory in fixed-size
// chunks, enforcing the byte ceiling cumulatively. The upload is never
// buffered whole in memory. On a ceiling breach or write error the partial
// file is removed before the error is returned.
func (s *FileStore) Save(name string, r io.Reader) (string, int64, error) {
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("creating file: %w", err)
	}

	var written int64
	buf := make([]byte, copyChunkSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			written += int64(n)
			if written > s.maxBytes {
				f.Close()
				os.Remove(path)
				return "", 0, ErrFileTooLarge
			}
			if _, writeErr := f.Write(buf[:n]); writeErr != nil {
				f.Close()
				os.Remove(path)
				return "", 0, fmt.Errorf("writing file: %w", writeErr)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			f.Close()
			os.Remove(path)
			return "", 0, fmt.Errorf("reading upload: %w", readErr)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("closing file: %w", err)
	}
	return path, written, nil
}

func (s *FileStore) Open(path string) (*os.File, error) {
	return os.Open(path)
}

func (s *FileStore) Remove(path string) error {
	return os.Remove(path)
}

func (s *FileStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
