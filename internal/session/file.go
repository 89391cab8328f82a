package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is a document selected for upload.
type File struct {
	Name  string
	Size  int64
	Pages int // from local inspection, 0 when unknown

	open func() (io.ReadCloser, error)
}

// OpenFile selects the file at path. The content is read only when the upload runs.
func OpenFile(path string) (*File, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &File{
		Name: filepath.Base(path),
		Size: stat.Size(),
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// NewFile selects an in-memory document.
func NewFile(name string, data []byte) *File {
	return &File{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func (f *File) selected() bool {
	return f != nil && f.Name != "" && f.Size > 0
}

func (f *File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, errors.New("file has no content")
	}
	return f.open()
}
