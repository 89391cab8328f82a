// Package parser inspects a document locally before it is sent to the server.
// It only reads structure (page count); text extraction and chunking happen server-side.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

// FileInfo is what the client knows about a file before uploading it.
type FileInfo struct {
	Name  string
	Size  int64
	IsPDF bool
	Pages int
}

// InspectPDF stats the file at filePath and, when it looks like a PDF, counts its pages.
// A non-PDF file is not an error; IsPDF is false and Pages is 0.
func InspectPDF(filePath string) (*FileInfo, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}

	info := &FileInfo{Name: filepath.Base(filePath), Size: stat.Size()}
	if stat.Size() == 0 {
		return info, nil
	}

	ok, err := hasPDFHeader(f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return info, nil
	}
	info.IsPDF = true

	pages, err := countPages(f, stat.Size())
	if err != nil {
		return info, fmt.Errorf("read pdf %s: %w", info.Name, err)
	}
	info.Pages = pages
	return info, nil
}

// LooksLikePDF reports whether the name has a .pdf extension.
func LooksLikePDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

func hasPDFHeader(r io.ReaderAt) (bool, error) {
	head := make([]byte, len(pdfMagic))
	n, err := r.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return false, err
	}
	return bytes.Equal(head[:n], pdfMagic), nil
}

func countPages(r io.ReaderAt, size int64) (pages int, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}
