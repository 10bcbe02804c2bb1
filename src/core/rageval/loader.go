package rageval

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"ragbench/src/fsutil"
	"ragbench/src/log"
)

// Loader reads source files from a directory into documents. PDF files yield
// one document per page; plain text and markdown files yield one document
// each. Files it cannot read are skipped with a log line.
type Loader struct {
	fs fsutil.FileStore
}

func NewLoader(fs fsutil.FileStore) *Loader {
	return &Loader{fs: fs}
}

// Load returns the documents found under dir in directory-listing order. It
// returns a LoadError when the directory does not exist or no file could be
// read.
func (l *Loader) Load(dir string) ([]Document, error) {
	files, err := l.fs.ListFiles(dir)
	if err != nil {
		return nil, &LoadError{Path: dir, Err: err}
	}

	var docs []Document
	for _, path := range files {
		loaded, err := l.loadFile(path)
		if err != nil {
			log.Error(err, "skipping unreadable file", "path", path)
			continue
		}
		docs = append(docs, loaded...)
	}

	if len(docs) == 0 {
		return nil, &LoadError{Path: dir, Err: errors.New("no readable files")}
	}

	return docs, nil
}

func (l *Loader) loadFile(path string) ([]Document, error) {
	name := filepath.Base(path)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path, name)
	case ".txt", ".md", ".text", ".markdown":
		data, err := l.fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			return nil, fmt.Errorf("file %s is empty", name)
		}
		return []Document{{Name: name, Page: 1, Content: content}}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %s", filepath.Ext(path))
	}
}

func loadPDF(path, name string) ([]Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var docs []Document
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Error(err, "failed to extract page text", "file", name, "page", i)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		docs = append(docs, Document{Name: name, Page: i, Content: text})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no extractable text in %s", name)
	}

	return docs, nil
}
