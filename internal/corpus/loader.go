package corpus

import (
	"context"
	"fmt"
	"os"
)

// Loader fetches raw corpus text from a backing source (file, database).
type Loader interface {
	Load(ctx context.Context) (string, error)
}

// FileLoader reads the corpus from a local UTF-8 text file.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("read corpus file: %w", err)
	}
	return string(data), nil
}

// StaticLoader serves a fixed string (useful for tests and demos).
type StaticLoader struct {
	text string
}

func NewStaticLoader(text string) *StaticLoader {
	return &StaticLoader{text: text}
}

func (l *StaticLoader) Load(_ context.Context) (string, error) {
	return l.text, nil
}

// Load fetches raw text through the loader, parses it and builds the
// corpus, failing fast when nothing parsed.
func Load(ctx context.Context, loader Loader) (*Corpus, error) {
	raw, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(Parse(raw))
}
