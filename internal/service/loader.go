package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"

	"github.com/set-night/erpchat/internal/config"
	"github.com/set-night/erpchat/internal/domain"
)

// Supported reports whether path has an extension ingestion can load.
func Supported(path string) bool {
	return slices.Contains(config.WatchedExtensions, strings.ToLower(filepath.Ext(path)))
}

// LoadDocument reads a file into documents: one per PDF page, one for any
// other type. Pages without text are dropped.
func LoadDocument(ctx context.Context, path string) ([]schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	var docs []schema.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat document: %w", err)
		}
		docs, err = documentloaders.NewPDF(f, info.Size()).Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load pdf: %w", err)
		}
	case ".txt", ".md":
		docs, err = documentloaders.NewText(f).Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load text: %w", err)
		}
	case ".html", ".htm":
		text, err := htmlText(f)
		if err != nil {
			return nil, fmt.Errorf("load html: %w", err)
		}
		docs = []schema.Document{{PageContent: text, Metadata: map[string]any{}}}
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), domain.ErrUnsupportedDocument)
	}

	return slices.DeleteFunc(docs, func(d schema.Document) bool {
		return strings.TrimSpace(d.PageContent) == ""
	}), nil
}

// htmlText returns the visible text of an HTML page, one block per line.
func htmlText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, head").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
