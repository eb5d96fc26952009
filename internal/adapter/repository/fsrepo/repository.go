// Package fsrepo exposes a local directory tree as a document repository.
// The folder ID is a filesystem path; eligible files are matched with
// doublestar include/exclude patterns.
package fsrepo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// DefaultIncludes matches the content types the pipeline can index.
var DefaultIncludes = []string{"**/*.txt", "**/*.md", "**/*.markdown"}

type Repository struct {
	includes []string
	excludes []string
}

var _ port.Repository = (*Repository)(nil)

func NewRepository(includes, excludes []string) *Repository {
	if len(includes) == 0 {
		includes = DefaultIncludes
	}
	return &Repository{
		includes: includes,
		excludes: excludes,
	}
}

// List walks the directory tree rooted at folderID and returns every
// matching document. Symlinked directories are not followed, so a cyclic
// tree cannot trap the walk.
func (r *Repository) List(ctx context.Context, folderID string) ([]domain.DocumentRef, error) {
	root, err := filepath.Abs(folderID)
	if err != nil {
		return nil, err
	}

	var refs []domain.DocumentRef
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if r.shouldExclude(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !r.shouldInclude(relPath) || r.shouldExclude(relPath) {
			return nil
		}

		refs = append(refs, domain.DocumentRef{
			ID:          path,
			Name:        filepath.ToSlash(relPath),
			ContentType: contentTypeFor(path),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// Fetch reads a document's content. Unreadable or non-UTF-8 files yield
// "" so one bad file never aborts an indexing run.
func (r *Repository) Fetch(ctx context.Context, ref domain.DocumentRef) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	data, err := os.ReadFile(ref.ID)
	if err != nil {
		return "", nil
	}
	if !utf8.Valid(data) {
		return "", nil
	}
	return string(data), nil
}

func (r *Repository) shouldInclude(path string) bool {
	for _, pattern := range r.includes {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (r *Repository) shouldExclude(path string) bool {
	for _, pattern := range r.excludes {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}

func contentTypeFor(path string) domain.ContentType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return domain.ContentMarkdown
	default:
		return domain.ContentPlainText
	}
}
