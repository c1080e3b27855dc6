package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"docum/internal/domain"
	docsysSvc "docum/internal/domain/services/docsystem"
)

// Registry routes imported files to a FormatConverter by extension.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]docsysSvc.FormatConverter
}

// NewRegistry returns a registry with the markdown, plain text and HTML
// converters registered.
func NewRegistry() *Registry {
	r := &Registry{converters: make(map[string]docsysSvc.FormatConverter)}
	r.Register(NewPassthrough("markdown", ".md", ".markdown"))
	r.Register(NewPassthrough("plaintext", ".txt", ".text"))
	r.Register(NewHTMLConverter())
	return r
}

// Register maps every extension of c to c, replacing earlier registrations.
func (r *Registry) Register(c docsysSvc.FormatConverter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range c.Extensions() {
		r.converters[normalizeExt(ext)] = c
	}
}

// Lookup returns the converter for filename's extension, or nil.
func (r *Registry) Lookup(filename string) docsysSvc.FormatConverter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converters[normalizeExt(filepath.Ext(filename))]
}

// Convert implements docsysSvc.ContentConverter. An unknown extension is a
// validation error.
func (r *Registry) Convert(ctx context.Context, filename string, input []byte) (string, error) {
	c := r.Lookup(filename)
	if c == nil {
		return "", fmt.Errorf("%w: unsupported file type %q (supported: %s)",
			domain.ErrValidation, filepath.Ext(filename), strings.Join(r.Extensions(), ", "))
	}
	out, err := c.Convert(ctx, input)
	if err != nil {
		return "", fmt.Errorf("convert %s as %s: %w", filename, c.Name(), err)
	}
	return out, nil
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.converters))
	for ext := range r.converters {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// passthrough stores the input unchanged; markdown and plain text are
// already valid document content.
type passthrough struct {
	name string
	exts []string
}

// NewPassthrough creates a converter that returns its input as is.
func NewPassthrough(name string, exts ...string) docsysSvc.FormatConverter {
	return &passthrough{name: name, exts: exts}
}

func (p *passthrough) Convert(_ context.Context, input []byte) (string, error) {
	return string(input), nil
}

func (p *passthrough) Extensions() []string { return p.exts }

func (p *passthrough) Name() string { return p.name }
