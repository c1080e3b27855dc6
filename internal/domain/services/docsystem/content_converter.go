package docsystem

import "context"

// FormatConverter turns one file format into markdown document content.
// Implementations must be safe for concurrent use.
type FormatConverter interface {
	Convert(ctx context.Context, input []byte) (markdown string, err error)

	// Extensions lists the file extensions handled, with the leading dot
	Extensions() []string

	Name() string
}

// ContentConverter picks a FormatConverter by file name and runs it
type ContentConverter interface {
	Convert(ctx context.Context, filename string, input []byte) (string, error)
}
