package converter

import (
	"context"
	"errors"
	"testing"

	"docum/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryConvert(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "markdown passthrough",
			filename: "notes.md",
			input:    "# Notes\n\n- one",
			contains: []string{"# Notes\n\n- one"},
		},
		{
			name:     "text passthrough upper-case extension",
			filename: "README.TXT",
			input:    "plain words",
			contains: []string{"plain words"},
		},
		{
			name:     "html is sanitized and converted",
			filename: "page.html",
			input:    `<h1>Title</h1><p>Hello <strong>world</strong></p><script>alert(1)</script>`,
			contains: []string{"# Title", "Hello **world**"},
			excludes: []string{"alert", "<script>"},
		},
		{
			name:     "event handlers dropped",
			filename: "page.htm",
			input:    `<p onclick="steal()">Click</p>`,
			contains: []string{"Click"},
			excludes: []string{"steal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Convert(ctx, tt.filename, []byte(tt.input))
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, out, bad)
			}
		})
	}
}

func TestRegistryUnsupported(t *testing.T) {
	_, err := NewRegistry().Convert(context.Background(), "scan.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), ".pdf")
}

func TestRegistryExtensions(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{".htm", ".html", ".markdown", ".md", ".text", ".txt"}, r.Extensions())

	r.Register(NewPassthrough("org", "org"))
	require.NotNil(t, r.Lookup("todo.org"))
	assert.Equal(t, "org", r.Lookup("todo.org").Name())
	assert.Nil(t, r.Lookup("no-extension"))
}
