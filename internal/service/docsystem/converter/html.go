package converter

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"

	docsysSvc "docum/internal/domain/services/docsystem"
)

// htmlConverter sanitizes HTML and then rewrites it as markdown.
type htmlConverter struct {
	policy    *bluemonday.Policy
	converter *md.Converter
}

// NewHTMLConverter creates the HTML converter. Scripts, event handlers and
// javascript: URLs are stripped before conversion.
func NewHTMLConverter() docsysSvc.FormatConverter {
	return &htmlConverter{
		policy:    bluemonday.UGCPolicy(),
		converter: md.NewConverter("", true, nil),
	}
}

func (c *htmlConverter) Convert(ctx context.Context, input []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sanitized := c.policy.SanitizeBytes(input)
	markdown, err := c.converter.ConvertBytes(sanitized)
	if err != nil {
		return "", fmt.Errorf("html to markdown: %w", err)
	}
	return strings.TrimSpace(string(markdown)), nil
}

func (c *htmlConverter) Extensions() []string { return []string{".html", ".htm"} }

func (c *htmlConverter) Name() string { return "html" }
