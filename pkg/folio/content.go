package folio

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"gitlab.com/golang-commonmark/markdown"
)

const (
	ContentFormatGoldmark   = "goldmark"
	ContentFormatCommonmark = "commonmark"
)

// ContentConverter turns a document body into HTML. Plain paragraphs become
// <p>...</p> blocks; converting text with no markup twice gives the same result.
type ContentConverter interface {
	Convert(body []byte) (string, error)
}

// ContentConverterFunc adapts a function to ContentConverter
type ContentConverterFunc func(body []byte) (string, error)

func (f ContentConverterFunc) Convert(body []byte) (string, error) {
	return f(body)
}

// GoldmarkConverter renders CommonMark with goldmark. Raw HTML in the body is
// not passed through.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

func NewGoldmarkConverter() *GoldmarkConverter {
	return &GoldmarkConverter{md: goldmark.New()}
}

func (c *GoldmarkConverter) Convert(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("failed to convert content: %w", err)
	}
	return buf.String(), nil
}

// CommonmarkConverter renders CommonMark with golang-commonmark, passing raw
// HTML through.
type CommonmarkConverter struct {
	md *markdown.Markdown
}

func NewCommonmarkConverter() *CommonmarkConverter {
	return &CommonmarkConverter{md: markdown.New(markdown.HTML(true))}
}

func (c *CommonmarkConverter) Convert(body []byte) (string, error) {
	return c.md.RenderToString(body), nil
}

// NewContentConverter returns the converter registered for format
func NewContentConverter(format string) (ContentConverter, error) {
	switch format {
	case "", ContentFormatGoldmark:
		return NewGoldmarkConverter(), nil
	case ContentFormatCommonmark:
		return NewCommonmarkConverter(), nil
	}
	return nil, fmt.Errorf("unknown content format: %s", format)
}
