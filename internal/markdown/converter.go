// Package markdown renders a single rustdoc HTML page as Markdown.
package markdown

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
)

// Converter turns rustdoc HTML pages into Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// ConvertPage renders a documentation page as Markdown. rustdoc wraps the
// item documentation in a main-content section; when present, only that
// section is converted, dropping the sidebar and navigation chrome. Pages
// without the section convert whole.
func (c *Converter) ConvertPage(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", fmt.Errorf("empty HTML input")
	}

	if main, ok := extractMainContent(html); ok {
		html = main
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML: %w", err)
	}
	return md, nil
}

// extractMainContent pulls the rustdoc main-content section out of a page.
func extractMainContent(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	sel := doc.Find("section#main-content, div#main-content")
	if sel.Length() == 0 {
		return "", false
	}

	out, err := goquery.OuterHtml(sel.First())
	if err != nil {
		return "", false
	}
	return out, true
}
