// Package renderer converts assistant message markdown to HTML. The
// goldmark pipeline with syntax highlighting is expensive to construct,
// so it is registered as a lazyload module and built on first use.
package renderer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/embedchat/widget-runtime/internal/lazyload"
)

// ModuleName is the lazyload key the markdown renderer registers under.
const ModuleName = "markdown"

// Markdown renders message markdown to HTML.
type Markdown struct {
	md goldmark.Markdown
}

// newMarkdown builds the goldmark pipeline with the extensions the
// widget needs: GFM tables/strikethrough, hard wraps for chat-style
// line breaks, and chroma-backed code highlighting.
func newMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

// Render converts markdown source to HTML. Raw HTML in the source is
// not passed through (goldmark's default), which keeps relay output
// from injecting markup into the host page.
func (m *Markdown) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// Register makes the markdown renderer available on the given loader.
func Register(l *lazyload.Loader) {
	l.Register(ModuleName, func(ctx context.Context) (any, error) {
		return newMarkdown(), nil
	})
}

// Load fetches the markdown renderer through the loader, awaiting the
// build if it is still in flight.
func Load(ctx context.Context, l *lazyload.Loader) (*Markdown, error) {
	h, err := l.Load(ctx, ModuleName)
	if err != nil {
		return nil, err
	}
	val, err := h.Await(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := val.(*Markdown)
	if !ok {
		return nil, fmt.Errorf("renderer: module %q has unexpected type %T", ModuleName, val)
	}
	return m, nil
}
