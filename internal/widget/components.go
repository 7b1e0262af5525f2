package widget

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"html/template"

	"github.com/embedchat/widget-runtime/internal/config"
	"github.com/embedchat/widget-runtime/internal/lazyload"
	"github.com/embedchat/widget-runtime/internal/rendercache"
	"github.com/embedchat/widget-runtime/internal/renderer"
	"github.com/embedchat/widget-runtime/internal/state"
	"github.com/embedchat/widget-runtime/internal/theme"
)

// Component renders one region of the widget from the state slice it
// declares. The runtime re-renders a component only when one of its
// declared fields changed, so unrelated updates never touch its markup.
type Component interface {
	Name() string
	Fields() []string
	Render(s state.WidgetState, tokens theme.TokenSet) (string, error)
}

// Launcher renders the floating bubble that toggles the panel. It is
// the only fragment that reflects isOpen, so host pages read the panel
// visibility from it.
type Launcher struct{}

func NewLauncher() *Launcher { return &Launcher{} }

func (l *Launcher) Name() string { return "launcher" }

func (l *Launcher) Fields() []string { return []string{state.FieldIsOpen} }

func (l *Launcher) Render(s state.WidgetState, _ theme.TokenSet) (string, error) {
	var buf bytes.Buffer
	err := launcherTemplate.Execute(&buf, struct{ Open bool }{s.IsOpen})
	return buf.String(), err
}

// Header shows branding and the close affordance.
type Header struct {
	branding config.Branding
}

func NewHeader(branding config.Branding) *Header {
	return &Header{branding: branding}
}

func (h *Header) Name() string { return "header" }

func (h *Header) Fields() []string { return []string{state.FieldCurrentTheme} }

func (h *Header) Render(s state.WidgetState, _ theme.TokenSet) (string, error) {
	var buf bytes.Buffer
	err := headerTemplate.Execute(&buf, struct {
		Title, Subtitle, LogoURL, Theme string
	}{h.branding.Title, h.branding.Subtitle, h.branding.LogoURL, s.CurrentTheme})
	return buf.String(), err
}

// chatMessage is a message prepared for the chat template.
type chatMessage struct {
	ID     string
	Role   state.Role
	HTML   template.HTML
	Typing bool
}

// ChatContainer renders the conversation. Assistant markdown goes
// through the render cache; a miss builds the markdown module via the
// lazy loader.
type ChatContainer struct {
	welcome string
	cache   *rendercache.Cache
	loader  *lazyload.Loader
}

func NewChatContainer(welcome string, cache *rendercache.Cache, loader *lazyload.Loader) *ChatContainer {
	return &ChatContainer{welcome: welcome, cache: cache, loader: loader}
}

func (c *ChatContainer) Name() string { return "chat" }

func (c *ChatContainer) Fields() []string {
	return []string{state.FieldMessages, state.FieldIsLoading, state.FieldStreamingID, state.FieldError}
}

// cacheKey hashes the markdown source; the cache never sees raw text as
// a key so arbitrarily long messages stay cheap to look up.
func cacheKey(source string) string {
	h := fnv.New64a()
	h.Write([]byte(source))
	return fmt.Sprintf("md:%x", h.Sum64())
}

// renderAssistant converts assistant markdown to HTML through the cache.
func (c *ChatContainer) renderAssistant(source string) (template.HTML, error) {
	key := cacheKey(source)
	if html, ok := c.cache.Get(key); ok {
		return template.HTML(html), nil
	}

	md, err := renderer.Load(context.Background(), c.loader)
	if err != nil {
		return "", err
	}
	html, err := md.Render(source)
	if err != nil {
		return "", err
	}
	c.cache.Set(key, html)
	return template.HTML(html), nil
}

func (c *ChatContainer) Render(s state.WidgetState, _ theme.TokenSet) (string, error) {
	msgs := make([]chatMessage, 0, len(s.Messages))
	for _, m := range s.Messages {
		cm := chatMessage{ID: m.ID, Role: m.Role}
		switch {
		case m.Role == state.RoleAssistant && m.Content == "" && m.ID == s.CurrentStreamingID:
			cm.Typing = true
		case m.Role == state.RoleAssistant:
			html, err := c.renderAssistant(m.Content)
			if err != nil {
				// Degrade to escaped plain text rather than fail the
				// whole conversation render.
				html = template.HTML(template.HTMLEscapeString(m.Content))
			}
			cm.HTML = html
		default:
			cm.HTML = template.HTML(template.HTMLEscapeString(m.Content))
		}
		msgs = append(msgs, cm)
	}

	welcome := ""
	if len(s.Messages) == 0 {
		welcome = c.welcome
	}

	var buf bytes.Buffer
	err := chatTemplate.Execute(&buf, struct {
		Messages       []chatMessage
		WelcomeMessage string
		Error          string
	}{msgs, welcome, s.Error})
	return buf.String(), err
}

// FileUpload renders the composer attachment affordance.
type FileUpload struct{}

func NewFileUpload() *FileUpload { return &FileUpload{} }

func (f *FileUpload) Name() string { return "fileupload" }

func (f *FileUpload) Fields() []string { return []string{state.FieldAttachedFile} }

func sizeLabel(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func (f *FileUpload) Render(s state.WidgetState, _ theme.TokenSet) (string, error) {
	data := struct {
		File      *state.FileRef
		SizeLabel string
	}{File: s.AttachedFile}
	if s.AttachedFile != nil {
		data.SizeLabel = sizeLabel(s.AttachedFile.Size)
	}

	var buf bytes.Buffer
	err := fileUploadTemplate.Execute(&buf, data)
	return buf.String(), err
}

// Footer renders the composer; the submit affordance is disabled while
// a send is in flight.
type Footer struct{}

func NewFooter() *Footer { return &Footer{} }

func (f *Footer) Name() string { return "footer" }

func (f *Footer) Fields() []string { return []string{state.FieldIsLoading} }

func (f *Footer) Render(s state.WidgetState, _ theme.TokenSet) (string, error) {
	var buf bytes.Buffer
	err := footerTemplate.Execute(&buf, struct{ Disabled bool }{s.IsLoading})
	return buf.String(), err
}

// PdfLightbox overlays an inline preview when the attached file is a
// PDF.
type PdfLightbox struct{}

func NewPdfLightbox() *PdfLightbox { return &PdfLightbox{} }

func (p *PdfLightbox) Name() string { return "lightbox" }

func (p *PdfLightbox) Fields() []string { return []string{state.FieldAttachedFile} }

func (p *PdfLightbox) Render(s state.WidgetState, _ theme.TokenSet) (string, error) {
	open := s.AttachedFile != nil && s.AttachedFile.MIME == "application/pdf"
	src := ""
	if open {
		src = s.AttachedFile.Path
	}

	var buf bytes.Buffer
	err := lightboxTemplate.Execute(&buf, struct {
		Open bool
		Src  string
	}{open, src})
	return buf.String(), err
}
