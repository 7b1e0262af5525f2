package relay

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/embedchat/widget-runtime/internal/config"
	"github.com/embedchat/widget-runtime/internal/state"
)

// allowedAttachment checks the file name against the config allow-list.
// An empty list falls back to the default patterns.
func allowedAttachment(features config.Features, name string) bool {
	patterns := features.AllowedAttachments
	if len(patterns) == 0 {
		patterns = config.DefaultAllowedAttachments
	}
	base := filepath.Base(name)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

// Attach validates and stages a file for the next send, reflecting it in
// the widget state so the composer shows the pending attachment.
func (c *Client) Attach(ref state.FileRef) error {
	if !c.cfg.Features.FileUpload {
		return fmt.Errorf("relay: file upload is disabled for this widget")
	}
	if !allowedAttachment(c.cfg.Features, ref.Name) {
		return fmt.Errorf("relay: attachment %q is not an allowed file type", ref.Name)
	}
	max := c.cfg.Features.MaxAttachmentBytes
	if max <= 0 {
		max = config.DefaultMaxAttachmentBytes
	}
	if ref.Size > max {
		return fmt.Errorf("relay: attachment %q exceeds the %d byte limit", ref.Name, max)
	}

	c.mu.Lock()
	c.pending = append(c.pending, ref)
	c.mu.Unlock()

	c.state.Apply(state.Patch{AttachedFile: state.File(&ref)})
	return nil
}

// ClearAttachments drops the pending attachment queue and clears the
// composer state.
func (c *Client) ClearAttachments() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
	c.state.Apply(state.Patch{AttachedFile: state.File(nil)})
}

// encodeAttachments reads and base64-encodes the staged files. A read
// failure aborts the whole batch with an error naming the failing file.
func encodeAttachments(refs []state.FileRef) ([]Attachment, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]Attachment, 0, len(refs))
	for _, ref := range refs {
		data, err := os.ReadFile(ref.Path)
		if err != nil {
			return nil, fmt.Errorf("reading attachment %q: %w", ref.Name, err)
		}
		out = append(out, Attachment{
			Name: ref.Name,
			MIME: ref.MIME,
			Data: base64.StdEncoding.EncodeToString(data),
		})
	}
	return out, nil
}
