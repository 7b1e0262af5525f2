package state

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn. Assistant messages are created as a
// loading placeholder and updated in place (same ID) when the reply or
// an error arrives.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// FileRef describes a file the user attached to the composer.
type FileRef struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
	Size int64  `json:"size"`
	Path string `json:"path,omitempty"`
}

// WidgetState is the single source of truth for widget UI state. It is
// owned exclusively by the Manager; consumers receive snapshots.
type WidgetState struct {
	IsOpen             bool
	Messages           []Message
	IsLoading          bool
	Error              string
	CurrentStreamingID string
	CurrentTheme       string
	AttachedFile       *FileRef
}

// Field names reported to subscribers on change. Components declare the
// fields they depend on and re-render only when one of them changed.
const (
	FieldIsOpen       = "isOpen"
	FieldMessages     = "messages"
	FieldIsLoading    = "isLoading"
	FieldError        = "error"
	FieldStreamingID  = "currentStreamingMessage"
	FieldCurrentTheme = "currentTheme"
	FieldAttachedFile = "attachedFile"
)

// Patch is a partial state update. Nil pointers leave the corresponding
// field untouched, so unrelated updates never disturb unrelated fields.
type Patch struct {
	IsOpen             *bool
	Messages           *[]Message
	IsLoading          *bool
	Error              *string
	CurrentStreamingID *string
	CurrentTheme       *string
	AttachedFile       **FileRef
}
