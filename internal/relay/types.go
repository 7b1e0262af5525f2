package relay

// PageContext is a snapshot of the host page the widget is embedded in,
// captured at send time when the page-context feature is enabled.
type PageContext struct {
	URL   string            `json:"url,omitempty"`
	Path  string            `json:"path,omitempty"`
	Title string            `json:"title,omitempty"`
	Query map[string]string `json:"query,omitempty"`
	Host  string            `json:"host,omitempty"`
}

// Attachment is a base64-encoded file included with a message.
type Attachment struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
	Data string `json:"data"`
}

// Payload is the outbound relay message body. The content is duplicated
// under both message and chatInput because deployed relay workflows read
// one or the other.
type Payload struct {
	WidgetID      string            `json:"widgetId"`
	LicenseKey    string            `json:"licenseKey"`
	Message       string            `json:"message"`
	ChatInput     string            `json:"chatInput"`
	SessionID     string            `json:"sessionId"`
	ThreadID      string            `json:"threadId,omitempty"`
	Context       *PageContext      `json:"context,omitempty"`
	CustomContext map[string]string `json:"customContext,omitempty"`
	Attachments   []Attachment      `json:"attachments,omitempty"`
	ExtraInputs   map[string]string `json:"extraInputs,omitempty"`
}

// replyKeys are the accepted response field names for the assistant
// reply, checked in order. Relay workflows are configured by operators
// and name their output field inconsistently.
var replyKeys = []string{"output", "text", "message", "response", "reply"}

// threadKeys are the accepted response field names for the thread id.
var threadKeys = []string{"threadId", "thread_id"}
