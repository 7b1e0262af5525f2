package preview

import "encoding/json"

// Frame is one embedding-protocol message. The same envelope is used in
// both directions between the host page (parent) and the widget
// runtime (child).
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Child -> parent frame types.
const (
	// FramePreviewReady is sent once on boot, before any render frames.
	FramePreviewReady = "PREVIEW_READY"
	// FramePreviewError carries {"error": "..."} when the runtime fails.
	FramePreviewError = "PREVIEW_ERROR"
	// FrameWidgetRender carries {"component": "...", "html": "..."}
	// whenever a component's fragment changes.
	FrameWidgetRender = "WIDGET_RENDER"
	// FrameThemeUpdate carries {"css": "..."} with the current token
	// block, on boot and after every config update.
	FrameThemeUpdate = "THEME_UPDATE"
)

// Parent -> child frame types.
const (
	// FrameConfigUpdate pushes a new WidgetConfig snapshot.
	FrameConfigUpdate = "CONFIG_UPDATE"
	// FrameOpenWidget and FrameCloseWidget toggle the panel.
	FrameOpenWidget  = "OPEN_WIDGET"
	FrameCloseWidget = "CLOSE_WIDGET"
	// FrameSendMessage carries {"text": "..."} to drive a conversation
	// turn from the preview page.
	FrameSendMessage = "SEND_MESSAGE"
)

type renderPayload struct {
	Component string `json:"component"`
	HTML      string `json:"html"`
}

type themePayload struct {
	CSS string `json:"css"`
}

type errorPayload struct {
	Error string `json:"error"`
}

type sendPayload struct {
	Text string `json:"text"`
}

// mustFrame builds a frame with a JSON-encoded payload. Payload types
// here are all marshal-safe, so an encode failure is a programming
// error and yields an empty payload rather than a panic.
func mustFrame(frameType string, payload any) Frame {
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{Type: frameType}
	}
	return Frame{Type: frameType, Payload: data}
}
