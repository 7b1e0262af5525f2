// Package relay builds and sends the outbound message payload and
// manages the send/receive lifecycle: optimistic user insert, assistant
// loading placeholder, network round-trip, in-place placeholder
// resolution.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/embedchat/widget-runtime/internal/config"
	"github.com/embedchat/widget-runtime/internal/session"
	"github.com/embedchat/widget-runtime/internal/state"
)

// ErrSendInFlight is returned when Send is called while a previous send
// has not resolved. The widget disables its submit affordance while
// loading, so hitting this means the caller bypassed the UI.
var ErrSendInFlight = errors.New("relay: a send is already in flight")

// genericErrorText is the only failure detail ever surfaced in the
// conversation; status codes and stack traces stay in the log.
const genericErrorText = "Sorry, something went wrong. Please try again."

// Client sends chat turns to the relay endpoint.
type Client struct {
	cfg      *config.WidgetConfig
	sessions *session.Manager
	state    *state.Manager
	http     *http.Client
	page     *PageContext

	mu       sync.Mutex
	inFlight bool
	pending  []state.FileRef

	now   func() time.Time
	newID func() string
}

// NewClient creates a relay client. httpClient may be nil, in which case
// a client with a 30s timeout is used.
func NewClient(cfg *config.WidgetConfig, sessions *session.Manager, st *state.Manager, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		cfg:      cfg,
		sessions: sessions,
		state:    st,
		http:     httpClient,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// SetPageContext records the host-page snapshot included with each send
// when the page-context feature is enabled. The preview channel calls
// this from the embedding handshake.
func (c *Client) SetPageContext(pc *PageContext) {
	c.mu.Lock()
	c.page = pc
	c.mu.Unlock()
}

// BuildPayload assembles the outbound body for the given message text
// and attachments. Exposed separately from Send so the payload shape is
// testable without a network round-trip.
func (c *Client) BuildPayload(text string, attachments []Attachment) Payload {
	c.mu.Lock()
	page := c.page
	c.mu.Unlock()

	p := Payload{
		WidgetID:    c.cfg.Connection.WidgetID,
		LicenseKey:  c.cfg.Connection.LicenseKey,
		Message:     text,
		ChatInput:   text,
		SessionID:   c.sessions.GetSessionID(),
		ThreadID:    c.sessions.GetThreadID(),
		Attachments: attachments,
	}
	if c.cfg.Features.PageContext && page != nil {
		p.Context = page
	}
	if len(c.cfg.Connection.CustomContext) > 0 {
		p.CustomContext = c.cfg.Connection.CustomContext
	}
	if len(c.cfg.ExtraInputs) > 0 {
		p.ExtraInputs = c.cfg.ExtraInputs
	}
	return p
}

// Send runs one conversation turn. The user message is inserted
// optimistically and an assistant placeholder follows immediately; the
// placeholder is resolved in place with the reply on success or a
// generic error message on any failure. A second Send while one is in
// flight is rejected with ErrSendInFlight.
func (c *Client) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrSendInFlight
	}
	c.inFlight = true
	staged := c.pending
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	now := c.now()
	c.state.AppendMessage(state.Message{
		ID:        c.newID(),
		Role:      state.RoleUser,
		Content:   text,
		Timestamp: now,
	})

	placeholderID := c.newID()
	c.state.AppendMessage(state.Message{
		ID:        placeholderID,
		Role:      state.RoleAssistant,
		Timestamp: now,
	})
	c.state.Apply(state.Patch{
		IsLoading:          state.Bool(true),
		CurrentStreamingID: state.Str(placeholderID),
		Error:              state.Str(""),
	})

	reply, err := c.exchange(ctx, text, staged)

	if err != nil {
		log.Printf("relay: send failed: %v", err)
		c.state.UpdateMessage(placeholderID, genericErrorText)
		c.state.Apply(state.Patch{
			IsLoading:          state.Bool(false),
			CurrentStreamingID: state.Str(""),
		})
		return err
	}

	c.state.UpdateMessage(placeholderID, reply)
	c.state.Apply(state.Patch{
		IsLoading:          state.Bool(false),
		CurrentStreamingID: state.Str(""),
	})
	c.ClearAttachments()
	return nil
}

// exchange encodes attachments, performs the POST, and extracts the
// reply. All failure modes surface as a single error to Send.
func (c *Client) exchange(ctx context.Context, text string, staged []state.FileRef) (string, error) {
	attachments, err := encodeAttachments(staged)
	if err != nil {
		return "", err
	}

	payload := c.BuildPayload(text, attachments)
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Connection.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting to relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("reading relay response: %w", err)
	}

	reply, threadID, err := parseReply(raw)
	if err != nil {
		return "", err
	}
	if threadID != "" {
		c.sessions.SetThreadID(threadID)
	}
	return reply, nil
}

// parseReply extracts the assistant reply and optional thread id from a
// relay response. The reply is checked under several accepted key names;
// a top-level single-element array is unwrapped first, which is how some
// workflow engines shape their webhook output.
func parseReply(raw []byte) (reply, threadID string, err error) {
	var any interface{}
	if err := json.Unmarshal(raw, &any); err != nil {
		return "", "", fmt.Errorf("decoding relay response: %w", err)
	}

	if arr, ok := any.([]interface{}); ok && len(arr) > 0 {
		any = arr[0]
	}

	obj, ok := any.(map[string]interface{})
	if !ok {
		return "", "", fmt.Errorf("relay response is not an object")
	}

	for _, k := range threadKeys {
		if v, ok := obj[k].(string); ok && v != "" {
			threadID = v
			break
		}
	}

	for _, k := range replyKeys {
		if v, ok := obj[k].(string); ok && v != "" {
			return v, threadID, nil
		}
	}
	return "", threadID, fmt.Errorf("relay response contains no reply field")
}
