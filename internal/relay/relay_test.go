package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/embedchat/widget-runtime/internal/config"
	"github.com/embedchat/widget-runtime/internal/session"
	"github.com/embedchat/widget-runtime/internal/state"
)

func testConfig(webhookURL string) *config.WidgetConfig {
	cfg := config.DefaultConfig()
	cfg.Connection.WebhookURL = webhookURL
	cfg.Connection.WidgetID = "wgt_1"
	cfg.Connection.LicenseKey = "lic_1"
	return cfg
}

func newTestClient(t *testing.T, webhookURL string) (*Client, *state.Manager, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(session.NewMemoryStorage(), "lic_1")
	st := state.New("light")
	c := NewClient(testConfig(webhookURL), sessions, st, nil)
	return c, st, sessions
}

func TestBuildPayloadShape(t *testing.T) {
	c, _, sessions := newTestClient(t, "https://relay.example.com/hook")

	p := c.BuildPayload("hi", nil)

	if p.Message != "hi" || p.ChatInput != "hi" {
		t.Errorf("message duplication: message=%q chatInput=%q", p.Message, p.ChatInput)
	}
	if p.SessionID != sessions.GetSessionID() {
		t.Errorf("sessionId: got %q, want %q", p.SessionID, sessions.GetSessionID())
	}
	if p.WidgetID != "wgt_1" || p.LicenseKey != "lic_1" {
		t.Errorf("identity fields: %+v", p)
	}
	if p.ThreadID != "" {
		t.Errorf("unexpected thread id %q before backend assigned one", p.ThreadID)
	}
}

func TestBuildPayloadIncludesPageContext(t *testing.T) {
	c, _, _ := newTestClient(t, "https://relay.example.com/hook")
	c.SetPageContext(&PageContext{
		URL:   "https://host.example.com/pricing?ref=nav",
		Path:  "/pricing",
		Title: "Pricing",
		Query: map[string]string{"ref": "nav"},
		Host:  "host.example.com",
	})

	p := c.BuildPayload("hi", nil)
	if p.Context == nil || p.Context.Path != "/pricing" {
		t.Errorf("page context missing: %+v", p.Context)
	}

	// Disabled feature drops the context even when one is set.
	c.cfg.Features.PageContext = false
	if p := c.BuildPayload("hi", nil); p.Context != nil {
		t.Error("page context included despite disabled feature")
	}
}

func TestSendSuccessReplacesPlaceholder(t *testing.T) {
	var received Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":"hi there","threadId":"thr-7"}`))
	}))
	defer srv.Close()

	c, st, sessions := newTestClient(t, srv.URL)

	// The placeholder must appear with loading set before resolution.
	sawLoadingPlaceholder := false
	st.Subscribe(func(s state.WidgetState, changed []string) {
		if s.IsLoading && s.CurrentStreamingID != "" && len(s.Messages) == 2 && s.Messages[1].Content == "" {
			sawLoadingPlaceholder = true
		}
	})

	if err := c.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if received.Message != "hello" || received.ChatInput != "hello" {
		t.Errorf("payload fields: %+v", received)
	}
	if received.SessionID == "" {
		t.Error("payload missing session id")
	}
	if !sawLoadingPlaceholder {
		t.Error("loading placeholder never observed")
	}

	final := st.State()
	if len(final.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(final.Messages))
	}
	if final.Messages[0].Role != state.RoleUser || final.Messages[0].Content != "hello" {
		t.Errorf("user message: %+v", final.Messages[0])
	}
	if final.Messages[1].Role != state.RoleAssistant || final.Messages[1].Content != "hi there" {
		t.Errorf("assistant message: %+v", final.Messages[1])
	}
	if final.IsLoading || final.CurrentStreamingID != "" {
		t.Errorf("loading state not cleared: %+v", final)
	}
	if got := sessions.GetThreadID(); got != "thr-7" {
		t.Errorf("thread id not persisted: %q", got)
	}
}

func TestSendFailureShowsGenericError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal detail that must never reach the UI", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, st, _ := newTestClient(t, srv.URL)

	if err := c.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected error from failing relay")
	}

	final := st.State()
	if len(final.Messages) != 2 {
		t.Fatalf("expected user + placeholder, got %d messages", len(final.Messages))
	}
	if final.Messages[1].Content != genericErrorText {
		t.Errorf("placeholder content: got %q, want generic error", final.Messages[1].Content)
	}
	if final.IsLoading {
		t.Error("loading flag stuck after failure")
	}
}

func TestSendRejectsConcurrentCall(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"output":"ok"}`))
	}))
	defer srv.Close()

	c, _, _ := newTestClient(t, srv.URL)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Send(context.Background(), "first")
	}()

	// Wait until the first send is holding the in-flight flag.
	for i := 0; ; i++ {
		c.mu.Lock()
		busy := c.inFlight
		c.mu.Unlock()
		if busy {
			break
		}
		if i > 1000 {
			t.Fatal("first send never became in-flight")
		}
		time.Sleep(time.Millisecond)
	}

	if err := c.Send(context.Background(), "second"); err != ErrSendInFlight {
		t.Errorf("expected ErrSendInFlight, got %v", err)
	}

	close(release)
	wg.Wait()
}

func TestAttachmentsEncodedAndCleared(t *testing.T) {
	content := []byte("%PDF-1.4 fake")
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	var received Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(`{"output":"got it"}`))
	}))
	defer srv.Close()

	c, st, _ := newTestClient(t, srv.URL)
	c.cfg.Features.FileUpload = true

	ref := state.FileRef{Name: "report.pdf", MIME: "application/pdf", Size: int64(len(content)), Path: path}
	if err := c.Attach(ref); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if st.State().AttachedFile == nil {
		t.Fatal("attachment not reflected in state")
	}

	if err := c.Send(context.Background(), "see attached"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(received.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(received.Attachments))
	}
	want := base64.StdEncoding.EncodeToString(content)
	if received.Attachments[0].Data != want {
		t.Error("attachment data not base64 of file content")
	}

	// Queue and composer state are cleared after a successful send.
	if st.State().AttachedFile != nil {
		t.Error("attached file state survived successful send")
	}
	c.mu.Lock()
	pending := len(c.pending)
	c.mu.Unlock()
	if pending != 0 {
		t.Error("pending queue survived successful send")
	}
}

func TestAttachmentReadFailureAbortsSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("relay should not be called when attachment read fails")
	}))
	defer srv.Close()

	c, st, _ := newTestClient(t, srv.URL)
	c.cfg.Features.FileUpload = true

	ref := state.FileRef{Name: "ghost.pdf", MIME: "application/pdf", Size: 10, Path: filepath.Join(t.TempDir(), "ghost.pdf")}
	if err := c.Attach(ref); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	err := c.Send(context.Background(), "see attached")
	if err == nil {
		t.Fatal("expected error for unreadable attachment")
	}
	if got := err.Error(); !strings.Contains(got, "ghost.pdf") {
		t.Errorf("error does not name the failing file: %q", got)
	}

	// Reported to the user exactly like a network failure.
	msgs := st.State().Messages
	if msgs[len(msgs)-1].Content != genericErrorText {
		t.Errorf("placeholder content: %q", msgs[len(msgs)-1].Content)
	}
}

func TestAttachRejectsDisallowedFile(t *testing.T) {
	c, _, _ := newTestClient(t, "https://relay.example.com/hook")
	c.cfg.Features.FileUpload = true

	if err := c.Attach(state.FileRef{Name: "virus.exe", Size: 10}); err == nil {
		t.Error("expected rejection for disallowed extension")
	}
	if err := c.Attach(state.FileRef{Name: "huge.pdf", Size: 1 << 30}); err == nil {
		t.Error("expected rejection for oversized file")
	}
}

func TestParseReplyKeyNames(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"output":"a"}`, "a"},
		{`{"text":"b"}`, "b"},
		{`{"message":"c"}`, "c"},
		{`{"response":"d"}`, "d"},
		{`{"reply":"e"}`, "e"},
		{`[{"output":"wrapped"}]`, "wrapped"},
	}
	for _, tc := range cases {
		got, _, err := parseReply([]byte(tc.body))
		if err != nil {
			t.Errorf("parseReply(%s): %v", tc.body, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseReply(%s): got %q, want %q", tc.body, got, tc.want)
		}
	}

	if _, _, err := parseReply([]byte(`{"unrelated":true}`)); err == nil {
		t.Error("expected error when no reply field present")
	}
	if _, _, err := parseReply([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
