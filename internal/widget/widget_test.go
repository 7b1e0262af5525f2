package widget

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/embedchat/widget-runtime/internal/config"
	"github.com/embedchat/widget-runtime/internal/state"
)

func testConfig(webhookURL string) *config.WidgetConfig {
	cfg := config.DefaultConfig()
	cfg.Branding.Title = "Acme Support"
	cfg.Branding.WelcomeMessage = "Hello! Ask us anything."
	cfg.Connection.WebhookURL = webhookURL
	cfg.Connection.WidgetID = "wgt_1"
	cfg.Connection.LicenseKey = "lic_1"
	return cfg
}

func TestFreshWidgetRendersAllComponents(t *testing.T) {
	r := New(testConfig("https://relay.example.com/hook"), Options{})
	defer r.Shutdown()

	frags := r.Fragments()
	for _, name := range []string{"launcher", "header", "chat", "fileupload", "footer", "lightbox"} {
		if frags[name] == "" {
			t.Errorf("component %q produced no fragment", name)
		}
	}
	if !strings.Contains(frags["header"], "Acme Support") {
		t.Errorf("header missing branding: %s", frags["header"])
	}
	if !strings.Contains(frags["chat"], "Hello! Ask us anything.") {
		t.Errorf("empty conversation should show the welcome message: %s", frags["chat"])
	}
}

func TestEndToEndSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"output":"hi there"}`))
	}))
	defer srv.Close()

	r := New(testConfig(srv.URL), Options{})
	defer r.Shutdown()

	if r.Sessions().HasSession() {
		t.Fatal("fresh widget should have no session")
	}

	// A loading placeholder must be rendered while the send is in flight.
	sawTyping := false
	r.OnRender(func(component, html string) {
		if component == "chat" && strings.Contains(html, "ec-typing") {
			sawTyping = true
		}
	})

	if err := r.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if !r.Sessions().HasSession() {
		t.Error("send should have created a session")
	}
	if !sawTyping {
		t.Error("loading placeholder was never rendered")
	}

	chat := r.Fragments()["chat"]
	if !strings.Contains(chat, "hello") {
		t.Errorf("user message missing from chat: %s", chat)
	}
	if !strings.Contains(chat, "hi there") {
		t.Errorf("reply missing from chat: %s", chat)
	}
	if strings.Contains(chat, "ec-typing") {
		t.Error("typing indicator still present after resolution")
	}
}

func TestEndToEndSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := New(testConfig(srv.URL), Options{})
	defer r.Shutdown()

	if err := r.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected send failure")
	}

	chat := r.Fragments()["chat"]
	if !strings.Contains(chat, "Sorry, something went wrong") {
		t.Errorf("generic error not shown: %s", chat)
	}
	if strings.Contains(chat, "boom") || strings.Contains(chat, "500") {
		t.Errorf("internal error detail leaked to UI: %s", chat)
	}
}

func TestUnrelatedUpdateDoesNotRerenderHeader(t *testing.T) {
	r := New(testConfig("https://relay.example.com/hook"), Options{})
	defer r.Shutdown()

	headerRenders := 0
	r.OnRender(func(component, html string) {
		if component == "header" {
			headerRenders++
		}
	})
	initial := headerRenders // OnRender replays current fragments once

	r.State().Apply(state.Patch{IsLoading: state.Bool(true)})
	r.State().Apply(state.Patch{IsLoading: state.Bool(false)})

	if headerRenders != initial {
		t.Errorf("header re-rendered %d times on isLoading-only updates", headerRenders-initial)
	}
}

func TestOpenCloseTogglesState(t *testing.T) {
	r := New(testConfig("https://relay.example.com/hook"), Options{})
	defer r.Shutdown()

	r.Open()
	if !r.State().State().IsOpen {
		t.Error("Open did not set isOpen")
	}
	r.Close()
	if r.State().State().IsOpen {
		t.Error("Close did not clear isOpen")
	}
}

func TestOpenCloseRerendersLauncher(t *testing.T) {
	r := New(testConfig("https://relay.example.com/hook"), Options{})
	defer r.Shutdown()

	closed := r.Fragments()["launcher"]
	if !strings.Contains(closed, `aria-expanded="false"`) {
		t.Fatalf("fresh launcher should be collapsed: %s", closed)
	}

	launcherRenders := 0
	r.OnRender(func(component, html string) {
		if component == "launcher" {
			launcherRenders++
		}
	})
	initial := launcherRenders // OnRender replays current fragments once

	r.Open()
	opened := r.Fragments()["launcher"]
	if opened == closed {
		t.Error("Open produced no observable fragment change")
	}
	if !strings.Contains(opened, `aria-expanded="true"`) || !strings.Contains(opened, "ec-launcher-open") {
		t.Errorf("open launcher missing expanded markup: %s", opened)
	}

	r.Close()
	if got := r.Fragments()["launcher"]; got != closed {
		t.Errorf("Close did not restore the collapsed fragment: %s", got)
	}
	if launcherRenders-initial != 2 {
		t.Errorf("expected 2 launcher re-renders across open/close, got %d", launcherRenders-initial)
	}
}

func TestAssistantMarkdownCachedAcrossRenders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"output":"**bold** reply"}`))
	}))
	defer srv.Close()

	r := New(testConfig(srv.URL), Options{})
	defer r.Shutdown()

	if err := r.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(r.Fragments()["chat"], "<strong>bold</strong>") {
		t.Errorf("markdown not rendered: %s", r.Fragments()["chat"])
	}
	if !r.Loader().IsLoaded("markdown") {
		t.Error("markdown module should be loaded after first assistant render")
	}

	before := r.Cache().GetStats()

	// Force a conversation re-render; the assistant HTML must come from
	// the cache this time.
	r.State().Apply(state.Patch{Error: state.Str("transient")})
	r.State().Apply(state.Patch{Error: state.Str("")})

	after := r.Cache().GetStats()
	if after.Hits <= before.Hits {
		t.Errorf("expected cache hits to grow on re-render: before=%+v after=%+v", before, after)
	}
}

func TestApplyConfigRethemes(t *testing.T) {
	r := New(testConfig("https://relay.example.com/hook"), Options{})
	defer r.Shutdown()

	if got := r.Tokens()["--theme"]; got != "light" {
		t.Fatalf("initial theme: %q", got)
	}

	next := testConfig("https://relay.example.com/hook")
	next.Style.Theme = config.ThemeDark
	r.ApplyConfig(next)

	if got := r.Tokens()["--theme"]; got != "dark" {
		t.Errorf("theme after config update: %q", got)
	}
	if !strings.Contains(r.Fragments()["header"], `data-theme="dark"`) {
		t.Errorf("header did not retheme: %s", r.Fragments()["header"])
	}
	if !strings.Contains(r.TokensCSS(), "--surface-bg") {
		t.Error("TokensCSS missing surface tokens")
	}
}

func TestClearHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"output":"reply"}`))
	}))
	defer srv.Close()

	r := New(testConfig(srv.URL), Options{})
	defer r.Shutdown()

	if err := r.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	r.ClearHistory()

	if len(r.State().State().Messages) != 0 {
		t.Error("messages survived ClearHistory")
	}
	stats := r.Cache().GetStats()
	if stats.Size != 0 || stats.Hits != 0 {
		t.Errorf("cache not cleared: %+v", stats)
	}
	if !strings.Contains(r.Fragments()["chat"], "Hello! Ask us anything.") {
		t.Error("welcome message should return after history clear")
	}
}
