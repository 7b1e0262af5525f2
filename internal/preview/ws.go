package preview

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/embedchat/widget-runtime/internal/config"
	"github.com/embedchat/widget-runtime/internal/relay"
	"github.com/embedchat/widget-runtime/internal/widget"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// conn wraps a websocket connection with a write lock, since render
// frames and protocol replies are produced from different goroutines.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) send(f Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteJSON(f); err != nil {
		log.Printf("preview: websocket write: %v", err)
	}
}

// handleWebSocket runs one widget runtime per connection and speaks the
// embedding protocol over it.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("preview: websocket upgrade: %v", err)
		return
	}
	defer ws.Close()

	c := &conn{ws: ws}
	rt := widget.New(s.widgetCfg, s.opts)
	defer rt.Shutdown()

	// Capture the embedding page as relay page context.
	if origin := r.Header.Get("Origin"); origin != "" {
		rt.Relay().SetPageContext(&relay.PageContext{URL: origin, Host: r.Host})
	}

	// Boot sequence: ready first, then the theme, then every fragment.
	c.send(Frame{Type: FramePreviewReady})
	c.send(mustFrame(FrameThemeUpdate, themePayload{CSS: rt.TokensCSS()}))
	rt.OnRender(func(component, html string) {
		c.send(mustFrame(FrameWidgetRender, renderPayload{Component: component, HTML: html}))
	})

	for {
		var f Frame
		if err := ws.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("preview: websocket read: %v", err)
			}
			return
		}
		s.handleFrame(r, c, rt, f)
	}
}

func (s *Server) handleFrame(r *http.Request, c *conn, rt *widget.Runtime, f Frame) {
	switch f.Type {
	case FrameOpenWidget:
		rt.Open()

	case FrameCloseWidget:
		rt.Close()

	case FrameConfigUpdate:
		// Decode over defaults so a partial payload keeps fallbacks.
		cfg := config.DefaultConfig()
		if err := json.Unmarshal(f.Payload, cfg); err != nil {
			c.send(mustFrame(FramePreviewError, errorPayload{Error: "invalid config payload"}))
			return
		}
		rt.ApplyConfig(cfg)
		c.send(mustFrame(FrameThemeUpdate, themePayload{CSS: rt.TokensCSS()}))

	case FrameSendMessage:
		var p sendPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil || p.Text == "" {
			c.send(mustFrame(FramePreviewError, errorPayload{Error: "invalid message payload"}))
			return
		}
		// The round trip runs off the read loop so open/close and
		// config frames stay live during a send. The runtime surfaces
		// failures in the conversation itself; the protocol error frame
		// is only for relay-level rejects like a second send while one
		// is in flight.
		go func() {
			if err := rt.Send(r.Context(), p.Text); err == relay.ErrSendInFlight {
				c.send(mustFrame(FramePreviewError, errorPayload{Error: "a message is already being sent"}))
			}
		}()

	default:
		c.send(mustFrame(FramePreviewError, errorPayload{Error: "unknown frame type: " + f.Type}))
	}
}
