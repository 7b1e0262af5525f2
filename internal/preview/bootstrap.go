package preview

import (
	"html/template"
	"log"
	"net/http"

	"github.com/embedchat/widget-runtime/internal/theme"
)

// bootstrapTmpl is the minimal host page: it injects the token CSS,
// mounts the fragment containers, and drives them over the websocket
// channel.
const bootstrapTmpl = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} — embedchat preview</title>
<style id="ec-tokens">
{{.TokensCSS}}
</style>
<style>
body { margin: 0; font-family: var(--font-family); background: var(--gray-1); }
.embedchat-widget {
  position: fixed; right: 16px; bottom: 88px; width: 360px; height: 520px;
  display: none; flex-direction: column; border-radius: var(--radius);
  background: var(--surface-bg); color: var(--text-primary);
  border: 1px solid var(--border-color); overflow: hidden;
  font-size: var(--font-size);
}
.embedchat-widget.ec-widget-open { display: flex; }
.embedchat-widget section { display: contents; }
.embedchat-launcher { position: fixed; right: 16px; bottom: 16px; }
.embedchat-launcher .ec-launcher {
  width: 56px; height: 56px; border: none; border-radius: 9999px;
  background: var(--accent); color: var(--user-msg-text); cursor: pointer;
  font-size: 24px;
}
</style>
</head>
<body>
<div class="embedchat-widget">
  <section data-component="header"></section>
  <section data-component="chat"></section>
  <section data-component="fileupload"></section>
  <section data-component="footer"></section>
  <section data-component="lightbox"></section>
</div>
<div class="embedchat-launcher">
  <section data-component="launcher"></section>
</div>
<script>
(function () {
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = function (ev) {
    var frame = JSON.parse(ev.data);
    if (frame.type === "WIDGET_RENDER") {
      var el = document.querySelector('[data-component="' + frame.payload.component + '"]');
      if (el) el.innerHTML = frame.payload.html;
      if (frame.payload.component === "launcher") {
        var btn = el && el.querySelector(".ec-launcher");
        var open = btn && btn.getAttribute("aria-expanded") === "true";
        document.querySelector(".embedchat-widget").classList.toggle("ec-widget-open", open);
      }
    } else if (frame.type === "THEME_UPDATE") {
      document.getElementById("ec-tokens").textContent = frame.payload.css;
    }
  };
  document.body.addEventListener("click", function (ev) {
    var action = ev.target.closest("[data-action]");
    if (!action) return;
    if (action.dataset.action === "toggle-widget") {
      var open = action.getAttribute("aria-expanded") === "true";
      ws.send(JSON.stringify({type: open ? "CLOSE_WIDGET" : "OPEN_WIDGET"}));
    } else if (action.dataset.action === "close") {
      ws.send(JSON.stringify({type: "CLOSE_WIDGET"}));
    }
  });
  document.body.addEventListener("submit", function (ev) {
    ev.preventDefault();
    var input = document.querySelector(".ec-composer-input");
    if (input && input.value.trim()) {
      ws.send(JSON.stringify({type: "SEND_MESSAGE", payload: {text: input.value}}));
      input.value = "";
    }
  });
})();
</script>
</body>
</html>`

var bootstrapTemplate = template.Must(template.New("bootstrap").Parse(bootstrapTmpl))

// handleBootstrap serves the preview host page with the current design
// tokens inlined.
func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	css := theme.ComputeTokens(s.widgetCfg).CSS(".embedchat-widget")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := bootstrapTemplate.Execute(w, struct {
		Title     string
		TokensCSS template.CSS
	}{
		Title:     s.widgetCfg.Branding.Title,
		TokensCSS: template.CSS(css),
	})
	if err != nil {
		log.Printf("preview: rendering bootstrap page: %v", err)
	}
}
