package widget

import "html/template"

// Component markup. Fragments are assembled by the embedding page (or
// the preview channel) into the widget container; every fragment reads
// its colors and sizing from the design-token CSS variables.

const launcherTmpl = `<button class="ec-launcher{{if .Open}} ec-launcher-open{{end}}" data-action="toggle-widget" aria-expanded="{{if .Open}}true{{else}}false{{end}}" aria-label="{{if .Open}}Close chat{{else}}Open chat{{end}}">
  {{if .Open}}&times;{{else}}&#128172;{{end}}
</button>`

const headerTmpl = `<div class="ec-header" data-theme="{{.Theme}}">
  {{if .LogoURL}}<img class="ec-header-logo" src="{{.LogoURL}}" alt="">{{end}}
  <div class="ec-header-text">
    <div class="ec-header-title">{{.Title}}</div>
    {{if .Subtitle}}<div class="ec-header-subtitle">{{.Subtitle}}</div>{{end}}
  </div>
  <button class="ec-header-close" data-action="close" aria-label="Close chat">&times;</button>
</div>`

const chatTmpl = `<div class="ec-messages">
  {{if .WelcomeMessage}}<div class="ec-msg ec-msg-assistant ec-msg-welcome">{{.WelcomeMessage}}</div>{{end}}
  {{range .Messages}}
  <div class="ec-msg ec-msg-{{.Role}}" data-id="{{.ID}}">
    {{if .Typing}}<span class="ec-typing"><span></span><span></span><span></span></span>{{else}}{{.HTML}}{{end}}
  </div>
  {{end}}
  {{if .Error}}<div class="ec-msg-error">{{.Error}}</div>{{end}}
</div>`

const fileUploadTmpl = `<div class="ec-upload">
  {{if .File}}
  <div class="ec-upload-chip" data-name="{{.File.Name}}">
    <span class="ec-upload-name">{{.File.Name}}</span>
    <span class="ec-upload-size">{{.SizeLabel}}</span>
    <button class="ec-upload-remove" data-action="detach" aria-label="Remove attachment">&times;</button>
  </div>
  {{else}}
  <button class="ec-upload-button" data-action="attach" aria-label="Attach a file">&#128206;</button>
  {{end}}
</div>`

const footerTmpl = `<div class="ec-footer">
  <form class="ec-composer" data-action="send">
    <textarea class="ec-composer-input" placeholder="Type a message..." {{if .Disabled}}disabled{{end}}></textarea>
    <button class="ec-composer-send" type="submit" {{if .Disabled}}disabled{{end}} aria-label="Send">&#10148;</button>
  </form>
</div>`

const lightboxTmpl = `<div class="ec-lightbox{{if .Open}} ec-lightbox-open{{end}}" role="dialog" aria-hidden="{{if .Open}}false{{else}}true{{end}}">
  {{if .Open}}
  <div class="ec-lightbox-backdrop" data-action="lightbox-close"></div>
  <div class="ec-lightbox-frame">
    <embed src="{{.Src}}" type="application/pdf">
    <button class="ec-lightbox-close" data-action="lightbox-close" aria-label="Close preview">&times;</button>
  </div>
  {{end}}
</div>`

var (
	launcherTemplate   = template.Must(template.New("launcher").Parse(launcherTmpl))
	headerTemplate     = template.Must(template.New("header").Parse(headerTmpl))
	chatTemplate       = template.Must(template.New("chat").Parse(chatTmpl))
	fileUploadTemplate = template.Must(template.New("fileupload").Parse(fileUploadTmpl))
	footerTemplate     = template.Must(template.New("footer").Parse(footerTmpl))
	lightboxTemplate   = template.Must(template.New("lightbox").Parse(lightboxTmpl))
)
