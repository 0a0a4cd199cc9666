package ui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/b0bbywan/go-powermenu/backend/theme"
	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
)

//go:embed templates
var templatesFS embed.FS

func LoadTemplates() *template.Template {
	tmpl := template.New("")
	return template.Must(tmpl.ParseFS(templatesFS,
		"templates/base.gohtml",
		"templates/pages/*.gohtml",
		"templates/components/*.gohtml",
	))
}

// Handler manages UI routes and rendering
type Handler struct {
	tmpl     *template.Template
	client   *APIClient
	theme    *theme.ThemeBackend
	closeKey KeyBinding
}

// NewHandler creates a new UI handler with API client. th may be nil.
func NewHandler(cfg *config.UIConfig, apiPort int, th *theme.ThemeBackend) *Handler {
	closeKey, _ := ParseKeyBinding("Escape")
	if cfg != nil && cfg.CloseKey != "" {
		kb, err := ParseKeyBinding(cfg.CloseKey)
		if err != nil {
			logger.Warn("[ui] invalid close_key, using Escape: %v", err)
		} else {
			closeKey = kb
		}
	}

	return &Handler{
		tmpl:     LoadTemplates(),
		client:   NewAPIClient(apiPort),
		theme:    th,
		closeKey: closeKey,
	}
}

// Menu renders the power menu page
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	serverInfo, err := h.client.GetServerInfo()
	if err != nil {
		logger.Error("[ui] Failed to fetch server info: %v", err)
		http.Error(w, "Failed to load server information", http.StatusInternalServerError)
		return
	}

	data := MenuView{
		Title:      "Power Menu",
		ServerInfo: serverInfo,
		CloseKey:   h.closeKey,
		Theme:      h.theme != nil,
	}

	if serverInfo.Backends.Power {
		if actions, err := h.client.GetActions(); err == nil {
			data.Actions = actions
		} else {
			logger.Warn("[ui] Failed to fetch actions: %v", err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "menu", data); err != nil {
		logger.Error("[ui] Template execution failed: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// Theme serves the user stylesheet verbatim, or an empty one.
func (h *Handler) Theme(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	if h.theme == nil || !h.theme.Exists() {
		return
	}
	css, _, err := h.theme.Read()
	if err != nil {
		logger.Warn("[ui] Failed to read theme %s: %v", h.theme.Path(), err)
		return
	}
	if _, err := w.Write(css); err != nil {
		logger.Debug("[ui] Failed to write theme: %v", err)
	}
}

// Close is hit by the close shortcut.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Close(); err != nil {
		logger.Error("[ui] Failed to close menu: %v", err)
		http.Error(w, "Failed to close menu", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
