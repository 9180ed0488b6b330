package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ringpost/ringpost/internal/credential"
	"github.com/ringpost/ringpost/internal/ctxkeys"
	"github.com/ringpost/ringpost/internal/gemini"
	"github.com/ringpost/ringpost/internal/markdown"
	"github.com/ringpost/ringpost/internal/model"
	"github.com/ringpost/ringpost/internal/service"
	"github.com/ringpost/ringpost/internal/session"
	"github.com/ringpost/ringpost/internal/source"
	"github.com/ringpost/ringpost/internal/ui"
	"github.com/ringpost/ringpost/internal/validation"
)

type studioData struct {
	AppName   string
	CSRFToken string
	HasImage  bool
	ImageName string
	Caption   string
	Hashtags  string
	Guidance  string
	Notice    string
	Error     string
}

type previewData struct {
	AppName     string
	HasImage    bool
	ImageName   string
	CaptionHTML template.HTML
}

type StudioHandler struct {
	captionService *service.CaptionService
	styleService   *service.StyleService
	sessions       *session.Manager
	markdown       *markdown.Parser
}

func NewStudioHandler(captionService *service.CaptionService, styleService *service.StyleService, sessions *session.Manager) *StudioHandler {
	return &StudioHandler{
		captionService: captionService,
		styleService:   styleService,
		sessions:       sessions,
		markdown:       markdown.NewParser(),
	}
}

func (h *StudioHandler) StudioPage(w http.ResponseWriter, r *http.Request) {
	notice := ""
	switch {
	case r.URL.Query().Get("saved") == "1":
		notice = "Settings saved."
	case r.URL.Query().Get("fetched") == "1":
		notice = "Image fetched."
	}
	ui.Render(w, r, "studio.html", h.studioData(r, notice, ""))
}

// FetchImage pulls the newest image into the session, replacing any
// previous one and clearing the caption that described it.
func (h *StudioHandler) FetchImage(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())

	asset, err := h.captionService.FetchLatest(r.Context())
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			// Expected outcome, not a failure
			ui.Render(w, r, "studio.html", h.studioData(r, "No image found in the folder.", ""))
			return
		}
		if errors.Is(err, credential.ErrAuthFailure) {
			slog.Error("image fetch auth failed", "error", err)
			ui.Render(w, r, "studio.html", h.studioData(r, "", "Could not authorize access to the image folder. Re-run the consent flow and try again."))
			return
		}
		slog.Error("image fetch failed", "error", err)
		ui.Render(w, r, "studio.html", h.studioData(r, "", "Could not fetch the image. Please try again."))
		return
	}

	h.sessions.SetImage(sess.ID, asset)
	slog.Info("image fetched", "session_id", sess.ID, "name", asset.Name)

	http.Redirect(w, r, "/app?fetched=1", http.StatusSeeOther)
}

// GenerateCaption drafts a caption for the image currently held in the
// session. The image may be reused across attempts until a new fetch
// replaces it.
func (h *StudioHandler) GenerateCaption(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())
	if sess.Image == nil {
		ui.Render(w, r, "studio.html", h.studioData(r, "", "Fetch an image first."))
		return
	}

	caption, err := h.captionService.Generate(r.Context(), sess.Image)
	if err != nil {
		var genErr *gemini.GenerationError
		if errors.As(err, &genErr) {
			slog.Error("generation endpoint error", "status", genErr.StatusCode)
			ui.Render(w, r, "studio.html", h.studioData(r, "", genErr.Error()))
			return
		}
		if errors.Is(err, gemini.ErrMalformedResponse) {
			slog.Warn("generation returned no caption")
			ui.Render(w, r, "studio.html", h.studioData(r, "", "The model returned no usable caption. Please try again."))
			return
		}
		slog.Error("caption generation failed", "error", err)
		ui.Render(w, r, "studio.html", h.studioData(r, "", "Caption generation failed. Please try again."))
		return
	}

	h.sessions.SetCaption(sess.ID, caption)
	slog.Info("caption generated", "session_id", sess.ID, "length", len(caption))

	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

// ServeImage streams the session's fetched image for display.
func (h *StudioHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())
	if sess.Image == nil {
		http.NotFound(w, r)
		return
	}

	mimeType := sess.Image.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "no-store")
	_, err := w.Write(sess.Image.Data)
	if err != nil {
		slog.Error("failed to write image", "error", err)
	}
}

// SaveStyle persists the edited guidance and hashtag set.
func (h *StudioHandler) SaveStyle(w http.ResponseWriter, r *http.Request) {
	hashtags := r.FormValue("hashtags")
	guidance := r.FormValue("guidance")

	err := validation.ValidateHashtags(hashtags)
	if err != nil {
		ui.Render(w, r, "studio.html", h.studioData(r, "", "Hashtags must be a space-separated list starting with '#'."))
		return
	}

	err = h.styleService.Save(&model.StyleProfile{
		Guidance: guidance,
		Hashtags: hashtags,
	})
	if err != nil {
		slog.Error("failed to save style profile", "error", err)
		ui.Render(w, r, "studio.html", h.studioData(r, "", "Could not save settings. Please try again."))
		return
	}

	http.Redirect(w, r, "/app?saved=1", http.StatusSeeOther)
}

// PreviewPage renders the print sheet: image plus the caption as HTML.
func (h *StudioHandler) PreviewPage(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())
	if sess.Caption == "" {
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	}

	captionHTML, err := h.markdown.Parse([]byte(sess.Caption))
	if err != nil {
		slog.Error("failed to render caption preview", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := previewData{
		AppName:     h.appName(r),
		HasImage:    sess.Image != nil,
		CaptionHTML: template.HTML(captionHTML),
	}
	if sess.Image != nil {
		data.ImageName = sess.Image.Name
	}

	ui.Render(w, r, "preview.html", data)
}

func (h *StudioHandler) studioData(r *http.Request, notice, errMsg string) studioData {
	profile := h.styleService.Profile()

	data := studioData{
		AppName:   h.appName(r),
		CSRFToken: ctxkeys.CSRFToken(r.Context()),
		Hashtags:  profile.Hashtags,
		Guidance:  profile.Guidance,
		Notice:    notice,
		Error:     errMsg,
	}

	sess := ctxkeys.Session(r.Context())
	if sess != nil {
		if sess.Image != nil {
			data.HasImage = true
			data.ImageName = sess.Image.Name
		}
		data.Caption = sess.Caption
	}

	return data
}

func (h *StudioHandler) appName(r *http.Request) string {
	appName := "Ringpost"
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		appName = cfg.AppName
	}
	return appName
}
