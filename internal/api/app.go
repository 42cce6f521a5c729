package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kalambet/jobseek/internal/chat"
	"github.com/kalambet/jobseek/internal/profile"
	"github.com/kalambet/jobseek/internal/session"
	"github.com/kalambet/jobseek/internal/settings"
	"github.com/kalambet/jobseek/internal/theme"
)

// AppDeps are the shared session objects exposed over the local API.
type AppDeps struct {
	Session *session.Session
	Dialog  *settings.Dialog
	Theme   *theme.Store
}

// NewAppHandler returns the JSON API used by a browser front-end running on
// the same machine.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handleHealth)

	r.Get("/messages", handleListMessages(deps))
	r.Post("/messages", handlePostMessage(deps))

	r.Route("/profile", func(r chi.Router) {
		r.Get("/", handleGetProfile(deps))
		r.Patch("/", handlePatchProfile(deps))
		r.Post("/skills", handleAddSkill(deps))
		r.Delete("/skills/{skill}", handleRemoveSkill(deps))
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", handleSettingsState(deps))
		r.Post("/open", handleSettingsOpen(deps))
		r.Put("/draft", handleSettingsDraft(deps))
		r.Post("/test", handleSettingsTest(deps))
		r.Post("/close", handleSettingsClose(deps))
		r.Post("/reset", handleSettingsReset(deps))
	})

	r.Get("/appearance", handleGetAppearance(deps))
	r.Put("/appearance", handlePutAppearance(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// --- Messages ---

type messageList struct {
	Messages []chat.Message `json:"messages"`
	Loading  bool           `json:"loading"`
}

func handleListMessages(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, messageList{
			Messages: deps.Session.Conversation().Messages(),
			Loading:  deps.Session.Loading(),
		})
	}
}

type postMessageRequest struct {
	Content string `json:"content"`
}

func handlePostMessage(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postMessageRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "content is required")
			return
		}

		// An accepted query always completes, even if this client goes away.
		reply, _, err := deps.Session.Send(context.WithoutCancel(r.Context()), req.Content)
		if errors.Is(err, session.ErrBusy) {
			httpError(w, http.StatusConflict, "busy_error", "%v", err)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
			return
		}
		writeJSON(w, http.StatusOK, reply)
	}
}

// --- Profile ---

func handleGetProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Session.Profile().Snapshot())
	}
}

func handlePatchProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]string
		if !decodeBody(w, r, &fields) {
			return
		}
		if len(fields) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "no fields to update")
			return
		}
		mgr := deps.Session.Profile()
		if err := mgr.UpdateFields(fields); err != nil {
			if errors.Is(err, profile.ErrUnknownField) {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
			return
		}
		writeJSON(w, http.StatusOK, mgr.Snapshot())
	}
}

type skillRequest struct {
	Skill string `json:"skill"`
}

func handleAddSkill(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req skillRequest
		if !decodeBody(w, r, &req) {
			return
		}
		mgr := deps.Session.Profile()
		if _, err := mgr.AddSkill(req.Skill); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
			return
		}
		writeJSON(w, http.StatusOK, mgr.Snapshot())
	}
}

func handleRemoveSkill(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// chi routes on RawPath when it is set, leaving the param escaped.
		// Otherwise the param is already decoded.
		skill := chi.URLParam(r, "skill")
		if r.URL.RawPath != "" {
			unescaped, err := url.PathUnescape(skill)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid skill: %v", err)
				return
			}
			skill = unescaped
		}
		mgr := deps.Session.Profile()
		if _, err := mgr.RemoveSkill(skill); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
			return
		}
		writeJSON(w, http.StatusOK, mgr.Snapshot())
	}
}

// --- Settings ---

func handleSettingsState(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Dialog.State())
	}
}

func handleSettingsOpen(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Dialog.Open()
		writeJSON(w, http.StatusOK, deps.Dialog.State())
	}
}

type draftRequest struct {
	URL string `json:"url"`
}

func handleSettingsDraft(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req draftRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := deps.Dialog.SetDraft(req.URL); err != nil {
			dialogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deps.Dialog.State())
	}
}

func handleSettingsTest(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := deps.Dialog.Test(r.Context())
		if err != nil {
			dialogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func handleSettingsClose(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Dialog.Close(); err != nil {
			dialogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deps.Dialog.State())
	}
}

func handleSettingsReset(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Dialog.Reset(); err != nil {
			dialogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deps.Dialog.State())
	}
}

// dialogError maps settings dialog errors to responses: 409 when the dialog
// is not open, 422 for an invalid draft.
func dialogError(w http.ResponseWriter, err error) {
	var ve *settings.ValidationError
	switch {
	case errors.Is(err, settings.ErrNotOpen):
		httpError(w, http.StatusConflict, "conflict_error", "%v", err)
	case errors.As(err, &ve):
		httpError(w, http.StatusUnprocessableEntity, "validation_error", "%s", ve.Message)
	default:
		httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
	}
}

// --- Appearance ---

type appearanceResponse struct {
	Theme       string   `json:"theme"`
	Background  string   `json:"background"`
	Themes      []string `json:"themes"`
	Backgrounds []string `json:"backgrounds"`
}

func newAppearanceResponse(a theme.Appearance) appearanceResponse {
	return appearanceResponse{
		Theme:       a.Palette.Key,
		Background:  a.Background.Key,
		Themes:      theme.ThemeKeys(),
		Backgrounds: theme.BackgroundKeys(),
	}
}

func handleGetAppearance(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newAppearanceResponse(deps.Theme.Load()))
	}
}

type appearanceRequest struct {
	Theme      *string `json:"theme"`
	Background *string `json:"background"`
}

func handlePutAppearance(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req appearanceRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Theme != nil && !theme.IsTheme(*req.Theme) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown theme %q", *req.Theme)
			return
		}
		if req.Background != nil && !theme.IsBackground(*req.Background) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown background %q", *req.Background)
			return
		}

		if req.Theme != nil {
			if _, err := deps.Theme.SetTheme(*req.Theme); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
				return
			}
		}
		if req.Background != nil {
			if _, err := deps.Theme.SetBackground(*req.Background); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
				return
			}
		}
		writeJSON(w, http.StatusOK, newAppearanceResponse(deps.Theme.Load()))
	}
}
