package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"domainnav/internal/manager"
	"domainnav/internal/platform/middleware"
	id "domainnav/pkg/domain"
	dErrors "domainnav/pkg/domain-errors"
	"domainnav/pkg/platform/httputil"
	"domainnav/pkg/requestcontext"
)

// Handler exposes one manager view as JSON.
type Handler struct {
	view   *manager.Controller
	logger *slog.Logger
}

func New(view *manager.Controller, logger *slog.Logger) *Handler {
	return &Handler{view: view, logger: logger}
}

type viewResponse struct {
	State       manager.State        `json:"state"`
	Page        manager.Page         `json:"page"`
	DomainTypes []manager.TypeOption `json:"domain_types"`
}

type draftRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type particleRequest struct {
	Particle string `json:"particle"`
	Value    string `json:"value"`
}

type notificationsResponse struct {
	Notifications []manager.Notification `json:"notifications"`
}

// Register mounts the /view routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/view", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/", h.handleView)
		r.Put("/draft", h.handleSetDraft)
		r.Post("/domains", h.handleCreate)
		r.Post("/domains/{id}/edit", h.handleBeginEdit)
		r.Delete("/domains/{id}", h.handleDelete)
		r.Post("/perspectives", h.handleAddPerspective)
		r.Put("/perspectives/selected", h.handleSelectPerspective)
		r.Delete("/perspectives/{name}", h.handleRemovePerspective)
		r.Put("/edit/particles", h.handleSetParticle)
		r.Post("/edit/save", h.handleSaveEdit)
		r.Post("/edit/dismiss", h.handleDismissEdit)
		r.Get("/notifications", h.handleNotifications)
	})
}

func (h *Handler) handleView(w http.ResponseWriter, _ *http.Request) {
	h.writeView(w, http.StatusOK)
}

func (h *Handler) handleSetDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.view.SetNewDomainDraft(req.Name, req.Type)
	h.writeView(w, http.StatusOK)
}

// handleCreate returns 202 even when the draft is incomplete: the view
// ignores such a create silently and the response shows the unchanged state.
func (h *Handler) handleCreate(w http.ResponseWriter, _ *http.Request) {
	h.view.CreateDomain()
	h.writeView(w, http.StatusAccepted)
}

func (h *Handler) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	domainID, ok := h.domainID(w, r)
	if !ok {
		return
	}
	if err := h.view.BeginEdit(domainID); err != nil {
		h.fail(w, r, "cannot edit domain", err)
		return
	}
	h.writeView(w, http.StatusOK)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	domainID, ok := h.domainID(w, r)
	if !ok {
		return
	}
	h.view.DeleteDomain(domainID)
	h.writeView(w, http.StatusAccepted)
}

func (h *Handler) handleAddPerspective(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.view.AddPerspective(req.Name)
	h.writeView(w, http.StatusOK)
}

func (h *Handler) handleSelectPerspective(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.view.SelectPerspective(req.Name)
	h.writeView(w, http.StatusOK)
}

func (h *Handler) handleRemovePerspective(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// chi matches on RawPath when the path holds escapes such as %2F.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			h.fail(w, r, "invalid perspective name", dErrors.New(dErrors.CodeBadRequest, "invalid perspective name"))
			return
		}
		name = unescaped
	}
	h.view.RemovePerspective(name)
	h.writeView(w, http.StatusOK)
}

func (h *Handler) handleSetParticle(w http.ResponseWriter, r *http.Request) {
	var req particleRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.view.SetEditingDraftField(req.Particle, req.Value)
	h.writeView(w, http.StatusOK)
}

func (h *Handler) handleSaveEdit(w http.ResponseWriter, _ *http.Request) {
	h.view.SaveEdit()
	h.writeView(w, http.StatusAccepted)
}

func (h *Handler) handleDismissEdit(w http.ResponseWriter, _ *http.Request) {
	h.view.DismissEdit()
	h.writeView(w, http.StatusOK)
}

func (h *Handler) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, notificationsResponse{Notifications: h.view.Notifications()})
}

func (h *Handler) writeView(w http.ResponseWriter, status int) {
	state, page := h.view.View()
	httputil.WriteJSON(w, status, viewResponse{
		State:       state,
		Page:        page,
		DomainTypes: manager.TypeCatalogue(),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		h.fail(w, r, "invalid view request", err)
		return false
	}
	return true
}

func (h *Handler) domainID(w http.ResponseWriter, r *http.Request) (id.DomainID, bool) {
	domainID, err := id.ParseDomainID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "invalid domain id", err)
		return id.DomainID{}, false
	}
	return domainID, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		"request_id", requestcontext.RequestID(r.Context()),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
