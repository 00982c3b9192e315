package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"domainnav/internal/domain/models"
	"domainnav/internal/domain/service"
	"domainnav/internal/platform/middleware"
	id "domainnav/pkg/domain"
	dErrors "domainnav/pkg/domain-errors"
	"domainnav/pkg/platform/httputil"
	"domainnav/pkg/requestcontext"
)

// Service defines the domain operations the HTTP surface needs.
type Service interface {
	Create(ctx context.Context, req models.CreateRequest) (*models.Domain, error)
	Update(ctx context.Context, domainID id.DomainID, req models.UpdateRequest) (*models.Domain, error)
	Delete(ctx context.Context, domainID id.DomainID) error
	Get(ctx context.Context, domainID id.DomainID) (*models.Domain, error)
	List(ctx context.Context) ([]*models.Domain, error)
	Subscribe(ctx context.Context) (<-chan service.ListUpdate, error)
}

// Handler serves the domain store over JSON.
type Handler struct {
	domains Service
	logger  *slog.Logger
}

func New(domains Service, logger *slog.Logger) *Handler {
	return &Handler{domains: domains, logger: logger}
}

type listResponse struct {
	Domains []*models.Domain `json:"domains"`
}

// Register mounts the /domains routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/domains", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/stream", h.handleStream)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domains, err := h.domains.List(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to list domains", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Domains: nonNil(domains)})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "invalid create domain request", err)
		return
	}
	d, err := h.domains.Create(ctx, req)
	if err != nil {
		h.fail(ctx, w, "failed to create domain", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domainID, err := id.ParseDomainID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "invalid domain id", err)
		return
	}
	d, err := h.domains.Get(ctx, domainID)
	if err != nil {
		h.fail(ctx, w, "failed to get domain", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domainID, err := id.ParseDomainID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "invalid domain id", err)
		return
	}
	var req models.UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "invalid update domain request", err)
		return
	}
	d, err := h.domains.Update(ctx, domainID, req)
	if err != nil {
		h.fail(ctx, w, "failed to update domain", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domainID, err := id.ParseDomainID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "invalid domain id", err)
		return
	}
	if err := h.domains.Delete(ctx, domainID); err != nil {
		h.fail(ctx, w, "failed to delete domain", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStream pushes the full list as Server-Sent Events until the client
// goes away. A failed refresh is sent as an "error" event and the stream
// stays open.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "streaming unsupported"))
		return
	}
	updates, err := h.domains.Subscribe(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to subscribe to domains", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := writeEvent(w, update); err != nil {
				h.logger.WarnContext(ctx, "domain stream write failed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, update service.ListUpdate) error {
	if update.Err != nil {
		body, _ := json.Marshal(map[string]string{"error": string(dErrors.CodeOf(update.Err))})
		_, err := fmt.Fprintf(w, "event: error\ndata: %s\n\n", body)
		return err
	}
	body, err := json.Marshal(listResponse{Domains: nonNil(update.Domains)})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", body)
	return err
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	args := []any{"request_id", requestcontext.RequestID(ctx), "error", err.Error()}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	httputil.WriteError(w, err)
}

func nonNil(domains []*models.Domain) []*models.Domain {
	if domains == nil {
		return []*models.Domain{}
	}
	return domains
}
