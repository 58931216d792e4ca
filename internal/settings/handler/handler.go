package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fieldgate/internal/settings"
	"fieldgate/internal/transport/http/shared"
	dErrors "fieldgate/pkg/domain-errors"
	"fieldgate/pkg/requestcontext"
)

// Service defines the interface for admin settings operations.
type Service interface {
	Get(ctx context.Context, namespace, key string) (*settings.Setting, error)
	Put(ctx context.Context, namespace, key string, document []byte) (*settings.Setting, error)
	Delete(ctx context.Context, namespace, key string) error
	List(ctx context.Context, namespace string) ([]*settings.Setting, error)
}

// Handler exposes the admin settings surface.
type Handler struct {
	logger   *slog.Logger
	settings Service
}

// New creates a new settings Handler.
func New(settings Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, settings: settings}
}

// Register registers the settings routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/settings/{namespace}", h.handleList)
	r.Get("/admin/settings/{namespace}/{key}", h.handleGet)
	r.Put("/admin/settings/{namespace}/{key}", h.handlePut)
	r.Delete("/admin/settings/{namespace}/{key}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.settings.List(r.Context(), chi.URLParam(r, "namespace"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	setting, err := h.settings.Get(r.Context(), chi.URLParam(r, "namespace"), chi.URLParam(r, "key"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, setting)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	document, err := io.ReadAll(r.Body)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read request body"))
		return
	}
	setting, err := h.settings.Put(r.Context(), chi.URLParam(r, "namespace"), chi.URLParam(r, "key"), document)
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to store setting",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(r.Context()),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, setting)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Delete(r.Context(), chi.URLParam(r, "namespace"), chi.URLParam(r, "key")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
