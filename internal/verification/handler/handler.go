package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fieldgate/internal/transport/http/shared"
	"fieldgate/internal/verification/models"
	id "fieldgate/pkg/domain"
	dErrors "fieldgate/pkg/domain-errors"
	"fieldgate/pkg/requestcontext"
)

// Service defines the interface for verification operations.
type Service interface {
	VerifyProfile(ctx context.Context, userID id.UserID, profile []models.ProfileAttribute) ([]models.MatchResult, error)
	ReplaceCredentials(ctx context.Context, userID id.UserID, creds []models.Credential) error
}

// Handler exposes profile verification over HTTP.
type Handler struct {
	logger       *slog.Logger
	verification Service
}

// New creates a new verification Handler.
func New(verification Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, verification: verification}
}

// Register registers the verification routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/profile/verify", h.handleVerifyProfile)
	r.Put("/profile/credentials", h.handleReplaceCredentials)
}

type verifyRequest struct {
	Attributes []models.ProfileAttribute `json:"attributes"`
}

type verifyResponse struct {
	Results []models.MatchResult `json:"results"`
}

func (h *Handler) handleVerifyProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if len(req.Attributes) == 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "at least one attribute is required"))
		return
	}

	results, err := h.verification.VerifyProfile(ctx, userID, req.Attributes)
	if err != nil {
		h.logger.ErrorContext(ctx, "profile verification failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, verifyResponse{Results: results})
}

type replaceCredentialsRequest struct {
	Credentials []models.Credential `json:"credentials"`
}

func (h *Handler) handleReplaceCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req replaceCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.verification.ReplaceCredentials(ctx, userID, req.Credentials); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
