package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fieldgate/internal/fields/models"
	"fieldgate/internal/fields/service"
	"fieldgate/internal/transport/http/shared"
	id "fieldgate/pkg/domain"
	dErrors "fieldgate/pkg/domain-errors"
	"fieldgate/pkg/requestcontext"
)

// Service defines the interface for custom fields operations.
type Service interface {
	CreateField(ctx context.Context, req service.CreateFieldRequest) (*models.FieldDefinition, error)
	ListFields(ctx context.Context, filter models.ListFilter) ([]*models.FieldDefinition, error)
	GetField(ctx context.Context, fieldID id.FieldID) (*models.FieldDefinition, error)
	UpdateField(ctx context.Context, fieldID id.FieldID, patch models.FieldPatch) (*models.FieldDefinition, error)
	DeleteField(ctx context.Context, fieldID id.FieldID) error
	UpsertValues(ctx context.Context, itemID id.ItemID, inputs []models.ValueInput) error
	GetValuesForItem(ctx context.Context, itemID id.ItemID) ([]models.ItemFieldView, error)
	GetItemWithFields(ctx context.Context, itemID id.ItemID, fieldContext models.FieldContext) ([]models.ItemFieldView, error)
	DeleteValue(ctx context.Context, fieldID id.FieldID, itemID id.ItemID) error
	DeleteAllValuesForItem(ctx context.Context, itemID id.ItemID) error
	SearchByFields(ctx context.Context, fieldContext models.FieldContext, filters map[string]string) ([]id.ItemID, error)
}

// Handler exposes the custom fields engine over HTTP.
type Handler struct {
	logger *slog.Logger
	fields Service
}

// New creates a new fields Handler.
func New(fields Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, fields: fields}
}

// Register registers the fields routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/fields", h.handleCreateField)
	r.Get("/fields", h.handleListFields)
	r.Post("/fields/search", h.handleSearch)
	r.Get("/fields/{fieldID}", h.handleGetField)
	r.Patch("/fields/{fieldID}", h.handleUpdateField)
	r.Delete("/fields/{fieldID}", h.handleDeleteField)

	r.Put("/items/{itemID}/fields", h.handleUpsertValues)
	r.Get("/items/{itemID}/fields", h.handleGetItemWithFields)
	r.Get("/items/{itemID}/values", h.handleGetValuesForItem)
	r.Delete("/items/{itemID}/fields/{fieldID}", h.handleDeleteValue)
	r.Delete("/items/{itemID}/fields", h.handleDeleteAllValues)
}

type createFieldRequest struct {
	Name            string              `json:"name"`
	Label           string              `json:"label"`
	Type            models.FieldType    `json:"type"`
	Context         models.FieldContext `json:"context"`
	ContextType     string              `json:"context_type"`
	FieldParams     models.FieldParams  `json:"field_params"`
	FieldAttributes json.RawMessage     `json:"field_attributes"`
	SourceDetails   json.RawMessage     `json:"source_details"`
	DependsOn       json.RawMessage     `json:"depends_on"`
	Ordering        int                 `json:"ordering"`
	IsRequired      bool                `json:"is_required"`
	IsHidden        bool                `json:"is_hidden"`
}

func (h *Handler) handleCreateField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	def, err := h.fields.CreateField(ctx, service.CreateFieldRequest{
		Name:            req.Name,
		Label:           req.Label,
		Type:            req.Type,
		Context:         req.Context,
		ContextType:     req.ContextType,
		FieldParams:     req.FieldParams,
		FieldAttributes: req.FieldAttributes,
		SourceDetails:   req.SourceDetails,
		DependsOn:       req.DependsOn,
		Ordering:        req.Ordering,
		IsRequired:      req.IsRequired,
		IsHidden:        req.IsHidden,
	})
	if err != nil {
		h.logWarn(r, "failed to create field", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, def)
}

func (h *Handler) handleListFields(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.ListFilter{
		Context:     models.FieldContext(query.Get("context")),
		ContextType: query.Get("context_type"),
		Type:        models.FieldType(query.Get("type")),
	}
	if raw := query.Get("is_required"); raw != "" {
		required := raw == "true"
		filter.IsRequired = &required
	}
	if raw := query.Get("is_hidden"); raw != "" {
		hidden := raw == "true"
		filter.IsHidden = &hidden
	}

	defs, err := h.fields.ListFields(r.Context(), filter)
	if err != nil {
		h.logWarn(r, "failed to list fields", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, defs)
}

func (h *Handler) handleGetField(w http.ResponseWriter, r *http.Request) {
	fieldID, err := id.ParseFieldID(chi.URLParam(r, "fieldID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	def, err := h.fields.GetField(r.Context(), fieldID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, def)
}

func (h *Handler) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	fieldID, err := id.ParseFieldID(chi.URLParam(r, "fieldID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var patch models.FieldPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	def, err := h.fields.UpdateField(r.Context(), fieldID, patch)
	if err != nil {
		h.logWarn(r, "failed to update field", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, def)
}

func (h *Handler) handleDeleteField(w http.ResponseWriter, r *http.Request) {
	fieldID, err := id.ParseFieldID(chi.URLParam(r, "fieldID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.fields.DeleteField(r.Context(), fieldID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type upsertValuesRequest struct {
	Values []struct {
		FieldID string `json:"field_id"`
		Value   string `json:"value"`
	} `json:"values"`
}

func (h *Handler) handleUpsertValues(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req upsertValuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	inputs := make([]models.ValueInput, 0, len(req.Values))
	for _, pair := range req.Values {
		fieldID, err := id.ParseFieldID(pair.FieldID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		inputs = append(inputs, models.ValueInput{FieldID: fieldID, Value: pair.Value})
	}

	if err := h.fields.UpsertValues(r.Context(), itemID, inputs); err != nil {
		h.logWarn(r, "failed to upsert values", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetItemWithFields(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	fieldContext := models.FieldContext(r.URL.Query().Get("context"))
	views, err := h.fields.GetItemWithFields(r.Context(), itemID, fieldContext)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) handleGetValuesForItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	views, err := h.fields.GetValuesForItem(r.Context(), itemID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) handleDeleteValue(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	fieldID, err := id.ParseFieldID(chi.URLParam(r, "fieldID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.fields.DeleteValue(r.Context(), fieldID, itemID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteAllValues(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.fields.DeleteAllValuesForItem(r.Context(), itemID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type searchRequest struct {
	Context models.FieldContext `json:"context"`
	Filters map[string]string   `json:"filters"`
}

type searchResponse struct {
	ItemIDs []string `json:"item_ids"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	items, err := h.fields.SearchByFields(r.Context(), req.Context, req.Filters)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := searchResponse{ItemIDs: make([]string, 0, len(items))}
	for _, item := range items {
		out.ItemIDs = append(out.ItemIDs, item.String())
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) logWarn(r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(r.Context()),
	)
}
