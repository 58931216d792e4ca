package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"fieldgate/internal/fields/models"
	"fieldgate/internal/fields/service"
	"fieldgate/internal/fields/store/definition"
	"fieldgate/internal/fields/store/value"
	id "fieldgate/pkg/domain"
)

type FieldsHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func (s *FieldsHandlerSuite) SetupTest() {
	svc := service.New(definition.NewInMemory(), value.NewInMemory())
	handler := New(svc, slog.New(slog.DiscardHandler))

	s.router = chi.NewRouter()
	handler.Register(s.router)
}

func TestFieldsHandlerSuite(t *testing.T) {
	suite.Run(t, new(FieldsHandlerSuite))
}

func (s *FieldsHandlerSuite) do(method, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func (s *FieldsHandlerSuite) createField(name string, fieldType models.FieldType) models.FieldDefinition {
	status, body := s.do(http.MethodPost, "/fields", map[string]any{
		"name":    name,
		"type":    fieldType,
		"context": "USERS",
	})
	s.Require().Equal(http.StatusCreated, status, string(body))

	var def models.FieldDefinition
	s.Require().NoError(json.Unmarshal(body, &def))
	return def
}

func (s *FieldsHandlerSuite) TestFieldLifecycle() {
	s.Run("create returns the definition", func() {
		def := s.createField("income_band", models.TypeText)
		s.Equal("income_band", def.Name)
		s.Equal("income_band", def.Label)
	})

	s.Run("invalid type is a 409", func() {
		status, _ := s.do(http.MethodPost, "/fields", map[string]any{
			"name":    "bad",
			"type":    "geojson",
			"context": "USERS",
		})
		s.Equal(http.StatusConflict, status)
	})

	s.Run("get, patch, delete round-trip", func() {
		def := s.createField("nickname", models.TypeText)

		status, _ := s.do(http.MethodGet, "/fields/"+def.ID.String(), nil)
		s.Equal(http.StatusOK, status)

		status, body := s.do(http.MethodPatch, "/fields/"+def.ID.String(), map[string]any{
			"label": "Preferred Name",
		})
		s.Require().Equal(http.StatusOK, status)
		var patched models.FieldDefinition
		s.Require().NoError(json.Unmarshal(body, &patched))
		s.Equal("Preferred Name", patched.Label)

		status, _ = s.do(http.MethodDelete, "/fields/"+def.ID.String(), nil)
		s.Equal(http.StatusNoContent, status)

		status, _ = s.do(http.MethodGet, "/fields/"+def.ID.String(), nil)
		s.Equal(http.StatusNotFound, status)
	})

	s.Run("malformed field id is a 400", func() {
		status, _ := s.do(http.MethodGet, "/fields/not-a-uuid", nil)
		s.Equal(http.StatusBadRequest, status)
	})
}

func (s *FieldsHandlerSuite) TestValueRoutes() {
	numberField := s.createField("age", models.TypeNumeric)
	itemID := id.NewItemID()

	s.Run("upsert then read the joined view", func() {
		status, _ := s.do(http.MethodPut, "/items/"+itemID.String()+"/fields", map[string]any{
			"values": []map[string]string{{"field_id": numberField.ID.String(), "value": "42"}},
		})
		s.Require().Equal(http.StatusNoContent, status)

		status, body := s.do(http.MethodGet, "/items/"+itemID.String()+"/fields?context=USERS", nil)
		s.Require().Equal(http.StatusOK, status)
		var views []models.ItemFieldView
		s.Require().NoError(json.Unmarshal(body, &views))
		s.Require().Len(views, 1)
		s.Require().NotNil(views[0].Value)
		s.Equal("42", *views[0].Value)
	})

	s.Run("validation failure is a 400 naming the field", func() {
		status, body := s.do(http.MethodPut, "/items/"+itemID.String()+"/fields", map[string]any{
			"values": []map[string]string{{"field_id": numberField.ID.String(), "value": "abc"}},
		})
		s.Equal(http.StatusBadRequest, status)
		s.Contains(string(body), "age")
	})

	s.Run("delete value then purge item", func() {
		status, _ := s.do(http.MethodDelete, "/items/"+itemID.String()+"/fields/"+numberField.ID.String(), nil)
		s.Equal(http.StatusNoContent, status)

		status, _ = s.do(http.MethodDelete, "/items/"+itemID.String()+"/fields/"+numberField.ID.String(), nil)
		s.Equal(http.StatusNotFound, status)

		status, _ = s.do(http.MethodDelete, "/items/"+itemID.String()+"/fields", nil)
		s.Equal(http.StatusNoContent, status)
	})
}

func (s *FieldsHandlerSuite) TestSearch() {
	cityField := s.createField("city", models.TypeText)
	itemID := id.NewItemID()

	status, _ := s.do(http.MethodPut, "/items/"+itemID.String()+"/fields", map[string]any{
		"values": []map[string]string{{"field_id": cityField.ID.String(), "value": "Pune"}},
	})
	s.Require().Equal(http.StatusNoContent, status)

	s.Run("finds matching items", func() {
		status, body := s.do(http.MethodPost, "/fields/search", map[string]any{
			"context": "USERS",
			"filters": map[string]string{"city": "Pune"},
		})
		s.Require().Equal(http.StatusOK, status)

		var resp struct {
			ItemIDs []string `json:"item_ids"`
		}
		s.Require().NoError(json.Unmarshal(body, &resp))
		s.Equal([]string{itemID.String()}, resp.ItemIDs)
	})

	s.Run("unknown context is a 400", func() {
		status, _ := s.do(http.MethodPost, "/fields/search", map[string]any{
			"context": "TEAMS",
			"filters": map[string]string{},
		})
		s.Equal(http.StatusBadRequest, status)
	})
}
