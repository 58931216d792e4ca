package definition

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"fieldgate/internal/fields/models"
	id "fieldgate/pkg/domain"
	"fieldgate/pkg/platform/sentinel"
)

// PostgresStore persists field definitions in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE field_definitions (
//	    id               UUID PRIMARY KEY,
//	    name             TEXT NOT NULL,
//	    label            TEXT NOT NULL,
//	    field_type       TEXT NOT NULL,
//	    context          TEXT NOT NULL,
//	    context_type     TEXT NOT NULL DEFAULT '',
//	    field_params     JSONB NOT NULL DEFAULT '{}',
//	    field_attributes JSONB,
//	    source_details   JSONB,
//	    depends_on       JSONB,
//	    ordering         INT NOT NULL DEFAULT 0,
//	    is_required      BOOLEAN NOT NULL DEFAULT FALSE,
//	    is_hidden        BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at       TIMESTAMPTZ NOT NULL,
//	    updated_at       TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed definition store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const definitionColumns = `id, name, label, field_type, context, context_type,
	field_params, field_attributes, source_details, depends_on,
	ordering, is_required, is_hidden, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, def *models.FieldDefinition) error {
	params, err := json.Marshal(def.FieldParams)
	if err != nil {
		return fmt.Errorf("marshal field params: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO field_definitions (`+definitionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		uuid.UUID(def.ID), def.Name, def.Label, string(def.Type), string(def.Context),
		def.ContextType, params, nullRaw(def.FieldAttributes), nullRaw(def.SourceDetails),
		nullRaw(def.DependsOn), def.Ordering, def.IsRequired, def.IsHidden,
		def.CreatedAt, def.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("field definition %s: %w", def.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create field definition: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, fieldID id.FieldID) (*models.FieldDefinition, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+definitionColumns+` FROM field_definitions WHERE id = $1`,
		uuid.UUID(fieldID),
	)
	def, err := scanDefinition(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("field definition not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find field definition: %w", err)
	}
	return def, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.FieldDefinition, error) {
	query := `SELECT ` + definitionColumns + ` FROM field_definitions WHERE TRUE`
	var args []any
	appendArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(" AND %s = $%d", clause, len(args))
	}
	if filter.Context != "" {
		appendArg("context", string(filter.Context))
	}
	if filter.ContextType != "" {
		appendArg("context_type", filter.ContextType)
	}
	if filter.Type != "" {
		appendArg("field_type", string(filter.Type))
	}
	if filter.IsRequired != nil {
		appendArg("is_required", *filter.IsRequired)
	}
	if filter.IsHidden != nil {
		appendArg("is_hidden", *filter.IsHidden)
	}
	query += " ORDER BY ordering ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list field definitions: %w", err)
	}
	defer rows.Close()

	var defs []*models.FieldDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan field definition: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list field definitions: %w", err)
	}
	return defs, nil
}

func (s *PostgresStore) Update(ctx context.Context, def *models.FieldDefinition) error {
	params, err := json.Marshal(def.FieldParams)
	if err != nil {
		return fmt.Errorf("marshal field params: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE field_definitions
		SET name = $2, label = $3, context_type = $4, field_params = $5,
		    field_attributes = $6, source_details = $7, depends_on = $8,
		    ordering = $9, is_required = $10, is_hidden = $11, updated_at = $12
		WHERE id = $1`,
		uuid.UUID(def.ID), def.Name, def.Label, def.ContextType, params,
		nullRaw(def.FieldAttributes), nullRaw(def.SourceDetails), nullRaw(def.DependsOn),
		def.Ordering, def.IsRequired, def.IsHidden, def.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update field definition: %w", err)
	}
	return requireRow(result, "field definition")
}

func (s *PostgresStore) Delete(ctx context.Context, fieldID id.FieldID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM field_definitions WHERE id = $1`, uuid.UUID(fieldID))
	if err != nil {
		return fmt.Errorf("delete field definition: %w", err)
	}
	return requireRow(result, "field definition")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row rowScanner) (*models.FieldDefinition, error) {
	var (
		def        models.FieldDefinition
		rawID      uuid.UUID
		fieldType  string
		context    string
		params     []byte
		attributes sql.Null[[]byte]
		source     sql.Null[[]byte]
		dependsOn  sql.Null[[]byte]
	)
	err := row.Scan(&rawID, &def.Name, &def.Label, &fieldType, &context,
		&def.ContextType, &params, &attributes, &source, &dependsOn,
		&def.Ordering, &def.IsRequired, &def.IsHidden, &def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		return nil, err
	}
	def.ID = id.FieldID(rawID)
	def.Type = models.FieldType(fieldType)
	def.Context = models.FieldContext(context)
	if err := json.Unmarshal(params, &def.FieldParams); err != nil {
		return nil, fmt.Errorf("unmarshal field params: %w", err)
	}
	if attributes.Valid {
		def.FieldAttributes = attributes.V
	}
	if source.Valid {
		def.SourceDetails = source.V
	}
	if dependsOn.Valid {
		def.DependsOn = dependsOn.V
	}
	return &def, nil
}

func nullRaw(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func requireRow(result sql.Result, entity string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s not found: %w", entity, sentinel.ErrNotFound)
	}
	return nil
}
