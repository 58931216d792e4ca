package value

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"fieldgate/internal/fields/models"
	id "fieldgate/pkg/domain"
	"fieldgate/pkg/platform/sentinel"
)

// PostgresStore persists field values in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE field_values (
//	    field_id   UUID NOT NULL,
//	    item_id    UUID NOT NULL,
//	    value      TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (field_id, item_id)
//	);
//	CREATE INDEX idx_field_values_item ON field_values (item_id);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed value store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, value *models.FieldValue) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO field_values (field_id, item_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (field_id, item_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		uuid.UUID(value.FieldID), uuid.UUID(value.ItemID), value.Value,
		value.CreatedAt, value.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert field value: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, fieldID id.FieldID, itemID id.ItemID) (*models.FieldValue, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT field_id, item_id, value, created_at, updated_at
		FROM field_values WHERE field_id = $1 AND item_id = $2`,
		uuid.UUID(fieldID), uuid.UUID(itemID),
	)
	value, err := scanValue(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("field value not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find field value: %w", err)
	}
	return value, nil
}

func (s *PostgresStore) ListByItem(ctx context.Context, itemID id.ItemID) ([]*models.FieldValue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT field_id, item_id, value, created_at, updated_at
		FROM field_values WHERE item_id = $1 ORDER BY field_id`,
		uuid.UUID(itemID),
	)
	if err != nil {
		return nil, fmt.Errorf("list field values: %w", err)
	}
	defer rows.Close()

	var values []*models.FieldValue
	for rows.Next() {
		value, err := scanValue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan field value: %w", err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list field values: %w", err)
	}
	return values, nil
}

func (s *PostgresStore) Delete(ctx context.Context, fieldID id.FieldID, itemID id.ItemID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM field_values WHERE field_id = $1 AND item_id = $2`,
		uuid.UUID(fieldID), uuid.UUID(itemID),
	)
	if err != nil {
		return fmt.Errorf("delete field value: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("field value not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteByItem(ctx context.Context, itemID id.ItemID) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM field_values WHERE item_id = $1`, uuid.UUID(itemID))
	if err != nil {
		return 0, fmt.Errorf("delete item field values: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

func (s *PostgresStore) ItemIDsByValue(ctx context.Context, fieldID id.FieldID, expected string) ([]id.ItemID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT item_id FROM field_values
		WHERE field_id = $1 AND value = $2 ORDER BY item_id`,
		uuid.UUID(fieldID), expected,
	)
	if err != nil {
		return nil, fmt.Errorf("find items by value: %w", err)
	}
	defer rows.Close()

	var items []id.ItemID
	for rows.Next() {
		var raw uuid.UUID
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		items = append(items, id.ItemID(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find items by value: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanValue(row rowScanner) (*models.FieldValue, error) {
	var (
		value   models.FieldValue
		fieldID uuid.UUID
		itemID  uuid.UUID
	)
	if err := row.Scan(&fieldID, &itemID, &value.Value, &value.CreatedAt, &value.UpdatedAt); err != nil {
		return nil, err
	}
	value.FieldID = id.FieldID(fieldID)
	value.ItemID = id.ItemID(itemID)
	return &value, nil
}
