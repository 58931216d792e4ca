package credential

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"fieldgate/internal/verification/models"
	id "fieldgate/pkg/domain"
)

// PostgresStore persists parsed user credentials in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE user_credentials (
//	    user_id    UUID NOT NULL,
//	    position   INT NOT NULL,
//	    vc_type    TEXT NOT NULL,
//	    doc_type   TEXT NOT NULL,
//	    doc_format TEXT NOT NULL,
//	    content    JSONB NOT NULL,
//	    PRIMARY KEY (user_id, position)
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed credential store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CredentialsForUser returns the user's credentials in sync order. A user with
// no synced credentials gets an empty set, not an error.
func (s *PostgresStore) CredentialsForUser(ctx context.Context, userID id.UserID) ([]models.Credential, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT vc_type, doc_type, doc_format, content
		FROM user_credentials WHERE user_id = $1 ORDER BY position`,
		uuid.UUID(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	creds := make([]models.Credential, 0)
	for rows.Next() {
		var (
			cred models.Credential
			raw  []byte
		)
		if err := rows.Scan(&cred.VCType, &cred.DocType, &cred.DocFormat, &raw); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		if err := json.Unmarshal(raw, &cred.Content); err != nil {
			return nil, fmt.Errorf("decode credential content: %w", err)
		}
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	return creds, nil
}

// ReplaceForUser overwrites the user's credential set in one transaction.
func (s *PostgresStore) ReplaceForUser(ctx context.Context, userID id.UserID, creds []models.Credential) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace credentials: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_credentials WHERE user_id = $1`, uuid.UUID(userID)); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	for position, cred := range creds {
		content, err := json.Marshal(cred.Content)
		if err != nil {
			return fmt.Errorf("encode credential content: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_credentials (user_id, position, vc_type, doc_type, doc_format, content)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.UUID(userID), position, cred.VCType, cred.DocType, cred.DocFormat, content,
		); err != nil {
			return fmt.Errorf("insert credential: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace credentials: %w", err)
	}
	return nil
}
