package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PolicyStore = (*PolicyStore)(nil)

// PolicyStore implements driven.PolicyStore using PostgreSQL.
// Keywords are stored as a JSONB array so ordering is preserved.
type PolicyStore struct {
	db *DB
}

// NewPolicyStore creates a new PolicyStore
func NewPolicyStore(db *DB) *PolicyStore {
	return &PolicyStore{db: db}
}

// Save creates or updates a policy
func (s *PolicyStore) Save(ctx context.Context, policy *domain.Policy) error {
	keywordsJSON, err := json.Marshal(policy.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	query := `
		INSERT INTO policies (id, name, storage_ref, content, keywords, size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			storage_ref = EXCLUDED.storage_ref,
			content = EXCLUDED.content,
			keywords = EXCLUDED.keywords,
			size = EXCLUDED.size,
			uploaded_at = EXCLUDED.uploaded_at
	`

	_, err = s.db.ExecContext(ctx, query,
		policy.ID,
		policy.Name,
		policy.StorageRef,
		policy.Content,
		keywordsJSON,
		policy.Size,
		policy.UploadedAt,
	)
	return err
}

// Get retrieves a policy by ID
func (s *PolicyStore) Get(ctx context.Context, id string) (*domain.Policy, error) {
	query := `
		SELECT id, name, storage_ref, content, keywords, size, uploaded_at
		FROM policies
		WHERE id = $1
	`
	return scanPolicy(s.db.QueryRowContext(ctx, query, id))
}

// List retrieves all policies ordered by upload time
func (s *PolicyStore) List(ctx context.Context) ([]*domain.Policy, error) {
	query := `
		SELECT id, name, storage_ref, content, keywords, size, uploaded_at
		FROM policies
		ORDER BY uploaded_at, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []*domain.Policy
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, rows.Err()
}

// Delete removes a policy by ID
func (s *PolicyStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM policies WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the total number of policies
func (s *PolicyStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM policies`).Scan(&count)
	return count, err
}

// scanner covers both sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row scanner) (*domain.Policy, error) {
	var policy domain.Policy
	var keywordsJSON []byte

	err := row.Scan(
		&policy.ID,
		&policy.Name,
		&policy.StorageRef,
		&policy.Content,
		&keywordsJSON,
		&policy.Size,
		&policy.UploadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(keywordsJSON, &policy.Keywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
	}
	return &policy, nil
}
