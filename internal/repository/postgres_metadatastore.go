package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mediaportal/backend/pkg/models"
)

// PostgresMetadataStore is a PostgreSQL implementation of the MetadataStore interface.
type PostgresMetadataStore struct {
	db *pgxpool.Pool
}

// NewPostgresMetadataStore creates a new PostgresMetadataStore.
func NewPostgresMetadataStore(db *pgxpool.Pool) *PostgresMetadataStore {
	return &PostgresMetadataStore{db: db}
}

// GetAsset fetches one asset.
func (s *PostgresMetadataStore) GetAsset(ctx context.Context, tenantID, assetID string) (*models.Asset, error) {
	var a models.Asset
	err := s.db.QueryRow(ctx, `SELECT id, tenant_id, category_id, name, content_type, storage_key, created_at, updated_at
		FROM assets WHERE tenant_id = $1 AND id = $2`, tenantID, assetID).
		Scan(&a.ID, &a.TenantID, &a.CategoryID, &a.Name, &a.ContentType, &a.StorageKey, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetValue returns the raw current value of a field on an asset. A cleared
// field stores an empty row, which reads back as not found.
func (s *PostgresMetadataStore) GetValue(ctx context.Context, tenantID, assetID, fieldKey string) (string, bool, error) {
	var raw string
	err := s.db.QueryRow(ctx, `SELECT raw FROM field_values
		WHERE tenant_id = $1 AND asset_id = $2 AND field_key = $3 AND is_current`,
		tenantID, assetID, fieldKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if raw == "" {
		return "", false, nil
	}
	return raw, true, nil
}

// SetValue writes a new current value, superseding any prior one. Prior rows
// are kept so the value history remains queryable.
func (s *PostgresMetadataStore) SetValue(ctx context.Context, tenantID, assetID, fieldKey, raw string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE field_values SET is_current = false
		WHERE tenant_id = $1 AND asset_id = $2 AND field_key = $3 AND is_current`,
		tenantID, assetID, fieldKey); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO field_values (id, tenant_id, asset_id, field_key, raw, is_current, created_at)
		VALUES ($1, $2, $3, $4, $5, true, now())`,
		uuid.New().String(), tenantID, assetID, fieldKey, raw); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ValueHistory returns all stored values for a field on an asset, newest
// first, including superseded ones.
func (s *PostgresMetadataStore) ValueHistory(ctx context.Context, tenantID, assetID, fieldKey string) ([]models.FieldValue, error) {
	rows, err := s.db.Query(ctx, `SELECT id, asset_id, field_key, raw, is_current, created_at
		FROM field_values
		WHERE tenant_id = $1 AND asset_id = $2 AND field_key = $3
		ORDER BY created_at DESC`, tenantID, assetID, fieldKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.FieldValue
	for rows.Next() {
		var v models.FieldValue
		if err := rows.Scan(&v.ID, &v.AssetID, &v.FieldKey, &v.Raw, &v.Current, &v.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, v)
	}
	return history, rows.Err()
}
