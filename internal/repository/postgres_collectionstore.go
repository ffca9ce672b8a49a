package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mediaportal/backend/pkg/models"
)

// PostgresCollectionStore is a PostgreSQL implementation of the CollectionStore interface.
type PostgresCollectionStore struct {
	db *pgxpool.Pool
}

// NewPostgresCollectionStore creates a new PostgresCollectionStore.
func NewPostgresCollectionStore(db *pgxpool.Pool) *PostgresCollectionStore {
	return &PostgresCollectionStore{db: db}
}

// ListCollections returns all collections for the tenant.
func (s *PostgresCollectionStore) ListCollections(ctx context.Context, tenantID string) ([]models.Collection, error) {
	rows, err := s.db.Query(ctx, "SELECT id, tenant_id, name, created_at FROM collections WHERE tenant_id = $1 ORDER BY name", tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// GetAssetCollections returns the ids of collections the asset belongs to.
func (s *PostgresCollectionStore) GetAssetCollections(ctx context.Context, tenantID, assetID string) ([]string, error) {
	rows, err := s.db.Query(ctx, "SELECT collection_id FROM collection_assets WHERE tenant_id = $1 AND asset_id = $2", tenantID, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddAssetToCollection adds the asset to the collection. Adding an existing
// member is a no-op.
func (s *PostgresCollectionStore) AddAssetToCollection(ctx context.Context, tenantID, assetID, collectionID string) error {
	_, err := s.db.Exec(ctx, `INSERT INTO collection_assets (tenant_id, collection_id, asset_id) VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, collection_id, asset_id) DO NOTHING`, tenantID, collectionID, assetID)
	return err
}

// RemoveAssetFromCollection removes the asset from the collection.
func (s *PostgresCollectionStore) RemoveAssetFromCollection(ctx context.Context, tenantID, assetID, collectionID string) error {
	_, err := s.db.Exec(ctx, "DELETE FROM collection_assets WHERE tenant_id = $1 AND collection_id = $2 AND asset_id = $3",
		tenantID, collectionID, assetID)
	return err
}
