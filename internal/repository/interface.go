package repository

import (
	"context"
	"errors"

	"mediaportal/backend/pkg/models"
)

// ErrNotFound is returned when a requested record does not exist for the
// tenant. Callers distinguish it from infrastructure failures with errors.Is.
var ErrNotFound = errors.New("not found")

// TenantStore manages tenant records.
type TenantStore interface {
	// GetTenantByDomain looks a tenant up by its email domain.
	GetTenantByDomain(ctx context.Context, domain string) (*models.Tenant, error)
	// CreateTenant provisions a new tenant.
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
}

// SchemaStore supplies category metadata schemas.
type SchemaStore interface {
	// GetAssetFields returns the fields declared by the schema of the
	// asset's category, in declaration order.
	GetAssetFields(ctx context.Context, tenantID, assetID string) ([]models.Field, error)
	// GetMetadataSchema returns the grouped schema for a category.
	GetMetadataSchema(ctx context.Context, tenantID, categoryID string) (*models.Schema, error)
}

// CollectionStore manages collections and asset membership.
type CollectionStore interface {
	// ListCollections returns all collections for the tenant.
	ListCollections(ctx context.Context, tenantID string) ([]models.Collection, error)
	// GetAssetCollections returns the ids of collections the asset belongs to.
	GetAssetCollections(ctx context.Context, tenantID, assetID string) ([]string, error)
	// AddAssetToCollection adds the asset to the collection.
	AddAssetToCollection(ctx context.Context, tenantID, assetID, collectionID string) error
	// RemoveAssetFromCollection removes the asset from the collection.
	RemoveAssetFromCollection(ctx context.Context, tenantID, assetID, collectionID string) error
}

// MetadataStore reads and writes asset metadata values. Writes are
// append-only: setting a value supersedes the current row instead of
// deleting it, so prior values stay queryable.
type MetadataStore interface {
	// GetAsset fetches one asset.
	GetAsset(ctx context.Context, tenantID, assetID string) (*models.Asset, error)
	// GetValue returns the raw current value of a field on an asset.
	// found is false when the field has no current value.
	GetValue(ctx context.Context, tenantID, assetID, fieldKey string) (raw string, found bool, err error)
	// SetValue writes a new current value, superseding any prior one.
	// An empty raw clears the field while preserving history.
	SetValue(ctx context.Context, tenantID, assetID, fieldKey, raw string) error
	// ValueHistory returns all stored values for a field on an asset,
	// newest first, including superseded ones.
	ValueHistory(ctx context.Context, tenantID, assetID, fieldKey string) ([]models.FieldValue, error)
}
