package bulkedit

import (
	"context"

	"mediaportal/backend/internal/repository"
	"mediaportal/backend/pkg/models"
)

// ResolvedFields is the set of fields eligible for bulk mutation, resolved
// against one reference asset.
type ResolvedFields struct {
	Fields             []FieldSelector `json:"fields"`
	CollectionsVisible bool            `json:"collections_visible"`
}

// FieldResolver resolves the editable fields for a workflow from one
// representative target asset.
type FieldResolver struct {
	schema repository.SchemaStore
	meta   repository.MetadataStore
	logger Logger
}

// NewFieldResolver creates a new FieldResolver.
func NewFieldResolver(schema repository.SchemaStore, meta repository.MetadataStore, logger Logger) *FieldResolver {
	return &FieldResolver{schema: schema, meta: meta, logger: logger}
}

// Resolve returns the bulk-editable fields of the reference asset's category
// plus whether the collections pseudo-field should be offered. Read-only and
// automatically populated fields are excluded. Resolution is fail-safe: any
// load failure yields an empty field set so the workflow can report "no
// editable fields" instead of erroring the session.
func (r *FieldResolver) Resolve(ctx context.Context, tenantID, refAssetID string) ResolvedFields {
	asset, err := r.meta.GetAsset(ctx, tenantID, refAssetID)
	if err != nil {
		r.logger.Error("field resolution: load reference asset", "asset_id", refAssetID, "error", err)
		return ResolvedFields{}
	}

	fields, err := r.schema.GetAssetFields(ctx, tenantID, refAssetID)
	if err != nil {
		r.logger.Error("field resolution: load schema fields", "asset_id", refAssetID, "error", err)
		return ResolvedFields{}
	}

	resolved := ResolvedFields{}
	for _, f := range fields {
		if f.ReadOnly || f.Populate == models.PopulateAutomatic || f.Key == CollectionsFieldKey {
			continue
		}
		sel := FieldSelector{
			Key:     f.Key,
			Label:   f.Label,
			Type:    f.Type,
			Options: f.Options,
			Current: emptyFor(f.Type),
		}
		if raw, found, err := r.meta.GetValue(ctx, tenantID, refAssetID, f.Key); err == nil && found {
			if cur, err := decodeStored(f.Type, raw); err == nil {
				sel.Current = cur
			}
		}
		resolved.Fields = append(resolved.Fields, sel)
	}

	resolved.CollectionsVisible = r.collectionsVisible(ctx, tenantID, asset.CategoryID)
	return resolved
}

// collectionsVisible checks whether the category schema exposes a field with
// the collections sentinel key in any of its groups.
func (r *FieldResolver) collectionsVisible(ctx context.Context, tenantID, categoryID string) bool {
	schema, err := r.schema.GetMetadataSchema(ctx, tenantID, categoryID)
	if err != nil {
		r.logger.Error("field resolution: load category schema", "category_id", categoryID, "error", err)
		return false
	}
	for _, g := range schema.Groups {
		for _, f := range g.Fields {
			if f.Key == CollectionsFieldKey {
				return true
			}
		}
	}
	return false
}
