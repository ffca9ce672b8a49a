package bulkedit

import (
	"context"
	"fmt"
	"time"

	"mediaportal/backend/internal/repository"
	"mediaportal/backend/pkg/models"
)

// noopLogger for tests
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

const testTenant = "tenant-1"

// fakeStore is an in-memory implementation of the schema, collection and
// metadata store interfaces, with per-asset failure injection and call
// recording for the executor tests.
type fakeStore struct {
	assets      map[string]*models.Asset
	schema      map[string][]models.Field // category id -> fields
	values      map[string]string         // asset|field -> current raw
	history     map[string][]models.FieldValue
	members     map[string][]string // asset id -> collection ids
	collections []models.Collection

	assetErr  map[string]error // GetAsset failures
	memberErr map[string]error // GetAssetCollections failures

	setCalls    []string // "asset|field|raw"
	addCalls    []string // "asset|collection"
	removeCalls []string // "asset|collection"
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assets:    make(map[string]*models.Asset),
		schema:    make(map[string][]models.Field),
		values:    make(map[string]string),
		history:   make(map[string][]models.FieldValue),
		members:   make(map[string][]string),
		assetErr:  make(map[string]error),
		memberErr: make(map[string]error),
	}
}

func (f *fakeStore) addAsset(id, categoryID, name string) {
	f.assets[id] = &models.Asset{ID: id, TenantID: testTenant, CategoryID: categoryID, Name: name}
}

func (f *fakeStore) setCurrent(assetID, fieldKey, raw string) {
	f.values[assetID+"|"+fieldKey] = raw
}

// MetadataStore

func (f *fakeStore) GetAsset(ctx context.Context, tenantID, assetID string) (*models.Asset, error) {
	if err := f.assetErr[assetID]; err != nil {
		return nil, err
	}
	a, ok := f.assets[assetID]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", assetID, repository.ErrNotFound)
	}
	return a, nil
}

func (f *fakeStore) GetValue(ctx context.Context, tenantID, assetID, fieldKey string) (string, bool, error) {
	raw, ok := f.values[assetID+"|"+fieldKey]
	if !ok || raw == "" {
		return "", false, nil
	}
	return raw, true, nil
}

func (f *fakeStore) SetValue(ctx context.Context, tenantID, assetID, fieldKey, raw string) error {
	key := assetID + "|" + fieldKey
	f.setCalls = append(f.setCalls, assetID+"|"+fieldKey+"|"+raw)
	if prior, ok := f.values[key]; ok {
		f.history[key] = append(f.history[key], models.FieldValue{
			AssetID: assetID, FieldKey: fieldKey, Raw: prior, Current: false, CreatedAt: time.Now(),
		})
	}
	f.values[key] = raw
	return nil
}

func (f *fakeStore) ValueHistory(ctx context.Context, tenantID, assetID, fieldKey string) ([]models.FieldValue, error) {
	key := assetID + "|" + fieldKey
	out := append([]models.FieldValue(nil), f.history[key]...)
	if raw, ok := f.values[key]; ok {
		out = append(out, models.FieldValue{AssetID: assetID, FieldKey: fieldKey, Raw: raw, Current: true})
	}
	return out, nil
}

// SchemaStore

func (f *fakeStore) GetAssetFields(ctx context.Context, tenantID, assetID string) ([]models.Field, error) {
	a, err := f.GetAsset(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	return f.schema[a.CategoryID], nil
}

func (f *fakeStore) GetMetadataSchema(ctx context.Context, tenantID, categoryID string) (*models.Schema, error) {
	schema := &models.Schema{CategoryID: categoryID}
	for _, field := range f.schema[categoryID] {
		if n := len(schema.Groups); n == 0 || schema.Groups[n-1].Name != field.Group {
			schema.Groups = append(schema.Groups, models.SchemaGroup{Name: field.Group})
		}
		g := &schema.Groups[len(schema.Groups)-1]
		g.Fields = append(g.Fields, field)
	}
	return schema, nil
}

// CollectionStore

func (f *fakeStore) ListCollections(ctx context.Context, tenantID string) ([]models.Collection, error) {
	return f.collections, nil
}

func (f *fakeStore) GetAssetCollections(ctx context.Context, tenantID, assetID string) ([]string, error) {
	if err := f.memberErr[assetID]; err != nil {
		return nil, err
	}
	return append([]string(nil), f.members[assetID]...), nil
}

func (f *fakeStore) AddAssetToCollection(ctx context.Context, tenantID, assetID, collectionID string) error {
	f.addCalls = append(f.addCalls, assetID+"|"+collectionID)
	f.members[assetID] = append(f.members[assetID], collectionID)
	return nil
}

func (f *fakeStore) RemoveAssetFromCollection(ctx context.Context, tenantID, assetID, collectionID string) error {
	f.removeCalls = append(f.removeCalls, assetID+"|"+collectionID)
	kept := f.members[assetID][:0]
	for _, id := range f.members[assetID] {
		if id != collectionID {
			kept = append(kept, id)
		}
	}
	f.members[assetID] = kept
	return nil
}

// newTestEngine builds an engine over the fake store with a fixed codec.
func newTestEngine(store *fakeStore) *Engine {
	codec := NewTokenCodec("test-signing-key", time.Hour)
	return NewEngine(store, store, store, codec, noopLogger{})
}

// photoSchema declares the category schema most tests share: text, rating,
// multiselect and a read-only automatic field, plus the collections sentinel
// in the organization group.
func photoSchema() []models.Field {
	return []models.Field{
		{Key: "title", Label: "Title", Type: models.FieldTypeText, Group: "general"},
		{Key: "rating", Label: "Rating", Type: models.FieldTypeRating, Group: "general"},
		{Key: "keywords", Label: "Keywords", Type: models.FieldTypeMultiSelect, Options: []string{"people", "product", "landscape", "studio", "event"}, Group: "general"},
		{Key: "file_size", Label: "File Size", Type: models.FieldTypeNumber, ReadOnly: true, Populate: models.PopulateAutomatic, Group: "system"},
		{Key: "collection", Label: "Collections", Type: models.FieldTypeMultiSelect, Group: "organization"},
	}
}
