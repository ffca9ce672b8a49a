package bulkedit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediaportal/backend/pkg/models"
)

func TestFieldResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("excludes read-only, automatic and the collections sentinel", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.addAsset("a-1", "photos", "IMG_2041")

		resolved := NewFieldResolver(store, store, noopLogger{}).Resolve(ctx, testTenant, "a-1")

		keys := make([]string, 0, len(resolved.Fields))
		for _, f := range resolved.Fields {
			keys = append(keys, f.Key)
		}
		assert.Equal(t, []string{"title", "rating", "keywords"}, keys)
		assert.True(t, resolved.CollectionsVisible)
	})

	t.Run("collections hidden when the category schema omits the sentinel", func(t *testing.T) {
		store := newFakeStore()
		store.schema["documents"] = []models.Field{
			{Key: "author", Label: "Author", Type: models.FieldTypeText, Group: "general"},
		}
		store.addAsset("d-1", "documents", "contract.pdf")

		resolved := NewFieldResolver(store, store, noopLogger{}).Resolve(ctx, testTenant, "d-1")

		require.Len(t, resolved.Fields, 1)
		assert.False(t, resolved.CollectionsVisible)
	})

	t.Run("current values pre-populate from the reference asset", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.addAsset("a-1", "photos", "IMG_2041")
		store.setCurrent("a-1", "title", `"Dawn"`)
		store.setCurrent("a-1", "keywords", `["people","studio"]`)

		resolved := NewFieldResolver(store, store, noopLogger{}).Resolve(ctx, testTenant, "a-1")

		byKey := make(map[string]FieldSelector, len(resolved.Fields))
		for _, f := range resolved.Fields {
			byKey[f.Key] = f
		}
		assert.Equal(t, ScalarValue("Dawn"), byKey["title"].Current)
		assert.Equal(t, []string{"people", "studio"}, byKey["keywords"].Current.List)
		// No stored rating: the empty representation for its type.
		assert.True(t, byKey["rating"].Current.IsEmpty())
		assert.Equal(t, KindScalar, byKey["rating"].Current.Kind)
	})

	t.Run("options carry through for constrained fields", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.addAsset("a-1", "photos", "IMG_2041")

		resolved := NewFieldResolver(store, store, noopLogger{}).Resolve(ctx, testTenant, "a-1")

		for _, f := range resolved.Fields {
			if f.Key == "keywords" {
				assert.Equal(t, []string{"people", "product", "landscape", "studio", "event"}, f.Options)
			}
		}
	})

	t.Run("resolution is fail-safe on lookup errors", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.addAsset("a-1", "photos", "IMG_2041")
		store.assetErr["a-1"] = assert.AnError

		resolved := NewFieldResolver(store, store, noopLogger{}).Resolve(ctx, testTenant, "a-1")

		assert.Empty(t, resolved.Fields)
		assert.False(t, resolved.CollectionsVisible)
	})

	t.Run("unknown reference asset resolves empty", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()

		resolved := NewFieldResolver(store, store, noopLogger{}).Resolve(ctx, testTenant, "missing")

		assert.Empty(t, resolved.Fields)
	})
}
