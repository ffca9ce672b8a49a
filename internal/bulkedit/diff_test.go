package bulkedit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"mediaportal/backend/pkg/models"
)

func newTestDiff(store *fakeStore) *DiffComputer {
	return NewDiffComputer(store, store, store, noopLogger{})
}

func titleSelector() FieldSelector {
	return FieldSelector{Key: "title", Label: "Title", Type: models.FieldTypeText}
}

func TestDiffComputer(t *testing.T) {
	ctx := context.Background()

	t.Run("clear affects only assets with a value", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.addAsset("a-1", "photos", "IMG_2041")
		store.addAsset("a-2", "photos", "IMG_2042")
		store.addAsset("a-3", "photos", "IMG_2043")
		store.setCurrent("a-1", "title", `"Dawn"`)
		store.setCurrent("a-2", "title", `"Dusk"`)

		result := newTestDiff(store).Compute(ctx, testTenant, OperationClear, titleSelector(), NoValue(), []string{"a-1", "a-2", "a-3"})

		assert.Equal(t, 3, result.Total)
		assert.Len(t, result.Affected, 2)
		assert.Empty(t, result.Errored)
		assert.Equal(t, []string{"a-3"}, result.Unaffected)

		assert.Equal(t, "a-1", result.Affected[0].AssetID)
		assert.Equal(t, "IMG_2041", result.Affected[0].Label)
		assert.Equal(t, []FieldChange{{FieldLabel: "Title", Old: "Dawn", New: ""}}, result.Affected[0].Changes)
	})

	t.Run("replace with the same value is not a change", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.addAsset("a-1", "photos", "IMG_2041")
		store.setCurrent("a-1", "rating", `"4"`)

		sel := FieldSelector{Key: "rating", Label: "Rating", Type: models.FieldTypeRating}
		result := newTestDiff(store).Compute(ctx, testTenant, OperationReplace, sel, ScalarValue("4.0"), []string{"a-1"})

		assert.Empty(t, result.Affected)
		assert.Equal(t, []string{"a-1"}, result.Unaffected)
	})

	t.Run("multiselect compares as a set", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.addAsset("a-1", "photos", "IMG_2041")
		store.setCurrent("a-1", "keywords", `["studio","people"]`)

		sel := FieldSelector{Key: "keywords", Label: "Keywords", Type: models.FieldTypeMultiSelect}
		result := newTestDiff(store).Compute(ctx, testTenant, OperationReplace, sel, ListValue([]string{"people", "studio"}), []string{"a-1"})

		assert.Empty(t, result.Affected)
		assert.Equal(t, []string{"a-1"}, result.Unaffected)
	})

	t.Run("missing asset is errored without aborting the batch", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.addAsset("a-1", "photos", "IMG_2041")

		result := newTestDiff(store).Compute(ctx, testTenant, OperationReplace, titleSelector(), ScalarValue("New Title"), []string{"a-1", "gone"})

		assert.Len(t, result.Affected, 1)
		assert.Len(t, result.Errored, 1)
		assert.Equal(t, "gone", result.Errored[0].AssetID)
		assert.NotEmpty(t, result.Errored[0].Errors)
	})

	t.Run("field missing from an asset's category is errored", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.schema["documents"] = []models.Field{
			{Key: "author", Label: "Author", Type: models.FieldTypeText, Group: "general"},
		}
		store.addAsset("a-1", "photos", "IMG_2041")
		store.addAsset("d-1", "documents", "contract.pdf")

		result := newTestDiff(store).Compute(ctx, testTenant, OperationReplace, titleSelector(), ScalarValue("New Title"), []string{"a-1", "d-1"})

		assert.Len(t, result.Affected, 1)
		assert.Len(t, result.Errored, 1)
		assert.Equal(t, "d-1", result.Errored[0].AssetID)
	})

	t.Run("read-only field is errored per asset", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.addAsset("a-1", "photos", "IMG_2041")

		sel := FieldSelector{Key: "file_size", Label: "File Size", Type: models.FieldTypeNumber}
		result := newTestDiff(store).Compute(ctx, testTenant, OperationReplace, sel, ScalarValue("1024"), []string{"a-1"})

		assert.Len(t, result.Errored, 1)
	})

	t.Run("partition accounts for every target exactly once", func(t *testing.T) {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.addAsset("a-1", "photos", "IMG_2041")
		store.addAsset("a-2", "photos", "IMG_2042")
		store.setCurrent("a-2", "title", `"New Title"`)

		targets := []string{"a-1", "a-2", "gone"}
		result := newTestDiff(store).Compute(ctx, testTenant, OperationReplace, titleSelector(), ScalarValue("New Title"), targets)

		assert.Equal(t, len(targets), result.Total)
		assert.Equal(t, len(targets), len(result.Affected)+len(result.Errored)+len(result.Unaffected))

		seen := map[string]int{}
		for _, e := range result.Affected {
			seen[e.AssetID]++
		}
		for _, e := range result.Errored {
			seen[e.AssetID]++
		}
		for _, id := range result.Unaffected {
			seen[id]++
		}
		for _, id := range targets {
			assert.Equal(t, 1, seen[id], "target %s", id)
		}
	})
}

func TestDiffComputerCollections(t *testing.T) {
	ctx := context.Background()
	sel := CollectionsSelector()

	newStore := func() *fakeStore {
		store := newFakeStore()
		store.schema["photos"] = photoSchema()
		store.collections = []models.Collection{
			{ID: "c-1", TenantID: testTenant, Name: "Spring Campaign"},
			{ID: "c-2", TenantID: testTenant, Name: "Website Heroes"},
			{ID: "c-3", TenantID: testTenant, Name: "Archive"},
		}
		store.addAsset("a-1", "photos", "IMG_2041")
		return store
	}

	t.Run("membership change previews with collection names", func(t *testing.T) {
		store := newStore()
		store.members["a-1"] = []string{"c-2", "c-3"}

		result := newTestDiff(store).Compute(ctx, testTenant, OperationAdd, sel, IDsValue([]string{"c-1", "c-2"}), []string{"a-1"})

		assert.Len(t, result.Affected, 1)
		change := result.Affected[0].Changes[0]
		assert.Equal(t, "Collections", change.FieldLabel)
		assert.Equal(t, "Website Heroes, Archive", change.Old)
		assert.Equal(t, "Spring Campaign, Website Heroes", change.New)
	})

	t.Run("same membership in a different order is not a change", func(t *testing.T) {
		store := newStore()
		store.members["a-1"] = []string{"c-2", "c-1"}

		result := newTestDiff(store).Compute(ctx, testTenant, OperationAdd, sel, IDsValue([]string{"c-1", "c-2"}), []string{"a-1"})

		assert.Empty(t, result.Affected)
		assert.Equal(t, []string{"a-1"}, result.Unaffected)
	})

	t.Run("clear targets the empty membership set", func(t *testing.T) {
		store := newStore()
		store.members["a-1"] = []string{"c-3"}

		result := newTestDiff(store).Compute(ctx, testTenant, OperationClear, sel, NoValue(), []string{"a-1"})

		assert.Len(t, result.Affected, 1)
		assert.Equal(t, "Archive", result.Affected[0].Changes[0].Old)
		assert.Equal(t, "", result.Affected[0].Changes[0].New)
	})

	t.Run("membership lookup failure errors the asset", func(t *testing.T) {
		store := newStore()
		store.memberErr["a-1"] = assert.AnError

		result := newTestDiff(store).Compute(ctx, testTenant, OperationAdd, sel, IDsValue([]string{"c-1"}), []string{"a-1"})

		assert.Len(t, result.Errored, 1)
		assert.Equal(t, "a-1", result.Errored[0].AssetID)
	})
}
