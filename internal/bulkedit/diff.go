package bulkedit

import (
	"context"
	"fmt"
	"strings"

	"mediaportal/backend/internal/repository"
	"mediaportal/backend/pkg/models"
)

// FieldChange is one (field, before, after) display tuple on a preview entry.
type FieldChange struct {
	FieldLabel string `json:"field_label"`
	Old        string `json:"old"`
	New        string `json:"new"`
}

// PreviewEntry describes the pending change for one affected asset.
type PreviewEntry struct {
	AssetID string        `json:"asset_id"`
	Label   string        `json:"label"`
	Changes []FieldChange `json:"changes"`
}

// AssetError records why one target asset could not be evaluated or mutated.
type AssetError struct {
	AssetID string   `json:"asset_id"`
	Errors  []string `json:"errors"`
}

// PreviewResult partitions the target set into affected, errored and
// unaffected assets. The three lists are disjoint and together account for
// every target exactly once.
type PreviewResult struct {
	Total      int            `json:"total"`
	Affected   []PreviewEntry `json:"affected"`
	Errored    []AssetError   `json:"errored"`
	Unaffected []string       `json:"unaffected"`
}

// DiffComputer evaluates, per target asset, whether applying a mutation
// would change the asset's stored value.
type DiffComputer struct {
	meta        repository.MetadataStore
	collections repository.CollectionStore
	schema      repository.SchemaStore
	logger      Logger
}

// NewDiffComputer creates a new DiffComputer.
func NewDiffComputer(meta repository.MetadataStore, collections repository.CollectionStore, schema repository.SchemaStore, logger Logger) *DiffComputer {
	return &DiffComputer{meta: meta, collections: collections, schema: schema, logger: logger}
}

// Compute produces the preview for applying (op, sel, val) to the targets.
// Per-asset lookup failures are recorded on that asset and never abort the
// rest of the batch.
func (d *DiffComputer) Compute(ctx context.Context, tenantID string, op OperationType, sel FieldSelector, val MutationValue, targets []string) PreviewResult {
	result := PreviewResult{Total: len(targets)}

	var names map[string]string
	if sel.IsCollections() {
		names = d.collectionNames(ctx, tenantID)
	}

	for _, assetID := range targets {
		entry, err := d.computeOne(ctx, tenantID, op, sel, val, assetID, names)
		switch {
		case err != nil:
			result.Errored = append(result.Errored, AssetError{AssetID: assetID, Errors: []string{err.Error()}})
		case entry != nil:
			result.Affected = append(result.Affected, *entry)
		default:
			result.Unaffected = append(result.Unaffected, assetID)
		}
	}
	return result
}

// computeOne evaluates one asset. A nil entry with nil error means the
// mutation would not change the asset.
func (d *DiffComputer) computeOne(ctx context.Context, tenantID string, op OperationType, sel FieldSelector, val MutationValue, assetID string, names map[string]string) (*PreviewEntry, error) {
	asset, err := d.meta.GetAsset(ctx, tenantID, assetID)
	if err != nil {
		return nil, fmt.Errorf("load asset: %w", err)
	}

	if sel.IsCollections() {
		current, err := d.collections.GetAssetCollections(ctx, tenantID, assetID)
		if err != nil {
			return nil, fmt.Errorf("load collection membership: %w", err)
		}
		desired := desiredCollectionSet(op, val)
		if setEqual(desired, current) {
			return nil, nil
		}
		return &PreviewEntry{
			AssetID: assetID,
			Label:   asset.Name,
			Changes: []FieldChange{{
				FieldLabel: sel.Label,
				Old:        displayCollections(current, names),
				New:        displayCollections(desired, names),
			}},
		}, nil
	}

	// Guard against schema drift between field resolution and diffing: the
	// asset's category must still declare the selected field as editable.
	if err := d.fieldStillEditable(ctx, tenantID, assetID, sel.Key); err != nil {
		return nil, err
	}

	current := emptyFor(sel.Type)
	if raw, found, err := d.meta.GetValue(ctx, tenantID, assetID, sel.Key); err != nil {
		return nil, fmt.Errorf("load current value: %w", err)
	} else if found {
		if current, err = decodeStored(sel.Type, raw); err != nil {
			return nil, err
		}
	}

	next := nextValue(sel, op, val)
	if valuesEqual(sel.Type, current, next) {
		return nil, nil
	}
	return &PreviewEntry{
		AssetID: assetID,
		Label:   asset.Name,
		Changes: []FieldChange{{FieldLabel: sel.Label, Old: current.Display(), New: next.Display()}},
	}, nil
}

func (d *DiffComputer) fieldStillEditable(ctx context.Context, tenantID, assetID, fieldKey string) error {
	fields, err := d.schema.GetAssetFields(ctx, tenantID, assetID)
	if err != nil {
		return fmt.Errorf("load schema fields: %w", err)
	}
	for _, f := range fields {
		if f.Key == fieldKey {
			if f.ReadOnly || f.Populate == models.PopulateAutomatic {
				return fmt.Errorf("field %q is not editable for this asset", fieldKey)
			}
			return nil
		}
	}
	return fmt.Errorf("field %q is not available for this asset's category", fieldKey)
}

// collectionNames maps collection ids to names for display. Best effort: on
// failure the preview falls back to raw ids.
func (d *DiffComputer) collectionNames(ctx context.Context, tenantID string) map[string]string {
	all, err := d.collections.ListCollections(ctx, tenantID)
	if err != nil {
		d.logger.Error("diff: list collections", "error", err)
		return nil
	}
	names := make(map[string]string, len(all))
	for _, c := range all {
		names[c.ID] = c.Name
	}
	return names
}

// nextValue computes the stored value the operation would produce for a
// regular field. add and replace both resolve to the entered value; neither
// deletes history, so replace is an add that supersedes the old value for
// display. clear resolves to the field's empty representation.
func nextValue(sel FieldSelector, op OperationType, val MutationValue) MutationValue {
	if op == OperationClear {
		return emptyFor(sel.Type)
	}
	return val
}

// desiredCollectionSet is the membership set the operation aims for: the
// selected ids for add/replace, the empty set for clear.
func desiredCollectionSet(op OperationType, val MutationValue) []string {
	if op == OperationClear {
		return nil
	}
	return val.IDs
}

func displayCollections(ids []string, names map[string]string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, name)
			continue
		}
		out = append(out, id)
	}
	return strings.Join(out, ", ")
}
