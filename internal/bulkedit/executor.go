package bulkedit

import (
	"context"
	"errors"
	"fmt"

	"mediaportal/backend/internal/repository"
)

// Outcome statuses for per-asset execution results.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Outcome is the terminal result of mutating one target asset.
type Outcome struct {
	AssetID string `json:"asset_id"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

// ExecutionResult carries one outcome per target asset, in token order.
// Partial success is an expected result, not an error state.
type ExecutionResult struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Succeeded returns the number of successful outcomes.
func (r ExecutionResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == OutcomeSuccess {
			n++
		}
	}
	return n
}

// Failed returns the number of failed outcomes.
func (r ExecutionResult) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Executor applies the mutation described by a preview token to each target
// asset independently.
type Executor struct {
	codec       *TokenCodec
	meta        repository.MetadataStore
	collections repository.CollectionStore
	logger      Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(codec *TokenCodec, meta repository.MetadataStore, collections repository.CollectionStore, logger Logger) *Executor {
	return &Executor{codec: codec, meta: meta, collections: collections, logger: logger}
}

// Execute decodes and verifies the token, then applies the mutation to every
// target. A token that fails verification fails the whole call; a target
// that fails to mutate is recorded and never stops the remaining targets.
// The result holds exactly one outcome per target id, in token order.
func (e *Executor) Execute(ctx context.Context, tenantID, token string) (ExecutionResult, error) {
	intent, err := e.codec.Decode(token)
	if err != nil {
		return ExecutionResult{}, err
	}

	result := ExecutionResult{Outcomes: make([]Outcome, 0, len(intent.TargetIDs))}
	for _, assetID := range intent.TargetIDs {
		if err := e.applyOne(ctx, tenantID, intent, assetID); err != nil {
			result.Outcomes = append(result.Outcomes, Outcome{AssetID: assetID, Status: OutcomeFailure, Reason: reason(err)})
			continue
		}
		result.Outcomes = append(result.Outcomes, Outcome{AssetID: assetID, Status: OutcomeSuccess})
	}

	e.logger.Info("bulk mutation executed",
		"operation", string(intent.Operation),
		"field", intent.Field.Key,
		"succeeded", result.Succeeded(),
		"failed", result.Failed(),
	)
	return result, nil
}

func (e *Executor) applyOne(ctx context.Context, tenantID string, intent Intent, assetID string) error {
	if _, err := e.meta.GetAsset(ctx, tenantID, assetID); err != nil {
		return fmt.Errorf("load asset: %w", err)
	}

	if intent.Field.IsCollections() {
		return e.syncCollections(ctx, tenantID, intent, assetID)
	}

	// Regular fields are last-writer-wins: write the intended value as the
	// new current one. The store keeps the prior value for audit, for clear
	// as well.
	raw, err := encodeStored(intent.Field.Type, nextValue(intent.Field, intent.Operation, intent.Value))
	if err != nil {
		return err
	}
	return e.meta.SetValue(ctx, tenantID, assetID, intent.Field.Key, raw)
}

// syncCollections reconciles membership against the desired set computed
// here, at execution time, rather than trusting the preview snapshot:
// membership may have moved since the preview was shown. Only the ids that
// differ get add or remove calls.
func (e *Executor) syncCollections(ctx context.Context, tenantID string, intent Intent, assetID string) error {
	current, err := e.collections.GetAssetCollections(ctx, tenantID, assetID)
	if err != nil {
		return fmt.Errorf("load collection membership: %w", err)
	}
	desired := desiredCollectionSet(intent.Operation, intent.Value)

	for _, id := range setDiff(desired, current) {
		if err := e.collections.AddAssetToCollection(ctx, tenantID, assetID, id); err != nil {
			return fmt.Errorf("add to collection %s: %w", id, err)
		}
	}
	for _, id := range setDiff(current, desired) {
		if err := e.collections.RemoveAssetFromCollection(ctx, tenantID, assetID, id); err != nil {
			return fmt.Errorf("remove from collection %s: %w", id, err)
		}
	}
	return nil
}

func reason(err error) string {
	if errors.Is(err, repository.ErrNotFound) {
		return "not found"
	}
	return err.Error()
}
