package bulkedit

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"mediaportal/backend/internal/repository"
)

// Stage names the five UI-visible steps of the workflow
type Stage string

const (
	StageSelectOperation Stage = "select_operation"
	StageSelectField     Stage = "select_field"
	StageEnterValue      Stage = "enter_value"
	StagePreview         Stage = "preview"
	StageComplete        Stage = "complete"
)

// Engine bundles the workflow's collaborators and starts workflow instances.
type Engine struct {
	resolver *FieldResolver
	diff     *DiffComputer
	codec    *TokenCodec
	executor *Executor
	logger   Logger
}

// NewEngine wires the bulk edit components over the given stores.
func NewEngine(schema repository.SchemaStore, collections repository.CollectionStore, meta repository.MetadataStore, codec *TokenCodec, logger Logger) *Engine {
	return &Engine{
		resolver: NewFieldResolver(schema, meta, logger),
		diff:     NewDiffComputer(meta, collections, schema, logger),
		codec:    codec,
		executor: NewExecutor(codec, meta, collections, logger),
		logger:   logger,
	}
}

// Start creates a workflow instance over the target assets. The target set
// is deduplicated, order-preserved, and immutable for the instance's
// lifetime.
func (e *Engine) Start(tenantID string, targetIDs []string) (*Workflow, error) {
	targets := dedupe(targetIDs)
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no target assets", ErrValidation)
	}
	return &Workflow{
		id:       uuid.New().String(),
		tenantID: tenantID,
		targets:  targets,
		stage:    StageSelectOperation,
		engine:   e,
	}, nil
}

// Execute applies a previously minted token directly, without an interactive
// workflow instance. The token alone carries the full mutation intent.
func (e *Engine) Execute(ctx context.Context, tenantID, token string) (ExecutionResult, error) {
	return e.executor.Execute(ctx, tenantID, token)
}

// Resolver exposes field resolution for non-interactive callers.
func (e *Engine) Resolver() *FieldResolver { return e.resolver }

// Workflow is one in-memory bulk mutation session. It holds the in-progress
// selections and mediates stage transitions; it is never persisted. The
// minted preview token is the only artifact that survives the instance.
type Workflow struct {
	mu       sync.Mutex
	id       string
	tenantID string
	targets  []string
	stage    Stage
	engine   *Engine

	resolved *ResolvedFields
	op       OperationType
	field    FieldSelector
	value    MutationValue
	preview  *PreviewResult
	token    string
	result   *ExecutionResult
}

// ID returns the workflow instance id.
func (w *Workflow) ID() string { return w.id }

// TenantID returns the owning tenant.
func (w *Workflow) TenantID() string { return w.tenantID }

// Stage returns the current stage.
func (w *Workflow) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Targets returns a copy of the target asset ids.
func (w *Workflow) Targets() []string {
	out := make([]string, len(w.targets))
	copy(out, w.targets)
	return out
}

// SelectOperation records the operation choice and advances to field
// selection.
func (w *Workflow) SelectOperation(op OperationType) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage != StageSelectOperation {
		return w.transitionError(StageSelectOperation)
	}
	if _, err := ParseOperation(string(op)); err != nil {
		return err
	}
	w.op = op
	w.stage = StageSelectField
	return nil
}

// FieldOptions returns the selectable fields, resolving them against the
// first target asset on first use.
func (w *Workflow) FieldOptions(ctx context.Context) (ResolvedFields, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage != StageSelectField {
		return ResolvedFields{}, w.transitionError(StageSelectField)
	}
	return *w.resolveLocked(ctx), nil
}

// SelectField records the field choice and advances to value entry. The
// returned selector carries the field's current value on the reference asset
// for pre-populating the entry form (an empty id list for collections).
func (w *Workflow) SelectField(ctx context.Context, key string) (FieldSelector, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage != StageSelectField {
		return FieldSelector{}, w.transitionError(StageSelectField)
	}

	resolved := w.resolveLocked(ctx)
	var sel FieldSelector
	switch {
	case key == CollectionsFieldKey && resolved.CollectionsVisible:
		sel = CollectionsSelector()
	default:
		found := false
		for _, f := range resolved.Fields {
			if f.Key == key {
				sel, found = f, true
				break
			}
		}
		if !found {
			return FieldSelector{}, fmt.Errorf("%w: field %q is not bulk-editable", ErrValidation, key)
		}
	}

	w.field = sel
	w.value = sel.Current
	w.stage = StageEnterValue
	return sel, nil
}

// EnterValue validates the entered value against the selected operation and
// field and advances to preview. For clear no value is required; anything
// entered is discarded. Invalid entry blocks advancement with ErrValidation.
func (w *Workflow) EnterValue(val MutationValue) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage != StageEnterValue {
		return w.transitionError(StageEnterValue)
	}
	if w.op == OperationClear {
		val = NoValue()
	}
	if err := val.Validate(w.op, w.field); err != nil {
		return err
	}
	w.value = val
	w.stage = StagePreview
	return nil
}

// Preview computes the diff for the pending mutation and mints the token
// bound to exactly that mutation. The result is cached for Confirm.
func (w *Workflow) Preview(ctx context.Context) (*PreviewResult, string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage != StagePreview {
		return nil, "", w.transitionError(StagePreview)
	}
	if w.preview == nil {
		result := w.engine.diff.Compute(ctx, w.tenantID, w.op, w.field, w.value, w.targets)
		token, err := w.engine.codec.Encode(Intent{
			Operation: w.op,
			Field:     w.field,
			Value:     w.value,
			TargetIDs: w.targets,
		})
		if err != nil {
			return nil, "", err
		}
		w.preview = &result
		w.token = token
	}
	return w.preview, w.token, nil
}

// Confirm executes the previewed mutation. Confirmation is fail-closed: it
// is refused while the preview reports any per-asset error, so the user
// never approves a mutation they have not correctly seen.
func (w *Workflow) Confirm(ctx context.Context) (*ExecutionResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage != StagePreview {
		return nil, w.transitionError(StagePreview)
	}
	if w.preview == nil {
		return nil, fmt.Errorf("%w: preview has not been computed", ErrStateTransition)
	}
	if len(w.preview.Errored) > 0 {
		return nil, fmt.Errorf("%w: %d assets could not be evaluated", ErrPreviewBlocked, len(w.preview.Errored))
	}

	result, err := w.engine.executor.Execute(ctx, w.tenantID, w.token)
	if err != nil {
		return nil, err
	}
	w.result = &result
	w.stage = StageComplete
	return w.result, nil
}

// Back moves to the immediate predecessor stage, discarding the selections
// made at the stage being left. Complete is terminal.
func (w *Workflow) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.stage {
	case StageSelectField:
		w.stage = StageSelectOperation
	case StageEnterValue:
		w.field = FieldSelector{}
		w.value = MutationValue{}
		w.stage = StageSelectField
	case StagePreview:
		w.preview = nil
		w.token = ""
		w.stage = StageEnterValue
	default:
		return fmt.Errorf("%w: cannot go back from %s", ErrStateTransition, w.stage)
	}
	return nil
}

// Result returns the execution result once the workflow completed.
func (w *Workflow) Result() *ExecutionResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

func (w *Workflow) resolveLocked(ctx context.Context) *ResolvedFields {
	if w.resolved == nil {
		// The first target stands in for the batch; assets from other
		// categories surface per-asset errors at preview time.
		resolved := w.engine.resolver.Resolve(ctx, w.tenantID, w.targets[0])
		w.resolved = &resolved
	}
	return w.resolved
}

func (w *Workflow) transitionError(want Stage) error {
	return fmt.Errorf("%w: in stage %s, want %s", ErrStateTransition, w.stage, want)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
