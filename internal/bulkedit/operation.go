// Package bulkedit implements the bulk metadata mutation workflow: field
// resolution, change preview, signed preview tokens, and per-asset execution.
package bulkedit

import (
	"fmt"

	"mediaportal/backend/pkg/models"
)

// OperationType represents the kind of bulk mutation
type OperationType string

const (
	OperationAdd     OperationType = "add"
	OperationReplace OperationType = "replace"
	OperationClear   OperationType = "clear"
)

// ParseOperation validates a raw operation string.
func ParseOperation(raw string) (OperationType, error) {
	switch OperationType(raw) {
	case OperationAdd, OperationReplace, OperationClear:
		return OperationType(raw), nil
	}
	return "", fmt.Errorf("%w: unknown operation %q", ErrValidation, raw)
}

// CollectionsFieldKey is the sentinel key of the collections pseudo-field.
// It is never offered as a regular field; membership changes go through the
// collection sync path instead of value replacement.
const CollectionsFieldKey = "collection"

// FieldSelector identifies the field a bulk mutation targets, either a
// regular metadata field or the collections pseudo-field. Current carries the
// field's value on the reference asset so the value entry step can
// pre-populate.
type FieldSelector struct {
	Key     string           `json:"key"`
	Label   string           `json:"label"`
	Type    models.FieldType `json:"type,omitempty"`
	Options []string         `json:"options,omitempty"`
	Current MutationValue    `json:"current"`
}

// IsCollections reports whether the selector is the collections pseudo-field.
func (f FieldSelector) IsCollections() bool {
	return f.Key == CollectionsFieldKey
}

// CollectionsSelector returns the sentinel collections pseudo-field. It has
// no declared type and is always multi-valued.
func CollectionsSelector() FieldSelector {
	return FieldSelector{
		Key:     CollectionsFieldKey,
		Label:   "Collections",
		Current: IDsValue(nil),
	}
}

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}
