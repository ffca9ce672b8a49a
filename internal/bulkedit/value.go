package bulkedit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mediaportal/backend/pkg/models"
)

// ValueKind tags the payload variant carried by a MutationValue
type ValueKind string

const (
	KindNone   ValueKind = "none"
	KindScalar ValueKind = "scalar"
	KindList   ValueKind = "list"
	KindIDs    ValueKind = "ids"
)

// MutationValue is the closed tagged variant for user-entered mutation
// payloads and stored current values. Exactly one payload field is populated
// according to Kind. KindNone is used only with the clear operation.
type MutationValue struct {
	Kind   ValueKind `json:"kind"`
	Scalar string    `json:"scalar,omitempty"`
	List   []string  `json:"list,omitempty"`
	IDs    []string  `json:"ids,omitempty"`
}

// NoValue returns the empty payload used with clear.
func NoValue() MutationValue { return MutationValue{Kind: KindNone} }

// ScalarValue wraps a scalar payload.
func ScalarValue(s string) MutationValue { return MutationValue{Kind: KindScalar, Scalar: s} }

// ListValue wraps a list-of-strings payload (multiselect, tags).
func ListValue(items []string) MutationValue { return MutationValue{Kind: KindList, List: items} }

// IDsValue wraps a list-of-ids payload (collections).
func IDsValue(ids []string) MutationValue { return MutationValue{Kind: KindIDs, IDs: ids} }

// Display renders the value for preview change tuples.
func (v MutationValue) Display() string {
	switch v.Kind {
	case KindScalar:
		return v.Scalar
	case KindList:
		return strings.Join(v.List, ", ")
	case KindIDs:
		return strings.Join(v.IDs, ", ")
	}
	return ""
}

// IsEmpty reports whether the value is the empty representation of its kind.
func (v MutationValue) IsEmpty() bool {
	switch v.Kind {
	case KindScalar:
		return strings.TrimSpace(v.Scalar) == ""
	case KindList:
		return len(v.List) == 0
	case KindIDs:
		return len(v.IDs) == 0
	}
	return true
}

// Validate checks the value against the selected operation and field type.
// Violations are reported as ErrValidation so the workflow can block stage
// advancement without treating them as fatal.
func (v MutationValue) Validate(op OperationType, sel FieldSelector) error {
	if op == OperationClear {
		if v.Kind != KindNone {
			return fmt.Errorf("%w: clear does not take a value", ErrValidation)
		}
		return nil
	}

	if sel.IsCollections() {
		if v.Kind != KindIDs || len(v.IDs) == 0 {
			return fmt.Errorf("%w: select at least one collection", ErrValidation)
		}
		return nil
	}

	switch sel.Type {
	case models.FieldTypeMultiSelect:
		if v.Kind != KindList || len(v.List) == 0 {
			return fmt.Errorf("%w: field %q requires at least one value", ErrValidation, sel.Label)
		}
		return validateOptions(v.List, sel)
	case models.FieldTypeSelect:
		if v.Kind != KindScalar || strings.TrimSpace(v.Scalar) == "" {
			return fmt.Errorf("%w: field %q requires a value", ErrValidation, sel.Label)
		}
		return validateOptions([]string{strings.TrimSpace(v.Scalar)}, sel)
	case models.FieldTypeNumber:
		if v.Kind != KindScalar {
			return fmt.Errorf("%w: field %q requires a numeric value", ErrValidation, sel.Label)
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(v.Scalar), 64); err != nil {
			return fmt.Errorf("%w: %q is not a number", ErrValidation, v.Scalar)
		}
		return nil
	case models.FieldTypeRating:
		if v.Kind != KindScalar {
			return fmt.Errorf("%w: field %q requires a rating", ErrValidation, sel.Label)
		}
		n, err := strconv.Atoi(strings.TrimSpace(v.Scalar))
		if err != nil || n < 0 || n > 5 {
			return fmt.Errorf("%w: rating must be a whole number between 0 and 5", ErrValidation)
		}
		return nil
	case models.FieldTypeBoolean:
		if v.Kind != KindScalar {
			return fmt.Errorf("%w: field %q requires true or false", ErrValidation, sel.Label)
		}
		if _, err := strconv.ParseBool(strings.TrimSpace(v.Scalar)); err != nil {
			return fmt.Errorf("%w: %q is not a boolean", ErrValidation, v.Scalar)
		}
		return nil
	case models.FieldTypeDate:
		if v.Kind != KindScalar {
			return fmt.Errorf("%w: field %q requires a date", ErrValidation, sel.Label)
		}
		if _, err := time.Parse("2006-01-02", strings.TrimSpace(v.Scalar)); err != nil {
			return fmt.Errorf("%w: %q is not a date (want YYYY-MM-DD)", ErrValidation, v.Scalar)
		}
		return nil
	default: // text
		if v.Kind != KindScalar || strings.TrimSpace(v.Scalar) == "" {
			return fmt.Errorf("%w: field %q requires a value", ErrValidation, sel.Label)
		}
		return nil
	}
}

func validateOptions(values []string, sel FieldSelector) error {
	if len(sel.Options) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(sel.Options))
	for _, o := range sel.Options {
		allowed[o] = true
	}
	for _, v := range values {
		if !allowed[v] {
			return fmt.Errorf("%w: %q is not an allowed option for field %q", ErrValidation, v, sel.Label)
		}
	}
	return nil
}

// normalizeScalar canonicalizes a scalar for comparison: strings are
// trimmed, numbers are coerced through a float parse so "1.50" and "1.5"
// compare equal, booleans collapse to "true"/"false".
func normalizeScalar(t models.FieldType, s string) string {
	s = strings.TrimSpace(s)
	switch t {
	case models.FieldTypeNumber, models.FieldTypeRating:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	case models.FieldTypeBoolean:
		if b, err := strconv.ParseBool(s); err == nil {
			return strconv.FormatBool(b)
		}
	}
	return s
}

// scalarEqual applies the field's equality rule to two scalars.
func scalarEqual(t models.FieldType, a, b string) bool {
	return normalizeScalar(t, a) == normalizeScalar(t, b)
}

// setEqual compares two string slices as sets, so re-ordering the same
// members is not a change.
func setEqual(a, b []string) bool {
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			return false
		}
	}
	for _, v := range b {
		delete(seen, v)
	}
	return len(seen) == 0
}

// setDiff returns the elements of a not present in b, preserving a's order.
func setDiff(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, v := range b {
		in[v] = true
	}
	var out []string
	for _, v := range a {
		if !in[v] {
			out = append(out, v)
		}
	}
	return out
}

// valuesEqual applies the field-type-appropriate equality rule.
func valuesEqual(t models.FieldType, a, b MutationValue) bool {
	if t.Multi() {
		return setEqual(a.List, b.List)
	}
	return scalarEqual(t, a.Scalar, b.Scalar)
}

// emptyFor returns the empty representation for a field type: an empty list
// for multi-valued fields, an empty scalar otherwise.
func emptyFor(t models.FieldType) MutationValue {
	if t.Multi() {
		return ListValue(nil)
	}
	return ScalarValue("")
}

// encodeStored serializes a value for the metadata store. The empty
// representation encodes as an empty raw, which the store treats as cleared.
func encodeStored(t models.FieldType, v MutationValue) (string, error) {
	if v.Kind == KindNone || v.IsEmpty() {
		return "", nil
	}
	if t.Multi() {
		b, err := json.Marshal(v.List)
		return string(b), err
	}
	b, err := json.Marshal(normalizeScalar(t, v.Scalar))
	return string(b), err
}

// decodeStored parses a raw stored value back into the field's value shape.
func decodeStored(t models.FieldType, raw string) (MutationValue, error) {
	if raw == "" {
		return emptyFor(t), nil
	}
	if t.Multi() {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return MutationValue{}, fmt.Errorf("malformed stored value: %w", err)
		}
		return ListValue(items), nil
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return MutationValue{}, fmt.Errorf("malformed stored value: %w", err)
	}
	return ScalarValue(s), nil
}
