package models

import "time"

// FieldType represents the declared type of a metadata field
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeNumber      FieldType = "number"
	FieldTypeBoolean     FieldType = "boolean"
	FieldTypeDate        FieldType = "date"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiSelect FieldType = "multiselect"
	FieldTypeRating      FieldType = "rating"
)

// PopulateMode describes how a field's value comes to exist
type PopulateMode string

const (
	PopulateManual    PopulateMode = "manual"
	PopulateAutomatic PopulateMode = "automatic"
)

// Multi reports whether the field type holds a list of values rather than a
// single scalar.
func (t FieldType) Multi() bool {
	return t == FieldTypeMultiSelect
}

// Field describes one metadata field declared by a category schema.
type Field struct {
	Key      string       `json:"key" db:"key"`
	Label    string       `json:"label" db:"label"`
	Type     FieldType    `json:"type" db:"type"`
	Options  []string     `json:"options,omitempty" db:"options"`
	ReadOnly bool         `json:"read_only" db:"read_only"`
	Populate PopulateMode `json:"populate" db:"populate"`
	Group    string       `json:"group" db:"group_name"`
}

// SchemaGroup is a named group of fields within a category schema.
type SchemaGroup struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Schema is the full metadata schema for a category.
type Schema struct {
	CategoryID string        `json:"category_id"`
	Groups     []SchemaGroup `json:"groups"`
}

// FieldValue is one stored value of a field on an asset. Writes never delete
// prior rows; superseded values stay queryable for audit.
type FieldValue struct {
	ID        string    `json:"id" db:"id"`
	AssetID   string    `json:"asset_id" db:"asset_id"`
	FieldKey  string    `json:"field_key" db:"field_key"`
	Raw       string    `json:"raw" db:"raw"`
	Current   bool      `json:"current" db:"is_current"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
