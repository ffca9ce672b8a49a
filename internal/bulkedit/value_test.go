package bulkedit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mediaportal/backend/pkg/models"
)

func TestMutationValueValidate(t *testing.T) {
	keywords := FieldSelector{Key: "keywords", Label: "Keywords", Type: models.FieldTypeMultiSelect, Options: []string{"people", "product", "landscape"}}
	license := FieldSelector{Key: "license", Label: "License", Type: models.FieldTypeSelect, Options: []string{"editorial", "commercial"}}
	title := FieldSelector{Key: "title", Label: "Title", Type: models.FieldTypeText}
	rating := FieldSelector{Key: "rating", Label: "Rating", Type: models.FieldTypeRating}
	width := FieldSelector{Key: "width", Label: "Width", Type: models.FieldTypeNumber}
	flagged := FieldSelector{Key: "flagged", Label: "Flagged", Type: models.FieldTypeBoolean}
	shot := FieldSelector{Key: "shot_date", Label: "Shot Date", Type: models.FieldTypeDate}

	t.Run("clear takes no value", func(t *testing.T) {
		assert.NoError(t, NoValue().Validate(OperationClear, title))
		assert.ErrorIs(t, ScalarValue("x").Validate(OperationClear, title), ErrValidation)
	})

	t.Run("multiselect rejects empty selection", func(t *testing.T) {
		assert.ErrorIs(t, ListValue(nil).Validate(OperationAdd, keywords), ErrValidation)
		assert.ErrorIs(t, ListValue([]string{}).Validate(OperationReplace, keywords), ErrValidation)
		assert.NoError(t, ListValue([]string{"people"}).Validate(OperationAdd, keywords))
	})

	t.Run("multiselect rejects unknown option", func(t *testing.T) {
		assert.ErrorIs(t, ListValue([]string{"people", "astral"}).Validate(OperationAdd, keywords), ErrValidation)
	})

	t.Run("select requires an allowed option", func(t *testing.T) {
		assert.NoError(t, ScalarValue("editorial").Validate(OperationReplace, license))
		assert.ErrorIs(t, ScalarValue("freeware").Validate(OperationReplace, license), ErrValidation)
		assert.ErrorIs(t, ScalarValue("  ").Validate(OperationReplace, license), ErrValidation)
	})

	t.Run("text requires a non-empty scalar", func(t *testing.T) {
		assert.NoError(t, ScalarValue("Pier at dusk").Validate(OperationReplace, title))
		assert.ErrorIs(t, ScalarValue("   ").Validate(OperationReplace, title), ErrValidation)
		assert.ErrorIs(t, ListValue([]string{"x"}).Validate(OperationReplace, title), ErrValidation)
	})

	t.Run("number must parse", func(t *testing.T) {
		assert.NoError(t, ScalarValue("1920.5").Validate(OperationReplace, width))
		assert.ErrorIs(t, ScalarValue("wide").Validate(OperationReplace, width), ErrValidation)
	})

	t.Run("rating is a whole number in range", func(t *testing.T) {
		assert.NoError(t, ScalarValue("0").Validate(OperationReplace, rating))
		assert.NoError(t, ScalarValue("5").Validate(OperationReplace, rating))
		assert.ErrorIs(t, ScalarValue("6").Validate(OperationReplace, rating), ErrValidation)
		assert.ErrorIs(t, ScalarValue("-1").Validate(OperationReplace, rating), ErrValidation)
		assert.ErrorIs(t, ScalarValue("3.5").Validate(OperationReplace, rating), ErrValidation)
	})

	t.Run("boolean and date formats", func(t *testing.T) {
		assert.NoError(t, ScalarValue("true").Validate(OperationReplace, flagged))
		assert.ErrorIs(t, ScalarValue("yes").Validate(OperationReplace, flagged), ErrValidation)
		assert.NoError(t, ScalarValue("2026-03-14").Validate(OperationReplace, shot))
		assert.ErrorIs(t, ScalarValue("14/03/2026").Validate(OperationReplace, shot), ErrValidation)
	})

	t.Run("collections require at least one id", func(t *testing.T) {
		sel := CollectionsSelector()
		assert.NoError(t, IDsValue([]string{"c-1"}).Validate(OperationAdd, sel))
		assert.ErrorIs(t, IDsValue(nil).Validate(OperationAdd, sel), ErrValidation)
		assert.ErrorIs(t, ListValue([]string{"c-1"}).Validate(OperationAdd, sel), ErrValidation)
		assert.NoError(t, NoValue().Validate(OperationClear, sel))
	})
}

func TestValueEquality(t *testing.T) {
	t.Run("numbers compare canonically", func(t *testing.T) {
		assert.True(t, scalarEqual(models.FieldTypeNumber, "1.50", "1.5"))
		assert.True(t, scalarEqual(models.FieldTypeNumber, " 3 ", "3.0"))
		assert.False(t, scalarEqual(models.FieldTypeNumber, "1.5", "1.51"))
	})

	t.Run("booleans collapse spellings", func(t *testing.T) {
		assert.True(t, scalarEqual(models.FieldTypeBoolean, "TRUE", "1"))
		assert.False(t, scalarEqual(models.FieldTypeBoolean, "true", "false"))
	})

	t.Run("text trims surrounding space", func(t *testing.T) {
		assert.True(t, scalarEqual(models.FieldTypeText, " pier ", "pier"))
		assert.False(t, scalarEqual(models.FieldTypeText, "Pier", "pier"))
	})

	t.Run("sets ignore order and duplicates", func(t *testing.T) {
		assert.True(t, setEqual([]string{"a", "b"}, []string{"b", "a"}))
		assert.True(t, setEqual(nil, nil))
		assert.False(t, setEqual([]string{"a"}, []string{"a", "b"}))
		assert.False(t, setEqual([]string{"a", "b"}, []string{"a"}))
	})

	t.Run("setDiff preserves order of the left side", func(t *testing.T) {
		assert.Equal(t, []string{"a", "c"}, setDiff([]string{"a", "b", "c"}, []string{"b"}))
		assert.Nil(t, setDiff([]string{"a"}, []string{"a"}))
	})
}

func TestStoredEncoding(t *testing.T) {
	t.Run("scalar round trip", func(t *testing.T) {
		raw, err := encodeStored(models.FieldTypeText, ScalarValue("Pier at dusk"))
		assert.NoError(t, err)
		assert.Equal(t, `"Pier at dusk"`, raw)

		back, err := decodeStored(models.FieldTypeText, raw)
		assert.NoError(t, err)
		assert.Equal(t, ScalarValue("Pier at dusk"), back)
	})

	t.Run("multi round trip", func(t *testing.T) {
		raw, err := encodeStored(models.FieldTypeMultiSelect, ListValue([]string{"people", "studio"}))
		assert.NoError(t, err)

		back, err := decodeStored(models.FieldTypeMultiSelect, raw)
		assert.NoError(t, err)
		assert.Equal(t, []string{"people", "studio"}, back.List)
	})

	t.Run("empty value encodes as cleared", func(t *testing.T) {
		raw, err := encodeStored(models.FieldTypeText, NoValue())
		assert.NoError(t, err)
		assert.Equal(t, "", raw)

		raw, err = encodeStored(models.FieldTypeMultiSelect, ListValue(nil))
		assert.NoError(t, err)
		assert.Equal(t, "", raw)
	})

	t.Run("empty raw decodes to the empty representation", func(t *testing.T) {
		v, err := decodeStored(models.FieldTypeMultiSelect, "")
		assert.NoError(t, err)
		assert.True(t, v.IsEmpty())
		assert.Equal(t, KindList, v.Kind)

		v, err = decodeStored(models.FieldTypeText, "")
		assert.NoError(t, err)
		assert.Equal(t, KindScalar, v.Kind)
	})

	t.Run("malformed raw errors", func(t *testing.T) {
		_, err := decodeStored(models.FieldTypeMultiSelect, "{not json")
		assert.Error(t, err)
	})

	t.Run("numbers store canonically", func(t *testing.T) {
		raw, err := encodeStored(models.FieldTypeNumber, ScalarValue("1.50"))
		assert.NoError(t, err)
		assert.Equal(t, `"1.5"`, raw)
	})
}
