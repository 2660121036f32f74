package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

type payload struct {
	UserID string `json:"user_id" validate:"required"`
	Kind   string `json:"kind" validate:"required,oneof=a b"`
	Items  []item `json:"items" validate:"min=1,dive"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()

	err := v.Struct(payload{
		UserID: "42",
		Kind:   "a",
		Items:  []item{{Name: "Lavash", Quantity: 1}},
	})
	assert.NoError(t, err)
}

func TestStruct_ReportsJSONPaths(t *testing.T) {
	v := New()

	err := v.Struct(payload{
		Kind:  "c",
		Items: []item{{Name: "Lavash", Quantity: 0}},
	})
	require.Error(t, err)

	vErr, ok := IsError(err)
	require.True(t, ok)

	fields := make(map[string]string, len(vErr.Fields))
	for _, f := range vErr.Fields {
		fields[f.Field] = f.Message
	}

	assert.Equal(t, "is required", fields["user_id"])
	assert.Equal(t, "must be one of: a, b", fields["kind"])
	assert.Contains(t, fields, "items[0].quantity")
}

func TestStruct_EmptySlice(t *testing.T) {
	v := New()

	err := v.Struct(payload{UserID: "1", Kind: "b", Items: []item{}})
	vErr, ok := IsError(err)
	require.True(t, ok)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "items", vErr.Fields[0].Field)
}

func TestIsError_Wrapped(t *testing.T) {
	base := NewError("Missing required fields", FieldError{Field: "products", Message: "is required"})
	wrapped := fmt.Errorf("create order: %w", base)

	vErr, ok := IsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "Missing required fields", vErr.Message)

	_, ok = IsError(errors.New("boom"))
	assert.False(t, ok)
}

func TestError_Message(t *testing.T) {
	err := NewError("Validation Error", FieldError{Field: "rating", Message: "is required"})
	assert.Equal(t, "Validation Error: rating: is required", err.Error())

	assert.Equal(t, "plain", NewError("plain").Error())
}
