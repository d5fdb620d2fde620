package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type personInput struct {
	Name      string `json:"name" validate:"required,max=60"`
	ShirtSize string `json:"shirt_size" validate:"required,shirtsize"`
}

type edgeInput struct {
	Type string `json:"relation_type" validate:"relationtype"`
}

func TestCustomTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	assert.NoError(t, v.Struct(personInput{Name: "kim", ShirtSize: "M"}))
	assert.NoError(t, v.Struct(edgeInput{Type: "b"}))

	err := v.Struct(personInput{ShirtSize: "XL"})
	require.Error(t, err)
	details, ok := Details(err)
	require.True(t, ok)
	assert.Equal(t, "this field is required", details["name"])
	assert.Contains(t, details["shirt_size"], "S, M, L")

	details, ok = Details(v.Struct(edgeInput{Type: "x"}))
	require.True(t, ok)
	assert.Contains(t, details, "relation_type")
}

func TestDetailsIgnoresOtherErrors(t *testing.T) {
	_, ok := Details(assert.AnError)
	assert.False(t, ok)
}

func TestRegisterOnGinEngine(t *testing.T) {
	assert.NoError(t, Register())
	assert.NoError(t, Register())
}
