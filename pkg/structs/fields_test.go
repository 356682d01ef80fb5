package structs_test

import (
	"testing"

	"github.com/mdouchement/itemstore/pkg/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Base struct {
	ID string
}

type record struct {
	Base
	Title string
	Count int
}

func TestGetField(t *testing.T) {
	r := &record{Base: Base{ID: "42"}, Title: "t", Count: 2}

	v, err := structs.GetField(r, "ID")
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	v, err = structs.GetField(r, "Title")
	require.NoError(t, err)
	assert.Equal(t, "t", v)

	v, err = structs.GetField(*r, "Count")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = structs.GetField(r, "Unknown")
	assert.Error(t, err)
}

func TestPick(t *testing.T) {
	r := &record{Title: "t", Count: 2}

	fields, err := structs.Pick(r, "Title", "Count")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Title": "t", "Count": 2}, fields)

	_, err = structs.Pick(r, "Title", "Nope")
	assert.Error(t, err)
}
