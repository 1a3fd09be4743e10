package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONList_Scan(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected JSONList
	}{
		{"nil", nil, JSONList{}},
		{"json text", `["2 eggs","salt"]`, JSONList{"2 eggs", "salt"}},
		{"json bytes", []byte(`["a"]`), JSONList{"a"}},
		{"not json", "not json", JSONList{}},
		{"object", `{"a":1}`, JSONList{}},
		{"scalar", `42`, JSONList{}},
		{"empty string", "", JSONList{}},
		{"escape artifacts", `[\"Bata os ovos\",\"Frite\"]`, JSONList{"Bata os ovos", "Frite"}},
		{"double encoded", `"[\"a\",\"b\"]"`, JSONList{"a", "b"}},
		{"mixed scalars", `["a", 2, true, null, {"x":1}]`, JSONList{"a", "2", "true"}},
		{"structured strings", []string{"x", "y"}, JSONList{"x", "y"}},
		{"structured any", []interface{}{"x", 1.5}, JSONList{"x", "1.5"}},
		{"unsupported type", 12, JSONList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l JSONList
			err := l.Scan(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, l)
		})
	}
}

func TestJSONList_Value(t *testing.T) {
	v, err := JSONList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = JSONList{"a", `say "hi"`}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","say \"hi\""]`, v)

	var back JSONList
	require.NoError(t, back.Scan(v))
	assert.Equal(t, JSONList{"a", `say "hi"`}, back)
}

func TestNumber_Scan(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected Number
	}{
		{"float", 12.5, 12.5},
		{"int64", int64(200), 200},
		{"numeric text", "15", 15},
		{"numeric bytes", []byte("1.25"), 1.25},
		{"garbage", "abc", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, n.Scan(tt.input))
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "recipes", RecipeRow{}.TableName())
	assert.Equal(t, "comments", CommentRow{}.TableName())
}
