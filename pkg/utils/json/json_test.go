package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSortsKeys(t *testing.T) {
	data, err := Marshal(map[string]interface{}{"b": 1, "a": "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1}`, string(data))
}

func TestMarshalIndent(t *testing.T) {
	data, err := MarshalIndent(map[string]interface{}{"a": 1}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(data))
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(map[string]interface{}{"n": nil}))
	assert.Equal(t, "{\"n\":null}\n", buf.String())
}

func TestLooksLikeObject(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`{"a":1}`, true},
		{"  {", true},
		{"[1,2]", false},
		{"5", false},
		{"", false},
		{"true", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LooksLikeObject(tt.in), tt.in)
	}
}

func TestDecodeObject(t *testing.T) {
	obj, err := DecodeObject(`{"age": {"$in": [1, 2]}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"age": map[string]interface{}{"$in": []interface{}{float64(1), float64(2)}},
	}, obj)

	_, err = DecodeObject(`[1, 2]`)
	assert.Error(t, err)

	_, err = DecodeObject(`{"broken": `)
	assert.Error(t, err)
}
