package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type target struct {
	Database   string `json:"database" validate:"dbname"`
	Collection string `json:"collection" validate:"collname"`
	Host       string `json:"host" validate:"required,nowhitespace"`
	Port       int    `json:"port" validate:"min=1,max=65535"`
}

func TestValidDBName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"test_db", true},
		{"a", true},
		{"", false},
		{"has.dot", false},
		{"has space", false},
		{"dollar$", false},
		{"slash/", false},
		{strings.Repeat("x", 64), false},
		{strings.Repeat("x", 63), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidDBName(tt.name))
		})
	}
}

func TestValidCollName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"test_col", true},
		{"fs.files", true},
		{"", false},
		{"system.users", false},
		{"a$b", false},
		{"nul\x00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCollName(tt.name))
		})
	}
}

func TestStruct(t *testing.T) {
	ok := target{Database: "db", Collection: "col", Host: "localhost", Port: 27017}
	assert.Nil(t, Struct(&ok))

	bad := target{Database: "bad.db", Collection: "system.x", Host: "local host", Port: 0}
	errs := Struct(&bad)
	require.NotNil(t, errs)
	assert.Equal(t, 4, errs.Count())

	byField := errs.ByField()
	assert.Contains(t, byField, "database")
	assert.Contains(t, byField, "collection")
	assert.Contains(t, byField, "host")
	assert.Contains(t, byField, "port")
	assert.Contains(t, errs.ForField("database")[0], "valid database name")
}

func TestValidateWithLang_Chinese(t *testing.T) {
	bad := target{Database: "", Collection: "c", Host: "h", Port: 1}
	errs := New().ValidateWithLang(&bad, LangZH)
	require.NotNil(t, errs)
	assert.Equal(t, "database", errs.FirstField())
	assert.Contains(t, errs.First(), "数据库名称")
}

func TestValidationErrors_Nil(t *testing.T) {
	var errs *ValidationErrors
	assert.Equal(t, "", errs.Error())
	assert.Equal(t, 0, errs.Count())
	assert.False(t, errs.HasErrors())
	assert.Nil(t, errs.Messages())
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("orders", TagCollName))
	assert.Error(t, Var("system.profile", TagCollName))
}
