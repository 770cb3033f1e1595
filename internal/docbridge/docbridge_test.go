package docbridge

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kart-io/docbridge/pkg/errors"
	"github.com/kart-io/docbridge/pkg/utils/json"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	a := NewApp()
	var out bytes.Buffer
	cmd := a.Command()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := a.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string) map[string]interface{} {
	t.Helper()

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	return got
}

func TestParseArgs(t *testing.T) {
	values, err := ParseArgs([]string{"a=1", "tags__in=x", "tags__in=y", "expr=b=c", "empty="})
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, values.All("a"))
	assert.Equal(t, []string{"x", "y"}, values.All("tags__in"))
	assert.Equal(t, []string{"b=c"}, values.All("expr"))
	assert.Equal(t, []string{""}, values.All("empty"))
}

func TestParseArgsMalformed(t *testing.T) {
	for _, arg := range []string{"novalue", "=x"} {
		t.Run(arg, func(t *testing.T) {
			_, err := ParseArgs([]string{arg})
			assert.True(t, errors.Is(err, errors.ErrMalformedQuery))
		})
	}
}

func TestTranslateCommand(t *testing.T) {
	out, err := execute(t, "translate", "age__ne=5", "tags__in=a,b", "tags__in=c", "active=true", "limit=10")
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"age":    map[string]interface{}{"$ne": "5"},
		"tags":   map[string]interface{}{"$in": []interface{}{"a", "b", "c"}},
		"active": true,
	}, decode(t, out))
}

func TestTranslateCommandRaw(t *testing.T) {
	out, err := execute(t, "translate", "--raw", "name__exists=false&size__size=3", "owner=ops")
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"name":  map[string]interface{}{"$exists": false},
		"size":  map[string]interface{}{"$size": "3"},
		"owner": "ops",
	}, decode(t, out))
}

func TestTranslateCommandSeparatorFlag(t *testing.T) {
	out, err := execute(t, "translate", "--filter.separator=::", "age::ne=5")
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"age": map[string]interface{}{"$ne": "5"},
	}, decode(t, out))
}

func TestTranslateCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want *errors.Errno
	}{
		{name: "bad argument", args: []string{"translate", "novalue"}, want: errors.ErrMalformedQuery},
		{name: "bad json", args: []string{"translate", "a={bad"}, want: errors.ErrMalformedQuery},
		{name: "logical operator", args: []string{"translate", "a__or=1"}, want: errors.ErrUnsupportedModifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestInvalidConfigRejectedBeforeRun(t *testing.T) {
	_, err := execute(t, "translate", "--mongodb.database=bad.name", "a=1")
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig), "got %v", err)
}

func TestOptionsDefaultsValid(t *testing.T) {
	opts := NewOptions()
	require.NoError(t, opts.Complete())
	require.NoError(t, opts.Validate())
}

func TestCommandsRegistered(t *testing.T) {
	cmd := NewApp().Command()

	for _, name := range []string{"translate", "find", "count", "get", "delete", "ping", "files"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, name := range []string{"put", "get", "ls", "last", "rm"} {
		sub, _, err := cmd.Find([]string{"files", name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"mongodb.host", "mongodb.max-retries", "filter.separator", "log.level", "config"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestPrintDocuments(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("65f1c0a2e4b0a1b2c3d4e5f6")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printDocuments(&out, bson.M{"_id": id}, bson.M{"n": int32(2)}))

	assert.Equal(t, "{\"_id\":{\"$oid\":\"65f1c0a2e4b0a1b2c3d4e5f6\"}}\n{\"n\":2}\n", out.String())
}
