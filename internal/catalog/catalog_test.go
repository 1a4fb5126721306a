package catalog

import (
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/internal/sqltype"
)

func checkSample(t *testing.T, c *Catalog) {
	t.Helper()

	assert.Equal(t, []string{"events", "users"}, c.Tables())

	users, ok := c.Table("users")
	require.True(t, ok)
	assert.Equal(t, "users", users.Name())
	require.Len(t, users.Columns(), 6)

	age, ok := users.Column("age")
	require.True(t, ok)
	assert.Equal(t, sqltype.Integer, age.Type)
	assert.Equal(t, "integer", age.Signature.String())

	events, ok := c.Table("events")
	require.True(t, ok)
	payload, ok := events.Column("payload")
	require.True(t, ok)
	// Parameterized signatures keep their shape; only the base resolves.
	assert.Equal(t, sqltype.JSON, payload.Type)
	assert.Equal(t, "map(varchar,bigint)", payload.Signature.String())

	_, ok = users.Column("missing")
	assert.False(t, ok)

	types := users.Types()
	assert.Equal(t, sqltype.Bigint, types["id"])
	assert.Equal(t, sqltype.Varchar, types["name"])
}

func TestLoadCUE(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "schema.cue"))
	require.NoError(t, err)
	checkSample(t, c)
}

func TestLoadYAML(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "schema.yaml"))
	require.NoError(t, err)
	checkSample(t, c)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load("schema.toml")
	require.Error(t, err)
}

func TestCompileCUEErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{
			name:    "missing tables",
			src:     `other: 1`,
			wantMsg: "tables is required",
		},
		{
			name:    "empty tables",
			src:     `tables: {}`,
			wantMsg: "at least one table is required",
		},
		{
			name:    "missing columns",
			src:     `tables: users: {comment: "no columns"}`,
			wantMsg: "columns are required",
		},
		{
			name:    "empty columns",
			src:     `tables: users: columns: {}`,
			wantMsg: "at least one column is required",
		},
		{
			name:    "non-string column type",
			src:     `tables: users: columns: id: 42`,
			wantMsg: "signature string",
		},
		{
			name:    "unknown base type",
			src:     `tables: users: columns: id: "decimal"`,
			wantMsg: `unknown type "decimal"`,
		},
		{
			name:    "malformed signature",
			src:     `tables: users: columns: id: "map(varchar"`,
			wantMsg: "map(varchar",
		},
	}

	ctx := cuecontext.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileCUE(ctx.CompileString(tt.src))
			require.Error(t, err)
			assert.True(t, IsCompileError(err), "want CompileError, got %T", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", "tables:\n  users:\n    columns:\n      id: bigint\n    extra: 1\n"},
		{"no tables", "tables: {}\n"},
		{"no columns", "tables:\n  users:\n    columns: {}\n"},
		{"unknown type", "tables:\n  users:\n    columns:\n      id: decimal\n"},
		{"not yaml", "tables: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.src))
			require.Error(t, err)
			assert.True(t, IsCompileError(err))
		})
	}
}

func TestCompileErrorPosition(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`tables: users: columns: id: "decimal"`)
	_, err := CompileCUE(v)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "tables.users.columns.id", ce.Field)
}
