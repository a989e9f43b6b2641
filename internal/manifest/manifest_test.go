package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const fullManifest = `
framework_version = [22, 11, 0]

module "reader" {
  type      = "SourceModule"
  namespace = "unittest"
  config = {
    values = ["a", "b"]
    repeat = 2
  }
}

module "plain" {
  type = "NoOp"
}

retire "SimpleModule" {
  namespace = "unittest"
  optional  = true
}

retire "Legacy" {}
`

func TestParse(t *testing.T) {
	m, err := Parse(context.Background(), "main.hcl", []byte(fullManifest))
	require.NoError(t, err)

	require.True(t, m.HasFrameworkVersion())
	assert.Equal(t, 3, m.FrameworkVersion.LengthInt())
	assert.Equal(t, []string{"main.hcl"}, m.Files)

	require.Len(t, m.Modules, 2)
	reader := m.Modules[0]
	assert.Equal(t, "reader", reader.InstanceName)
	assert.Equal(t, "SourceModule", reader.Type)
	assert.True(t, reader.Namespace.RawEquals(cty.StringVal("unittest")))
	assert.True(t, reader.Config.Type().IsObjectType())
	assert.True(t, reader.Config.GetAttr("repeat").RawEquals(cty.NumberIntVal(2)))

	plain := m.Modules[1]
	assert.True(t, plain.Namespace.IsNull())
	assert.True(t, plain.Config.IsNull())

	require.Len(t, m.Retirements, 2)
	args := m.Retirements[0].Args()
	require.Len(t, args, 2)
	assert.True(t, args[0].RawEquals(cty.StringVal("unittest")))
	assert.True(t, args[1].RawEquals(cty.True))
	assert.Nil(t, m.Retirements[1].Args())
}

func TestParse_KeepsWrongTypesForBinding(t *testing.T) {
	m, err := Parse(context.Background(), "main.hcl", []byte(`
framework_version = "22.11.0"

retire "SimpleModule" {
  namespace = false
}
`))
	require.NoError(t, err)
	assert.True(t, m.FrameworkVersion.RawEquals(cty.StringVal("22.11.0")))
	args := m.Retirements[0].Args()
	require.Len(t, args, 1)
	assert.True(t, args[0].RawEquals(cty.False))
}

func TestRetireBlock_Args(t *testing.T) {
	r := &RetireBlock{Name: "x", Namespace: cty.NullVal(cty.String), Optional: cty.True}
	args := r.Args()
	require.Len(t, args, 2)
	assert.True(t, args[0].RawEquals(cty.StringVal(registry.DefaultNamespace)))
	assert.True(t, args[1].RawEquals(cty.True))
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `module "a" {`,
			wantErr: "failed to parse manifest",
		},
		{
			name:    "missing type",
			src:     `module "a" { namespace = "x" }`,
			wantErr: "Missing 'type' attribute",
		},
		{
			name:    "empty type",
			src:     `module "a" { type = "" }`,
			wantErr: "Empty module type",
		},
		{
			name: "duplicate module",
			src: `
module "a" { type = "X" }
module "a" { type = "Y" }
`,
			wantErr: "Duplicate module block",
		},
		{
			name: "unknown attribute",
			src: `
module "a" {
  type  = "X"
  bogus = 1
}
`,
			wantErr: "Unsupported argument",
		},
		{
			name:    "unknown block",
			src:     `step "a" {}`,
			wantErr: "Unsupported block type",
		},
		{
			name:    "variable reference",
			src:     `module "a" { type = var.x }`,
			wantErr: "Variables not allowed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(context.Background(), "main.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("a.hcl", `framework_version = [22, 11, 0]
module "first" { type = "A" }`)
	write("nested/b.hcl", `module "second" { type = "B" }`)
	write("ignored.txt", `not hcl`)

	m, err := Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, m.Modules, 2)
	assert.Equal(t, "first", m.Modules[0].InstanceName)
	assert.Equal(t, "second", m.Modules[1].InstanceName)
	assert.Len(t, m.Files, 2)

	t.Run("duplicates across files", func(t *testing.T) {
		write("c.hcl", `framework_version = [22, 11, 0]
module "first" { type = "C" }`)
		_, err := Load(context.Background(), dir)
		require.Error(t, err)
		assert.ErrorContains(t, err, "Duplicate framework_version")
		assert.ErrorContains(t, err, "Duplicate module block")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(dir, "nope"))
		assert.Error(t, err)
	})

	t.Run("empty directory", func(t *testing.T) {
		m, err := Load(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, m.Modules)
		assert.False(t, m.HasFrameworkVersion())
	})
}
