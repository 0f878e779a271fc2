package spec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("full spec", func(t *testing.T) {
		yaml := `
name: engagement
variants:
  - label: original
    file: queries/original.sql
  - label: optimized
    query: "SELECT 1"
scenarios:
  sample_limit: 50
  government_id: 108
runs:
  warmup: 1
  iterations: 3
  timeout_seconds: 30
output:
  dir: out
  prefix: engagement
required_tables: [project, vendor]
`
		s, err := Parse([]byte(yaml))
		require.NoError(t, err)
		assert.Equal(t, "engagement", s.Name)
		assert.Equal(t, "queries/original.sql", s.Variants[0].File)
		assert.Equal(t, "SELECT 1", s.Variants[1].Query)
		assert.Equal(t, 50, s.Scenarios.SampleLimit)
		require.NotNil(t, s.Scenarios.GovernmentID)
		assert.Equal(t, int64(108), *s.Scenarios.GovernmentID)
		assert.Equal(t, 3, s.Runs.Iterations)
		assert.Equal(t, "out", s.Output.Dir)
		assert.Equal(t, []string{"project", "vendor"}, s.RequiredTables)
	})

	t.Run("defaults", func(t *testing.T) {
		yaml := `
variants:
  - label: a
    query: "SELECT 1"
  - label: b
    query: "SELECT 1"
`
		s, err := Parse([]byte(yaml))
		require.NoError(t, err)
		assert.Equal(t, 100, s.Scenarios.SampleLimit)
		assert.Equal(t, 5, s.Scenarios.DiscoveryLimit)
		assert.Nil(t, s.Scenarios.GovernmentID)
		assert.Equal(t, 1, s.Runs.Iterations)
		assert.Equal(t, ".", s.Output.Dir)
		assert.Equal(t, "public", s.Schema)
		assert.Equal(t, DefaultRequiredTables, s.RequiredTables)
	})

	t.Run("empty required tables disables the schema check", func(t *testing.T) {
		yaml := `
variants:
  - {label: a, query: "SELECT 1"}
  - {label: b, query: "SELECT 1"}
required_tables: []
`
		s, err := Parse([]byte(yaml))
		require.NoError(t, err)
		assert.NotNil(t, s.RequiredTables)
		assert.Empty(t, s.RequiredTables)
	})

	t.Run("null required tables keeps defaults", func(t *testing.T) {
		yaml := `
variants:
  - {label: a, query: "SELECT 1"}
  - {label: b, query: "SELECT 1"}
required_tables:
`
		s, err := Parse([]byte(yaml))
		require.NoError(t, err)
		assert.Equal(t, DefaultRequiredTables, s.RequiredTables)
	})

	t.Run("invalid", func(t *testing.T) {
		cases := map[string]string{
			"one variant": `
variants:
  - label: a
    query: "SELECT 1"`,
			"duplicate label": `
variants:
  - {label: a, query: "SELECT 1"}
  - {label: a, query: "SELECT 2"}`,
			"missing label": `
variants:
  - {query: "SELECT 1"}
  - {label: b, query: "SELECT 2"}`,
			"query and file": `
variants:
  - {label: a, query: "SELECT 1", file: a.sql}
  - {label: b, query: "SELECT 2"}`,
			"neither query nor file": `
variants:
  - {label: a}
  - {label: b, query: "SELECT 2"}`,
			"sample limit too large": `
variants:
  - {label: a, query: "SELECT 1"}
  - {label: b, query: "SELECT 2"}
scenarios:
  sample_limit: 1000000`,
			"negative warmup": `
variants:
  - {label: a, query: "SELECT 1"}
  - {label: b, query: "SELECT 2"}
runs:
  warmup: -1`,
			"bad yaml": `variants: [`,
		}
		for name, yaml := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := Parse([]byte(yaml))
				assert.Error(t, err)
			})
		}
	})
}

func TestLoadFromFile_ResolveVariants(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "queries"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "queries", "original.sql"), []byte("SELECT 1 AS project_id;\n"), 0644))

	specPath := filepath.Join(dir, "verify.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(`
variants:
  - label: original
    file: queries/original.sql
  - label: optimized
    query: "SELECT 1 AS project_id"
`), 0644))

	ls, err := LoadFromFile(specPath)
	require.NoError(t, err)
	assert.Equal(t, dir, ls.Dir)

	base, cand, err := ls.ResolveVariants()
	require.NoError(t, err)
	assert.Equal(t, "original", base.Label())
	assert.Equal(t, "SELECT 1 AS project_id", base.SQL())
	assert.Equal(t, "optimized", cand.Label())
}

func TestResolveVariants_MissingFile(t *testing.T) {
	ls := &LoadedSpec{
		Spec: &RunSpec{Variants: []VariantSource{
			{Label: "original", File: "nope.sql"},
			{Label: "optimized", Query: "SELECT 1"},
		}},
		Dir: t.TempDir(),
	}
	_, _, err := ls.ResolveVariants()
	assert.Error(t, err)
}
