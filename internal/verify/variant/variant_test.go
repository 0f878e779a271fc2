package variant

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/query-verify/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("plain statement", func(t *testing.T) {
		v, err := New("original", "SELECT 1 AS project_id")
		require.NoError(t, err)
		assert.Equal(t, "original", v.Label())
		assert.Equal(t, "SELECT 1 AS project_id", v.SQL())
		assert.False(t, v.IsZero())
	})

	t.Run("trailing terminator and comment are stripped", func(t *testing.T) {
		v, err := New("original", "  SELECT 1;  -- done\n;\n")
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1", v.SQL())
		assert.Equal(t, "  SELECT 1;  -- done\n;\n", v.Text())
	})

	t.Run("semicolons inside literals and comments are ignored", func(t *testing.T) {
		text := "SELECT 'a;b' AS x, \"odd;name\" -- c;d\nFROM t /* e;f */ WHERE y = 'it''s'"
		v, err := New("original", text)
		require.NoError(t, err)
		assert.Equal(t, text, v.SQL())
	})

	t.Run("rejects", func(t *testing.T) {
		cases := map[string]string{
			"empty":               "   ",
			"only terminator":     ";",
			"two statements":      "SELECT 1; SELECT 2",
			"statement after ;":   "SELECT 1;\nDROP TABLE project",
			"unterminated quote":  "SELECT 'abc",
			"unterminated block":  "SELECT 1 /* never closed",
			"quoted after ;":      "SELECT 1; 'x'",
		}
		for name, text := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := New("optimized", text)
				require.Error(t, err)
				var ve *apperr.ValidationError
				assert.True(t, errors.As(err, &ve))
			})
		}
	})

	t.Run("empty label", func(t *testing.T) {
		_, err := New(" ", "SELECT 1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "label")
	})
}

func TestBuiltin(t *testing.T) {
	orig, opt, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, OriginalLabel, orig.Label())
	assert.Equal(t, OptimizedLabel, opt.Label())

	for _, v := range []Variant{orig, opt} {
		assert.True(t, strings.HasPrefix(v.SQL(), "WITH engaged_orgs AS"))
		for _, col := range []string{"project_id", "vendor_name", "followed", "downloaded", "applied", "no_bid", "submitted"} {
			assert.Contains(t, v.SQL(), col)
		}
	}
	assert.Contains(t, opt.SQL(), "project_engagements")
	assert.NotContains(t, orig.SQL(), "project_engagements")
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "candidate.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT * FROM project;\n"), 0644))

	v, err := FromFile("candidate", path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM project", v.SQL())

	_, err = FromFile("missing", filepath.Join(dir, "nope.sql"))
	assert.Error(t, err)
}
