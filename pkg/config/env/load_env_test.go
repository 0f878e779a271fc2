package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	t.Run("loads from ENV_PATH without overriding", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("DB_NAME=from_file\nDB_HOST=file-host\n"), 0644))
		t.Setenv("ENV_PATH", path)
		t.Setenv("DB_HOST", "preset")
		t.Setenv("DB_NAME", "")
		require.NoError(t, os.Unsetenv("DB_NAME"))

		require.NoError(t, LoadDotEnv("local", "unused"))
		assert.Equal(t, "from_file", os.Getenv("DB_NAME"))
		assert.Equal(t, "preset", os.Getenv("DB_HOST"))
	})

	t.Run("missing file is an error locally", func(t *testing.T) {
		t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, LoadDotEnv("", "unused"))
		assert.Error(t, LoadDotEnv("local", "unused"))
	})

	t.Run("missing file is skipped elsewhere", func(t *testing.T) {
		t.Setenv("ENV_PATH", "")
		assert.NoError(t, LoadDotEnv("ci", filepath.Join(t.TempDir(), "missing.env")))
	})
}
