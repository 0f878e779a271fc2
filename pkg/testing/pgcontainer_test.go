package testing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitScript(t *testing.T) {
	script, err := initScript(false)
	require.NoError(t, err)
	for _, table := range []string{"organization", "project", "vendor", `"user"`, "proposal", "project_vendor_user_subscriptions", "project_user_downloads"} {
		assert.Contains(t, script, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.NotContains(t, script, "INSERT INTO")

	seeded, err := initScript(true)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(seeded, EngagementFixture))
}
