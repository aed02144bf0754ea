package migration

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)

	count := 0
	for {
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "up %d", version)
		body, err := io.ReadAll(up)
		require.NoError(t, err)
		_ = up.Close()
		assert.Contains(t, string(body), "CREATE TABLE", "up %d", version)

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "down %d", version)
		_ = down.Close()

		count++
		next, err := src.Next(version)
		if err != nil {
			break
		}
		version = next
	}
	assert.Equal(t, 5, count)
}

func TestJSONColumnsHaveDefaults(t *testing.T) {
	data, err := embeddedMigrations.ReadFile("sql/000005_work_orders.up.sql")
	require.NoError(t, err)
	body := string(data)
	assert.True(t, strings.Contains(body, "labor_blocks JSONB NOT NULL DEFAULT '[]'::jsonb"))
	assert.True(t, strings.Contains(body, "totals JSONB NOT NULL DEFAULT '{}'::jsonb"))
}
