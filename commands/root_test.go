package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCommand(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "test.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("ENV", "test")

	root := NewRootCmd()
	root.SetArgs([]string{"migrate"})

	require.NoError(t, root.Execute())
	assert.FileExists(t, dsn)
}

func TestUnknownProviderFailsBeforeServing(t *testing.T) {
	t.Setenv("AI_PROVIDER", "mystery")

	root := NewRootCmd()
	root.SetArgs([]string{"serve"})

	assert.Error(t, root.Execute())
}
