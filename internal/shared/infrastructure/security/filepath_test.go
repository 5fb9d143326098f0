package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilePath(t *testing.T) {
	t.Run("rejects empty path", func(t *testing.T) {
		_, err := ValidateFilePath("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("rejects dangerous shell characters", func(t *testing.T) {
		for _, char := range dangerousChars {
			path := "/tmp/session" + char + "db"
			_, err := ValidateFilePath(path)
			assert.Error(t, err, "expected error for character %q", char)
			assert.Contains(t, err.Error(), "forbidden character")
		}
	})

	t.Run("resolves existing file", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbFile := filepath.Join(tmpDir, "session.db")
		require.NoError(t, os.WriteFile(dbFile, []byte{}, 0o644))

		result, err := ValidateFilePath(dbFile)
		require.NoError(t, err)

		// /var is a symlink on macOS, so compare resolved paths
		expected, _ := filepath.EvalSymlinks(dbFile)
		assert.Equal(t, expected, result)
	})

	t.Run("keeps missing file as cleaned path", func(t *testing.T) {
		tmpDir := t.TempDir()
		missing := filepath.Join(tmpDir, "nested", "..", "session.db")

		result, err := ValidateFilePath(missing)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmpDir, "session.db"), result)
	})

	t.Run("makes relative path absolute", func(t *testing.T) {
		result, err := ValidateFilePath("does-not-exist.db")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(result))
		assert.Equal(t, "does-not-exist.db", filepath.Base(result))
	})
}
