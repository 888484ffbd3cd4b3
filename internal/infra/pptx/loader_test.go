package pptx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "templates", "Company Template.pptx")
	loader := NewLoader(defaultPath, discardLogger())

	t.Run("missing default falls back to built-in", func(t *testing.T) {
		tmpl, err := loader.Load(defaultPath)
		require.NoError(t, err)
		assert.Len(t, tmpl.Layouts(), 6)
	})

	t.Run("missing explicit template is an error", func(t *testing.T) {
		_, err := loader.Load(filepath.Join(dir, "other.pptx"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("existing template", func(t *testing.T) {
		blank, err := NewBlankTemplate()
		require.NoError(t, err)
		path := filepath.Join(dir, "custom.pptx")
		require.NoError(t, blank.Save(path))

		tmpl, err := loader.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "Title Slide", tmpl.Layouts()[0].Name)
	})

	t.Run("corrupt default is an error", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Dir(defaultPath), 0o755))
		require.NoError(t, os.WriteFile(defaultPath, []byte("garbage"), 0o644))

		_, err := loader.Load(defaultPath)
		assert.ErrorIs(t, err, ErrNotPresentation)
	})
}
