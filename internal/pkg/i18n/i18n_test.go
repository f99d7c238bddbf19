package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTranslations(t *testing.T) {
	require.NoError(t, LoadTranslations(filepath.Join("..", "..", "..", "locales")))

	assert.Equal(t, "That comment no longer exists.", Translate("en", "COMMENT_NOT_FOUND"))
	assert.Equal(t, "Komentar tersebut sudah tidak ada.", Translate("id", "COMMENT_NOT_FOUND"))
	assert.Equal(t, Translate("en", "INVALID_BODY"), Translate("fr", "INVALID_BODY"))
	assert.Equal(t, "NO_SUCH_KEY", Translate("id", "NO_SUCH_KEY"))
}

func TestLoadTranslations_Errors(t *testing.T) {
	assert.Error(t, LoadTranslations(filepath.Join(t.TempDir(), "missing")))

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "xx"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xx", "comments.yaml"), []byte("MESSAGES: [broken"), 0o644))
	assert.Error(t, LoadTranslations(dir))
}

func TestNegotiate(t *testing.T) {
	require.NoError(t, LoadTranslations(filepath.Join("..", "..", "..", "locales")))

	assert.Equal(t, "id", Negotiate("id-ID,id;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", Negotiate("fr-FR, en-US;q=0.7"))
	assert.Equal(t, "en", Negotiate("de"))
	assert.Equal(t, DefaultLocale, Negotiate(""))
}
