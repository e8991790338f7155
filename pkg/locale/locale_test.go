package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ja", Normalize("ja"))
	assert.Equal(t, "en", Normalize(""))
	assert.Equal(t, "en", Normalize("tlh"))
	assert.Equal(t, "en", Normalize("EN"), "codes are case-sensitive; unknown falls back")
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, "Spanish", Language("es"))
	assert.Equal(t, "Arabic", Language("ar"))
	assert.Equal(t, "English", Language("nope"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Français", DisplayName("fr"))
	assert.Equal(t, "中文", DisplayName("zh"))
	assert.Equal(t, "English", DisplayName(""))
}

func TestSupportedSetIsClosed(t *testing.T) {
	assert.Len(t, Supported, 10)
}
