package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-wishly/internal/config"
)

// TestI18nIntegrity ensures that every translation key defined in
// config.go exists in every embedded locale file, and that the locale
// files agree on their key sets.
func TestI18nIntegrity(t *testing.T) {
	keysToCheck := []string{
		config.TKeyNotifTitle,
		config.TKeyNotifBody,
		config.TKeyShareToday,
		config.TKeyShareDays,
		config.TKeyChannelName,
		config.TKeyChannelDesc,
	}

	keySets := make(map[string]map[string]bool)
	for _, lang := range config.SupportedLanguages {
		content, err := localeFS.ReadFile("locales/active." + lang + ".json")
		require.NoErrorf(t, err, "locale %q must be embedded", lang)

		var jsonMap map[string]interface{}
		require.NoErrorf(t, json.Unmarshal(content, &jsonMap), "locale %q must be valid JSON", lang)

		keys := make(map[string]bool, len(jsonMap))
		for k := range jsonMap {
			keys[k] = true
		}
		keySets[lang] = keys

		for _, k := range keysToCheck {
			assert.Truef(t, keys[k], "key %q defined in config.go is missing in active.%s.json", k, lang)
		}
	}

	// Every locale must define exactly the same keys as English.
	en := keySets["en"]
	for lang, keys := range keySets {
		assert.Equalf(t, en, keys, "locale %q diverges from the English key set", lang)
	}
}

func TestTranslator(t *testing.T) {
	tr := New("en")
	assert.ElementsMatch(t, []string{"en", "es"}, tr.Langs)

	assert.Equal(t, "It's today! 🎂", tr.Msg(config.TKeyNotifTitle))
	assert.Contains(t, tr.MsgData(config.TKeyNotifBody, map[string]any{"Name": "Alice"}), "Alice")
}

func TestTranslator_Spanish(t *testing.T) {
	tr := New("es")
	assert.Equal(t, "¡Es hoy! 🎂", tr.Msg(config.TKeyNotifTitle))
}

// TestTranslator_Fallbacks: unknown languages fall back to English and
// unknown keys come back verbatim so callers always have text.
func TestTranslator_Fallbacks(t *testing.T) {
	tr := New("fr")
	assert.Equal(t, "It's today! 🎂", tr.Msg(config.TKeyNotifTitle))

	assert.Equal(t, "no_such_key", tr.Msg("no_such_key"))

	assert.Equal(t, "It's today! 🎂", New("").Msg(config.TKeyNotifTitle), "empty language uses the default")
}
