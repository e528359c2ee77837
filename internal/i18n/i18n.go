// Package i18n loads the embedded locale bundle and exposes a small
// translation helper used for notification text and share messages.
package i18n

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/tartampluch/go-wishly/internal/config"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves message keys for a single language, falling back
// to English and finally to the key itself.
type Translator struct {
	localizer *goi18n.Localizer
	Langs     []string
}

// New loads every embedded locale and returns a Translator for lang.
func New(lang string) *Translator {
	log := slog.With(config.LogKeyComponent, config.CompI18n)

	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		log.Error(config.ErrLocalesAccess, config.LogKeyError, err)
		return &Translator{}
	}

	var detected []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			log.Debug(config.MsgLocaleSkip, config.LogKeyFile, name)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			log.Warn(config.MsgLocaleBadName, config.LogKeyFile, name)
			continue
		}
		detected = append(detected, langCode)

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			log.Error(config.ErrLocaleLoad, config.LogKeyFile, name, config.LogKeyError, err)
			continue
		}
		log.Debug(config.MsgLocaleLoaded, config.LogKeyLang, langCode, config.LogKeyFile, name)
	}

	if lang == "" {
		lang = config.DefaultLanguage
	}

	return &Translator{
		localizer: goi18n.NewLocalizer(bundle, lang),
		Langs:     detected,
	}
}

// Msg translates a key without template data.
func (t *Translator) Msg(key string) string {
	return t.MsgData(key, nil)
}

// MsgData translates a key with template data. A missing key returns the
// key itself so callers always have something to display.
func (t *Translator) MsgData(key string, data map[string]any) string {
	if t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
