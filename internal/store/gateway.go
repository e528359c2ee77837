package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tartampluch/go-wishly/internal/cipher"
	"github.com/tartampluch/go-wishly/internal/codec"
	"github.com/tartampluch/go-wishly/internal/config"
	"github.com/tartampluch/go-wishly/internal/model"
)

// Gateway is the only writer of persisted birthday state. Load runs the
// decrypt -> legacy-plaintext -> empty fallback chain; Save overwrites
// the full collection on every call (no deltas, last write wins).
type Gateway struct {
	kv     *KV
	cipher *cipher.Cipher
	log    *slog.Logger
}

// NewGateway wires a Gateway over an open store and cipher.
func NewGateway(kv *KV, c *cipher.Cipher) *Gateway {
	return &Gateway{
		kv:     kv,
		cipher: c,
		log:    slog.With(config.LogKeyComponent, config.CompGateway),
	}
}

// Load reads the stored collection. It never returns an error: a missing
// key yields an empty collection, and any decode failure falls through
// the chain (decrypt, then raw legacy parse, then empty). Losing
// unreadable data beats a crash loop at startup.
func (g *Gateway) Load() []model.Birthday {
	raw, ok, err := g.kv.Get(config.KeyData)
	if err != nil {
		g.log.Error(config.ErrDecodeFallback, config.LogKeyError, err)
		return []model.Birthday{}
	}
	if !ok || raw == "" {
		g.log.Debug(config.MsgLoadedEmpty)
		return []model.Birthday{}
	}

	payload := g.cipher.Decrypt(raw)
	legacy := payload == nil
	if legacy {
		// Pre-encryption databases stored the JSON array directly.
		payload = json.RawMessage(raw)
	}

	records := codec.Decompress(payload)
	if records == nil {
		g.log.Warn(config.ErrDecodeFallback)
		return []model.Birthday{}
	}

	msg := config.MsgLoadedModern
	if legacy {
		msg = config.MsgLoadedLegacy
	}
	g.log.Info(msg, config.LogKeyCount, len(records), config.LogKeyRevision, g.Revision())
	return records
}

// Save compresses, encrypts and overwrites the stored collection, then
// advances the revision stamp. The stamp does not guard writes; it makes
// any future write reordering observable in the logs.
func (g *Gateway) Save(records []model.Birthday) error {
	wire := codec.Compress(records)
	enc, err := g.cipher.Encrypt(wire)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSaveFailed, err)
	}
	if err := g.kv.Set(config.KeyData, enc); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSaveFailed, err)
	}

	rev := g.Revision() + 1
	if err := g.kv.Set(config.KeyRevision, strconv.FormatInt(rev, 10)); err != nil {
		g.log.Warn(config.ErrStoreWrite, config.LogKeyError, err)
	}

	g.log.Info(config.MsgSaved, config.LogKeyCount, len(records), config.LogKeyRevision, rev)
	return nil
}

// Revision returns the current revision stamp, 0 when unset or unreadable.
func (g *Gateway) Revision() int64 {
	raw, ok, err := g.kv.Get(config.KeyRevision)
	if err != nil || !ok {
		return 0
	}
	rev, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return rev
}

// ClearData removes the stored collection and revision stamp. Profile and
// theme entries are left untouched.
func (g *Gateway) ClearData() error {
	if err := g.kv.Delete(config.KeyData); err != nil {
		return err
	}
	if err := g.kv.Delete(config.KeyRevision); err != nil {
		return err
	}
	g.log.Info(config.MsgCleared)
	return nil
}

// Profile returns the onboarded user profile, if one is stored. Profile
// fields are plain key/value entries and are not encrypted.
func (g *Gateway) Profile() (model.Profile, bool) {
	name, ok, err := g.kv.Get(config.KeyUserName)
	if err != nil || !ok || name == "" {
		return model.Profile{}, false
	}
	dob, _, _ := g.kv.Get(config.KeyUserDOB)
	return model.Profile{Name: name, DOB: dob}, true
}

// SaveProfile stores the user profile.
func (g *Gateway) SaveProfile(p model.Profile) error {
	if err := g.kv.Set(config.KeyUserName, p.Name); err != nil {
		return err
	}
	return g.kv.Set(config.KeyUserDOB, p.DOB)
}

// ClearProfile removes the user profile (logout).
func (g *Gateway) ClearProfile() error {
	if err := g.kv.Delete(config.KeyUserName); err != nil {
		return err
	}
	return g.kv.Delete(config.KeyUserDOB)
}

// Theme returns the stored theme preference, defaulting to light.
func (g *Gateway) Theme() string {
	theme, ok, err := g.kv.Get(config.KeyTheme)
	if err != nil || !ok || theme != config.ThemeDark {
		return config.ThemeLight
	}
	return config.ThemeDark
}

// SetTheme stores the theme preference.
func (g *Gateway) SetTheme(theme string) error {
	return g.kv.Set(config.KeyTheme, theme)
}

// LoadGifts reads the stored gift ideas. Gift ideas are plain JSON (the
// original never minified or encrypted them); unreadable data yields an
// empty list.
func (g *Gateway) LoadGifts() []model.GiftIdea {
	raw, ok, err := g.kv.Get(config.KeyGifts)
	if err != nil || !ok || raw == "" {
		return []model.GiftIdea{}
	}
	var gifts []model.GiftIdea
	if err := json.Unmarshal([]byte(raw), &gifts); err != nil {
		g.log.Warn(config.MsgGiftsLoadFailed, config.LogKeyError, err)
		return []model.GiftIdea{}
	}
	return gifts
}

// SaveGifts overwrites the stored gift ideas.
func (g *Gateway) SaveGifts(gifts []model.GiftIdea) error {
	raw, err := json.Marshal(gifts)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	return g.kv.Set(config.KeyGifts, string(raw))
}
