// Package codec converts between the full Birthday shape and the compact
// short-keyed wire form used for storage. Decompress also recognizes the
// legacy pre-compression format (full field names) and passes it through
// unchanged, so databases written by old versions keep loading.
package codec

import (
	"encoding/json"

	"github.com/tartampluch/go-wishly/internal/model"
)

// Wire is the minified storage projection of a Birthday. Optional fields
// use omitempty so an absent value never serializes a key; Year stays a
// pointer so that "unknown" survives the round trip instead of becoming 0.
type Wire struct {
	I string `json:"i"`
	N string `json:"n"`
	D int    `json:"d"`
	M int    `json:"m"`
	Y *int   `json:"y,omitempty"`
	T string `json:"t,omitempty"` // notes
	G string `json:"g,omitempty"` // gift idea
	C string `json:"c,omitempty"` // category
}

// legacyProbeKey identifies the old full-shape format: the first element
// of a legacy array always carries a "name" field, the compact form never
// does.
const legacyProbeKey = "name"

// Compress maps records to their wire form.
func Compress(records []model.Birthday) []Wire {
	out := make([]Wire, len(records))
	for i, b := range records {
		out[i] = Wire{
			I: b.ID,
			N: b.Name,
			D: b.Day,
			M: b.Month,
			Y: b.Year,
			T: b.Notes,
			G: b.GiftIdea,
			C: string(b.Category),
		}
	}
	return out
}

// Expand maps wire records back to the full shape. Absent optional keys
// stay absent: a missing "y" comes back as a nil Year, never zero.
func Expand(wire []Wire) []model.Birthday {
	out := make([]model.Birthday, len(wire))
	for i, w := range wire {
		out[i] = model.Birthday{
			ID:       w.I,
			Name:     w.N,
			Day:      w.D,
			Month:    w.M,
			Year:     w.Y,
			Notes:    w.T,
			GiftIdea: w.G,
			Category: model.Category(w.C),
		}
	}
	return out
}

// Decompress parses a stored payload. It fails safe: anything that is not
// a JSON array yields an empty collection rather than an error, because a
// corrupted store must never block startup.
func Decompress(raw []byte) []model.Birthday {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	if len(items) == 0 {
		return []model.Birthday{}
	}

	if IsLegacyShape(items[0]) {
		var records []model.Birthday
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil
		}
		return records
	}

	var wire []Wire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil
	}
	return Expand(wire)
}

// IsLegacyShape reports whether a serialized element uses the full
// (pre-compression) field names.
func IsLegacyShape(element json.RawMessage) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(element, &probe); err != nil {
		return false
	}
	_, ok := probe[legacyProbeKey]
	return ok
}
