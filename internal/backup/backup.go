// Package backup implements the manual export/import formats: a
// human-readable JSON array of full records, the compact wire form
// (accepted on import for files produced from the raw store), vCard
// contact import and an iCalendar export of the reminder schedule.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tartampluch/go-wishly/internal/codec"
	"github.com/tartampluch/go-wishly/internal/config"
	"github.com/tartampluch/go-wishly/internal/i18n"
	"github.com/tartampluch/go-wishly/internal/model"
	"github.com/tartampluch/go-wishly/internal/notify"
)

// Export writes the collection as an indented JSON array of full
// records. This is the backup format: readable, and diffable across
// backups.
func Export(w io.Writer, records []model.Birthday) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// Import parses a backup file. Both the full form and the compact wire
// form are accepted; the shapes are disambiguated by the presence of a
// "name" key on the first element. Unlike the load path, import is
// strict: a malformed file or an invalid record is an error and must not
// replace any state.
func Import(r io.Reader) ([]model.Birthday, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrImportParse, err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrImportParse, err)
	}
	if len(items) == 0 {
		return nil, errors.New(config.ErrImportEmpty)
	}

	var records []model.Birthday
	if codec.IsLegacyShape(items[0]) {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrImportParse, err)
		}
	} else {
		var wire []codec.Wire
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrImportParse, err)
		}
		records = codec.Expand(wire)
	}

	for i := range records {
		if records[i].ID == "" {
			records[i].ID = model.NewID()
		}
		if err := records[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s: %q: %w", config.ErrImportInvalid, records[i].Name, err)
		}
	}
	return records, nil
}

// ExportICS renders the collection's reminder schedule as an iCalendar
// file, reusing the feed renderer so the exported file matches what the
// local server serves.
func ExportICS(w io.Writer, records []model.Birthday, now time.Time, tr *i18n.Translator) error {
	reqs := make([]notify.Request, 0, len(records))
	for _, b := range records {
		reqs = append(reqs, notify.BuildRequest(now, b, tr))
	}
	data, err := notify.RenderCalendar(reqs)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
