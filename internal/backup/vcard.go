package backup

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/tartampluch/go-wishly/internal/config"
	"github.com/tartampluch/go-wishly/internal/model"
)

// ImportVCF extracts birthday records from a vCard stream. Cards without
// a parseable BDAY are skipped (logged, not fatal); a malformed card is
// likewise skipped to maximize recovery from real-world exports.
func ImportVCF(r io.Reader) ([]model.Birthday, error) {
	log := slog.With(config.LogKeyComponent, config.CompBackup)
	decoder := vcard.NewDecoder(r)

	var records []model.Birthday
	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			continue
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			log.Debug(config.MsgSkippedDate, config.LogKeyValue, bday.Value)
			continue
		}

		// Name strategy: FN (formatted) > N (structured) > skip.
		var name string
		if fn := card.Get(config.VCardFN); fn != nil {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil {
			name = n.Value
		}
		if name == "" {
			log.Debug(config.MsgSkippedCard)
			continue
		}

		b := model.Birthday{
			ID:    model.NewID(),
			Name:  name,
			Day:   birthDate.Day(),
			Month: int(birthDate.Month()),
		}
		if yearKnown {
			y := birthDate.Year()
			b.Year = &y
		}
		records = append(records, b)
	}

	if len(records) == 0 {
		return nil, errors.New(config.ErrImportEmpty)
	}
	return records, nil
}

// parseDate handles the vCard BDAY formats seen in the wild, including
// the year-less --MM-DD truncations.
func parseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated dates parse against a leap year so Feb 29 stays valid.
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safe := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safe, false, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}
