// Package model defines the domain types for Wishly.
package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/tartampluch/go-wishly/internal/config"
)

// Category classifies a contact. Stored as its display string.
type Category string

const (
	CategoryFamily  Category = "Family"
	CategoryFriends Category = "Friends"
	CategoryWork    Category = "Work"
	CategoryPartner Category = "Partner"
	CategoryOther   Category = "Other"
)

// Categories lists every valid Category in display order.
var Categories = []Category{
	CategoryFamily,
	CategoryFriends,
	CategoryWork,
	CategoryPartner,
	CategoryOther,
}

// GiftCategories are the suggested (non-enforced) gift idea categories.
var GiftCategories = []string{"For me", "Family", "Friends", "Partner", "Other"}

// ErrDayNotInMonth signals a (day, month) pair that exists in no calendar year.
var ErrDayNotInMonth = errors.New("day does not exist in that month")

// Birthday is a tracked contact birthday. Day and Month are 1-based; a nil
// Year means the age is unknown. The JSON field names are the backup file
// format and must stay stable.
type Birthday struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Day      int      `json:"day"`
	Month    int      `json:"month"`
	Year     *int     `json:"year,omitempty"`
	Notes    string   `json:"notes,omitempty"`
	GiftIdea string   `json:"giftIdea,omitempty"`
	Category Category `json:"category,omitempty"`
}

// NewID generates a fresh record identifier. Identifiers are opaque and
// never reused; the notification id is derived from them by hashing.
func NewID() string {
	return uuid.NewString()
}

// Validate checks the record against the rules enforced by the add flow.
func (b Birthday) Validate() error {
	err := validation.ValidateStruct(&b,
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.Name, validation.Required, validation.Length(1, config.MaxNameLen)),
		validation.Field(&b.Day, validation.Required, validation.Min(1), validation.Max(31)),
		validation.Field(&b.Month, validation.Required, validation.Min(1), validation.Max(12)),
		validation.Field(&b.Year, validation.Min(config.MinBirthYear), validation.Max(time.Now().Year())),
		validation.Field(&b.Category, validation.In(categoriesAsAny()...)),
	)
	if err != nil {
		return err
	}
	return b.validateCalendarDay()
}

// validateCalendarDay rejects pairs like Apr 31 that exist in no year.
// The probe year is a leap year so Feb 29 is accepted.
func (b Birthday) validateCalendarDay() error {
	d := time.Date(config.ProbeLeapYear, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
	if d.Day() != b.Day || d.Month() != time.Month(b.Month) {
		return ErrDayNotInMonth
	}
	return nil
}

// CategoryOrDefault returns the stored category, or Friends when absent.
// The default is applied on read so that an absent category round-trips
// as absent through storage and backups.
func (b Birthday) CategoryOrDefault() Category {
	if b.Category == "" {
		return CategoryFriends
	}
	return b.Category
}

func categoriesAsAny() []interface{} {
	out := make([]interface{}, len(Categories))
	for i, c := range Categories {
		out[i] = c
	}
	return out
}

// GiftIdea is a stand-alone gift note. Recipient is free text; no link to
// a Birthday record is enforced.
type GiftIdea struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
	Recipient   string `json:"recipient,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Validate checks the gift idea fields.
func (g GiftIdea) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.ID, validation.Required),
		validation.Field(&g.Name, validation.Required, validation.Length(1, config.MaxNameLen)),
		validation.Field(&g.Link, is.URL),
	)
}

// Profile is the onboarded user identity. DOB is an ISO calendar date
// string (YYYY-MM-DD) or empty.
type Profile struct {
	Name string `json:"name"`
	DOB  string `json:"dob,omitempty"`
}

// Validate checks the profile fields.
func (p Profile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, config.MaxNameLen)),
		validation.Field(&p.DOB, validation.Date(config.DateFormatFullDash)),
	)
}
