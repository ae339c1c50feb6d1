// Package roster defines the employee record, its ordered column table and
// the tabular codecs (CSV and XLSX) built on top of that table.
package roster

import (
	"fmt"
	"strings"
)

// OptString is a string that may be absent. The zero value is absent.
type OptString struct {
	value string
	valid bool
}

// SomeString wraps a present value. An empty present value is allowed but
// does not survive a tabular round trip, because an empty cell decodes as
// absent.
func SomeString(v string) OptString { return OptString{value: v, valid: true} }

// NoString returns an absent value.
func NoString() OptString { return OptString{} }

// Get returns the value and whether it is present.
func (o OptString) Get() (string, bool) { return o.value, o.valid }

// Present reports whether a value is set.
func (o OptString) Present() bool { return o.valid }

// Or returns the value, or fallback when absent.
func (o OptString) Or(fallback string) string {
	if !o.valid {
		return fallback
	}
	return o.value
}

func (o OptString) String() string {
	if !o.valid {
		return "<absent>"
	}
	return o.value
}

// OptFloat is a decimal that may be absent. The zero value is absent.
type OptFloat struct {
	value float64
	valid bool
}

// SomeFloat wraps a present value.
func SomeFloat(v float64) OptFloat { return OptFloat{value: v, valid: true} }

// NoFloat returns an absent value.
func NoFloat() OptFloat { return OptFloat{} }

// Get returns the value and whether it is present.
func (o OptFloat) Get() (float64, bool) { return o.value, o.valid }

// Present reports whether a value is set.
func (o OptFloat) Present() bool { return o.valid }

func (o OptFloat) String() string {
	if !o.valid {
		return "<absent>"
	}
	return formatDecimal(o.value)
}

// Employee is one roster row. UserID identifies the record; the codec does
// not enforce uniqueness.
type Employee struct {
	UserID          string
	PRGroup2025     string
	FirstName       string
	LastName        string
	CurrentPosition string

	CurrentTempPosition OptString
	PR2021              OptFloat
	PR2022              OptFloat
	PR2023              OptFloat
	PR2024              OptFloat
	User9Box2024        OptString
	User9Box2025        OptString
	Notes               OptString
	CurrentLabel        OptString
	Email               OptString
	ManagerID           OptString
	Department          OptString
	Location            OptString
	HireDate            OptString
}

// DisplayName renders "First Last", falling back to the user id.
func (e Employee) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(e.FirstName) + " " + strings.TrimSpace(e.LastName))
	if name == "" {
		return e.UserID
	}
	return name
}

// Validate checks the record-level invariants.
func (e Employee) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("roster: %s is required", ColumnUserID)
	}
	return nil
}

// Ratings returns the yearly performance ratings in column order.
func (e Employee) Ratings() []OptFloat {
	return []OptFloat{e.PR2021, e.PR2022, e.PR2023, e.PR2024}
}

// LatestRating returns the most recent present rating.
func (e Employee) LatestRating() (float64, bool) {
	ratings := e.Ratings()
	for i := len(ratings) - 1; i >= 0; i-- {
		if v, ok := ratings[i].Get(); ok {
			return v, true
		}
	}
	return 0, false
}
