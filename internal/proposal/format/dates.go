package format

import "time"

// DefaultValidityDays is how long a proposal stays open after creation.
const DefaultValidityDays = 30

// Date renders a timestamp the way the documents present dates.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

// ExpiryDate returns the formatted date a fixed number of days after creation.
func ExpiryDate(created time.Time, validityDays int) string {
	if created.IsZero() {
		return ""
	}
	if validityDays <= 0 {
		validityDays = DefaultValidityDays
	}
	return Date(created.AddDate(0, 0, validityDays))
}
