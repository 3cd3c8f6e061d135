// Package phone normalizes phone numbers coming off webhook payloads.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Normalize parses raw into E.164 using the given default region for
// numbers without a country code. Unparseable input is returned
// trimmed but otherwise untouched so a sloppy payload never blocks a
// sync.
func Normalize(raw, defaultRegion string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
