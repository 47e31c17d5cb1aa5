// Package dateutil handles lenient parsing of user supplied year bounds.
package dateutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

// ParseYear normalizes a user supplied year bound to a four digit year
// string. Plain years pass through, anything else is handed to a lenient
// date parser, so "2020-06" or "Jan 2020" work as well. Empty input stays
// empty, meaning an open bound.
func ParseYear(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if y, err := strconv.Atoi(value); err == nil {
		if y < 1000 || y > 9999 {
			return "", fmt.Errorf("year out of range: %d", y)
		}
		return strconv.Itoa(y), nil
	}
	t, err := dateparse.ParseStrict(value)
	if err != nil {
		return "", fmt.Errorf("unrecognized year: %q", value)
	}
	return strconv.Itoa(t.Year()), nil
}
