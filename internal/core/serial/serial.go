// Package serial formats and parses certificate serial numbers.
//
// A serial number is "<prefix> c<count>" where count is zero-padded to at
// least four digits, e.g. "PMPP B# c0007".
package serial

import (
	"fmt"
	"regexp"
	"strconv"
)

// pattern matches "<prefix> c<digits>"; prefix may itself contain spaces.
var pattern = regexp.MustCompile(`^(.+) c(\d{4,})$`)

// Format renders the serial number for count within a series.
func Format(prefix string, count int) string {
	return fmt.Sprintf("%s c%04d", prefix, count)
}

// Parse splits a serial number into its prefix and count.
func Parse(s string) (prefix string, count int, err error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return "", 0, fmt.Errorf("malformed serial number %q", s)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, fmt.Errorf("malformed serial number %q: %w", s, err)
	}
	return m[1], n, nil
}

// Matches reports whether s is a well-formed serial number for prefix.
func Matches(s, prefix string) bool {
	p, _, err := Parse(s)
	return err == nil && p == prefix
}
