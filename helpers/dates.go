// Package helpers provides shared text and date utilities for the
// format packages.
package helpers

import "strings"

// DateParts is a partial calendar date. Zero fields mean the part is
// not present; a zero value means the input was not a usable date.
type DateParts struct {
	Year  string
	Month string
	Day   string
}

// IsZero reports whether no part of the date is present.
func (d DateParts) IsZero() bool {
	return d.Year == "" && d.Month == "" && d.Day == ""
}

// SplitDate decomposes an ISO-like partial date string segmented by "-".
// One segment yields a year, two yield year and month, three yield year,
// month and day. Any other segment count yields no parts at all.
//
// Consumers that emit the parts as XML children must write them in
// month, day, year order; downstream deposit processors assume it.
func SplitDate(s string) DateParts {
	if s == "" {
		return DateParts{}
	}
	segs := strings.Split(s, "-")
	switch len(segs) {
	case 1:
		return DateParts{Year: segs[0]}
	case 2:
		return DateParts{Year: segs[0], Month: segs[1]}
	case 3:
		return DateParts{Year: segs[0], Month: segs[1], Day: segs[2]}
	}
	return DateParts{}
}
