package helpers

import (
	"strconv"
	"strings"
	"time"
)

// Timestamp formats the current time for deposit head metadata.
// "UNIX" yields seconds since the epoch; "YYYYMMDDHHMM" and
// "YYYYMMDDHHMMSS" yield the fixed-width forms Crossref accepts.
// Unknown layouts fall back to "YYYYMMDDHHMM".
func Timestamp(layout string) string {
	return formatTimestamp(layout, time.Now())
}

func formatTimestamp(layout string, t time.Time) string {
	if layout == "UNIX" {
		return strconv.FormatInt(t.Unix(), 10)
	}
	out := t.Format("200601021504")
	if strings.Contains(layout, "SS") {
		out += t.Format("05")
	}
	return out
}
