// Package format holds the input masks and canonical conversions used by the
// event and category forms. All functions are pure; partial or garbage input
// is reduced to a best-effort prefix, never an error. Only ComposeTimestamp,
// run at submit time, can fail.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/mbevents/dashboard-go/models"
)

// CurrencyPrefix is the marker shown in front of formatted prices.
const CurrencyPrefix = "R$ "

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatDate masks raw input as DD/MM/YYYY: non-digits are stripped, slashes
// inserted after the day and month, and the result truncated to ten
// characters. Idempotent on already-masked input.
func FormatDate(raw string) string {
	d := digits(raw)
	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 4:
		return d[:2] + "/" + d[2:]
	default:
		if len(d) > 8 {
			d = d[:8]
		}
		return d[:2] + "/" + d[2:4] + "/" + d[4:]
	}
}

// FormatTime masks raw input as HH:MM. The hour segment is clamped to 23 and
// the minute segment to 59 by replacing overflow with the maximum valid
// value; output never exceeds five characters.
func FormatTime(raw string) string {
	d := digits(raw)
	if len(d) > 4 {
		d = d[:4]
	}
	if len(d) >= 2 && d[:2] > "23" {
		d = "23" + d[2:]
	}
	if len(d) == 4 && d[2:] > "59" {
		d = d[:2] + "59"
	}
	if len(d) <= 2 {
		return d
	}
	return d[:2] + ":" + d[2:]
}

// FormatTickets keeps only the digits of raw.
func FormatTickets(raw string) string {
	return digits(raw)
}

// FormatPrice masks raw input as a BRL display price: everything but digits
// and the decimal comma is stripped, the currency marker is prefixed, and the
// integer part is grouped with "." every three digits from the right.
func FormatPrice(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' {
			b.WriteRune(r)
		}
	}
	clean := b.String()

	intPart := clean
	rest := ""
	if i := strings.IndexByte(clean, ','); i >= 0 {
		intPart, rest = clean[:i], clean[i:]
	}
	return CurrencyPrefix + groupThousands(intPart) + rest
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// CleanPrice converts a display price back to its canonical form: currency
// marker and thousands separators removed, decimal comma replaced by ".".
// Canonical prices always parse as non-negative decimals.
func CleanPrice(display string) string {
	s := strings.TrimPrefix(display, CurrencyPrefix)
	s = strings.ReplaceAll(s, ".", "")
	return strings.Replace(s, ",", ".", 1)
}

// DisplayPrice renders a canonical price ("1500.00") as its display form
// ("R$ 1.500,00"). Inverse of CleanPrice for well-formed canonical input.
func DisplayPrice(canonical string) string {
	return FormatPrice(strings.Replace(canonical, ".", ",", 1))
}

// DisplayDate renders an instant as the DD/MM/YYYY form the date mask
// produces.
func DisplayDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// DisplayTime renders an instant as the HH:MM form the time mask produces.
func DisplayTime(t time.Time) string {
	return t.Format("15:04")
}

// ComposeTimestamp combines masked date and time inputs into a single local
// instant. It fails with ErrInvalidDateTime when either value is not fully
// populated or a segment is out of range (day 1-31, month 1-12, hour 0-23,
// minute 0-59). Calendar validity is deliberately not checked: 31/02 is
// accepted and rolls over, matching the dashboard's historical behavior.
func ComposeTimestamp(date, timeOfDay string) (time.Time, error) {
	if len(date) != 10 || len(timeOfDay) != 5 {
		return time.Time{}, models.ErrInvalidDateTime
	}
	day, err1 := strconv.Atoi(date[0:2])
	month, err2 := strconv.Atoi(date[3:5])
	year, err3 := strconv.Atoi(date[6:10])
	hour, err4 := strconv.Atoi(timeOfDay[0:2])
	minute, err5 := strconv.Atoi(timeOfDay[3:5])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return time.Time{}, models.ErrInvalidDateTime
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || hour > 23 || minute > 59 {
		return time.Time{}, models.ErrInvalidDateTime
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local), nil
}
