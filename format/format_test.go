package format

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbevents/dashboard-go/models"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"3", "3"},
		{"31", "31"},
		{"311", "31/1"},
		{"3112", "31/12"},
		{"31122", "31/12/2"},
		{"31122024", "31/12/2024"},
		{"311220249999", "31/12/2024"},
		{"31/12/2024", "31/12/2024"}, // idempotent on masked input
		{"31-12-2024", "31/12/2024"},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDate(tt.in), "input %q", tt.in)
	}
}

func TestFormatDateIdempotent(t *testing.T) {
	inputs := []string{"1", "12", "123", "1234", "12345", "01012000", "31122024"}
	for _, in := range inputs {
		once := FormatDate(in)
		assert.Equal(t, once, FormatDate(once), "input %q", in)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1", "1"},
		{"12", "12"},
		{"123", "12:3"},
		{"1234", "12:34"},
		{"12345", "12:34"},
		{"2500", "23:00"},
		{"99", "23"},
		{"1299", "12:59"},
		{"12:34", "12:34"},
		{"aa1b2", "12"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTime(tt.in), "input %q", tt.in)
	}
}

func TestFormatTimeAlwaysValidWhenComplete(t *testing.T) {
	valid := regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	for i := 0; i < 10000; i++ {
		in := strconv.Itoa(i + 10000)[1:] // every 4-digit string, zero padded
		assert.Regexp(t, valid, FormatTime(in), "input %q", in)
	}
}

func TestFormatTickets(t *testing.T) {
	assert.Equal(t, "150", FormatTickets("1a5b0"))
	assert.Equal(t, "", FormatTickets("abc"))
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "R$ "},
		{"1", "R$ 1"},
		{"150", "R$ 150"},
		{"1500", "R$ 1.500"},
		{"150000", "R$ 150.000"},
		{"1500000", "R$ 1.500.000"},
		{"1500,00", "R$ 1.500,00"},
		{"0,50", "R$ 0,50"},
		{"R$ 1.500,00", "R$ 1.500,00"}, // already formatted
		{"abc12x3", "R$ 123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.in), "input %q", tt.in)
	}
}

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"R$ 1.500,00", "1500.00"},
		{"R$ 150.000", "150000"},
		{"R$ 0,50", "0.50"},
		{"R$ ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanPrice(tt.in), "input %q", tt.in)
	}
}

func TestPriceCanonicalAlwaysParses(t *testing.T) {
	inputs := []string{"0", "007", "1500,00", "1,5", "123456789", ",5", "1500"}
	for _, in := range inputs {
		canonical := CleanPrice(FormatPrice(in))
		if canonical == "" || canonical == "." {
			continue
		}
		v, err := strconv.ParseFloat(canonical, 64)
		require.NoError(t, err, "input %q canonical %q", in, canonical)
		assert.GreaterOrEqual(t, v, 0.0, "input %q", in)
	}
}

func TestPriceDisplayRoundTrip(t *testing.T) {
	inputs := []string{"1500,00", "150000", "0,50", "12", "1234567,89"}
	for _, in := range inputs {
		display := FormatPrice(in)
		canonical := CleanPrice(display)
		assert.Equal(t, display, DisplayPrice(canonical), "input %q", in)
	}
}

func TestDisplayPrice(t *testing.T) {
	assert.Equal(t, "R$ 1.500,00", DisplayPrice("1500.00"))
	assert.Equal(t, "R$ 150.000", DisplayPrice("150000"))
}

func TestComposeTimestamp(t *testing.T) {
	got, err := ComposeTimestamp("31/12/2024", "18:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.December, 31, 18, 30, 0, 0, time.Local), got)
}

func TestComposeTimestampAcceptsNonCalendarDates(t *testing.T) {
	// Only segment ranges are checked; Feb 31 is accepted and rolls over.
	got, err := ComposeTimestamp("31/02/2024", "10:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 2, 10, 0, 0, 0, time.Local), got)
}

func TestComposeTimestampRejectsBadInput(t *testing.T) {
	tests := []struct {
		date, time string
	}{
		{"31/12/202", "10:00"},  // short date
		{"31/12/2024", "10:0"},  // short time
		{"", ""},                // empty
		{"32/01/2024", "10:00"}, // day out of range
		{"01/13/2024", "10:00"}, // month out of range
		{"00/01/2024", "10:00"}, // day zero
		{"01/00/2024", "10:00"}, // month zero
	}
	for _, tt := range tests {
		_, err := ComposeTimestamp(tt.date, tt.time)
		assert.ErrorIs(t, err, models.ErrInvalidDateTime, "date %q time %q", tt.date, tt.time)
	}
}

func TestDisplayDateAndTimeInvertCompose(t *testing.T) {
	at, err := ComposeTimestamp("05/07/2025", "09:45")
	require.NoError(t, err)
	assert.Equal(t, "05/07/2025", DisplayDate(at))
	assert.Equal(t, "09:45", DisplayTime(at))
}
