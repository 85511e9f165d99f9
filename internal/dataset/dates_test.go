package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateForDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "N/A"},
		{"whitespace", "   ", "N/A"},
		{"iso passthrough", "2023-05-01", "2023-05-01"},
		{"excel serial", "44927", "2023-01-01"},
		{"multi date", "2023-05-01; 2022-01-01; 2021-06-01", "2023-05-01 (+2 more)"},
		{"multi date single", "2023-05-01; ", "2023-05-01"},
		{"slash layout", "5/1/2023", "2023-05-01"},
		{"dotted layout", "1.5.2023", "2023-05-01"},
		{"loose ymd", "2023-5-1", "2023-05-01"},
		{"year only", "reported 2021", "2021-01-01"},
		{"garbage", "no date here", "Invalid Date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatDateForDisplay(tt.in))
		})
	}
}

func TestFormatDateForDisplay_CorruptedTimestamp(t *testing.T) {
	t.Parallel()

	// 14+ digit runs are treated as glued millisecond timestamps;
	// 1672531200000 is 2023-01-01T00:00:00Z.
	got := FormatDateForDisplay("16725312000001672531200000")
	assert.Equal(t, "2023-01-01", got)
}

func TestParseYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"2023-05-01", 2023},
		{"2021-01-01; 2022-01-01", 2021},
		{"excluded in 2019", 2019},
		{"2024", 2024},
		{"", 0},
		{"no year", 0},
		{"1850", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseYear(tt.in), "input %q", tt.in)
	}
}

func TestExcelSerialRoundTrip(t *testing.T) {
	t.Parallel()

	d := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	serial := ToExcelSerial(d)

	got, ok := ParseFlexibleDate("2023-05-01")
	require.True(t, ok)
	assert.Equal(t, serial, ToExcelSerial(got))
}

func TestParseFlexibleDate(t *testing.T) {
	t.Parallel()

	got, ok := ParseFlexibleDate("2021-03-15")
	require.True(t, ok)
	assert.Equal(t, 2021, got.Year())
	assert.Equal(t, time.March, got.Month())

	_, ok = ParseFlexibleDate("not a date")
	assert.False(t, ok)

	_, ok = ParseFlexibleDate("")
	assert.False(t, ok)
}
