package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Excel stores dates as day serials counted from an epoch that treats 1900
// as a leap year; offsetting from 1899-12-30 absorbs the off-by-two.
var excelDisplayEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// excelSerialEpoch is the base used when the merger writes serials, kept
// aligned with the primary dataset's convention of days since 1900-01-01
// plus one.
var excelSerialEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	isoDateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearTokenRe  = regexp.MustCompile(`\b(20\d{2})\b`)
	ymdPatternRe = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	mdyPatternRe = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	dmyPatternRe = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	digitsRe     = regexp.MustCompile(`^\d+$`)
)

// ToExcelSerial converts a time to the day-serial representation used in
// the merged dataset's date column.
func ToExcelSerial(t time.Time) int {
	return int(t.Sub(excelSerialEpoch).Hours()/24) + 1
}

// FormatDateForDisplay renders a raw exclusion-date value as YYYY-MM-DD
// where possible. It tolerates the mess the source data actually contains:
// Excel day serials, semicolon-separated multi-dates, millisecond
// timestamps glued together, and assorted D.M.Y / M/D/Y layouts. Returns
// "N/A" for empty input and "Invalid Date" when nothing can be recovered.
func FormatDateForDisplay(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "N/A"
	}

	if isoDateRe.MatchString(s) {
		return s
	}

	// Excel day serials, integer or fractional.
	if serial, ok := parseNumeric(s); ok && serial > 0 && serial < 100000 {
		d := excelDisplayEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
		return d.Format("2006-01-02")
	}

	// Multiple dates: show the first plus a count.
	if strings.Contains(s, ";") {
		var dates []string
		for _, part := range strings.Split(s, ";") {
			if p := strings.TrimSpace(part); p != "" {
				dates = append(dates, p)
			}
		}
		if len(dates) > 0 && isoDateRe.MatchString(dates[0]) {
			if len(dates) > 1 {
				return dates[0] + " (+" + strconv.Itoa(len(dates)-1) + " more)"
			}
			return dates[0]
		}
	}

	// Corrupted timestamp runs: take the first 13 digits as epoch millis.
	if digitsRe.MatchString(s) && len(s) > 13 {
		if ms, err := strconv.ParseInt(s[:13], 10, 64); err == nil {
			return time.UnixMilli(ms).UTC().Format("2006-01-02")
		}
	}

	if formatted, ok := matchDatePattern(s); ok {
		return formatted
	}

	if m := yearTokenRe.FindString(s); m != "" {
		return m + "-01-01"
	}

	return "Invalid Date"
}

// ParseYear extracts a four-digit year from a year or date column value,
// returning 0 when none can be found.
func ParseYear(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if isoDateRe.MatchString(s) {
		y, _ := strconv.Atoi(s[:4])
		return y
	}

	if strings.Contains(s, ";") {
		first := strings.TrimSpace(strings.Split(s, ";")[0])
		if isoDateRe.MatchString(first) {
			y, _ := strconv.Atoi(first[:4])
			return y
		}
	}

	if m := yearTokenRe.FindString(s); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}

	if len(s) == 4 && digitsRe.MatchString(s) {
		if y, _ := strconv.Atoi(s); y >= 2000 && y <= 2030 {
			return y
		}
	}

	return 0
}

// ParseFlexibleDate parses the handful of date layouts the sanctions
// dataset uses for its From Date column.
func ParseFlexibleDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	layouts := []string{
		"2006-01-02", "2006-01-02 15:04:05", "01/02/2006", "1/2/2006",
		"02-Jan-2006", "January 2, 2006", "2-Jan-2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if serial, ok := parseNumeric(s); ok && serial > 0 && serial < 100000 {
		return excelDisplayEpoch.Add(time.Duration(serial * 24 * float64(time.Hour))), true
	}

	return time.Time{}, false
}

func parseNumeric(s string) (float64, bool) {
	if digitsRe.MatchString(s) {
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}
	if strings.Count(s, ".") == 1 && digitsRe.MatchString(strings.Replace(s, ".", "", 1)) {
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}
	return 0, false
}

func matchDatePattern(s string) (string, bool) {
	type pat struct {
		re      *regexp.Regexp
		y, m, d int // group indices
	}
	for _, p := range []pat{
		{ymdPatternRe, 1, 2, 3},
		{mdyPatternRe, 3, 1, 2},
		{dmyPatternRe, 3, 2, 1},
	} {
		groups := p.re.FindStringSubmatch(s)
		if groups == nil {
			continue
		}
		year, _ := strconv.Atoi(groups[p.y])
		month, _ := strconv.Atoi(groups[p.m])
		day, _ := strconv.Atoi(groups[p.d])
		if year >= 1900 && year <= 2030 && month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), true
		}
	}
	return "", false
}
