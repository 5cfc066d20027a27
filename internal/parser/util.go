package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// isoDate reformats a statement date as YYYY-MM-DD. Dates that do not
// parse with layout are returned verbatim.
func isoDate(raw, layout string) string {
	t, err := time.Parse(layout, raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}

// dayMonthDate builds the ISO date for a "DD/MM" token in year. Impossible
// dates come back as "DD/MM/YYYY".
func dayMonthDate(ddmm string, year int) string {
	parts := strings.SplitN(ddmm, "/", 2)
	if len(parts) != 2 {
		return ddmm
	}
	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	if errD != nil || errM != nil {
		return ddmm
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return fmt.Sprintf("%s/%s/%d", parts[0], parts[1], year)
	}
	return t.Format("2006-01-02")
}

// accountEndingPattern finds "Account Number: Ending in 1234".
var accountEndingPattern = regexp.MustCompile(`Account Number:\s+Ending in\s+(\d+)`)

func findAccountEnding(lines []string) string {
	for _, line := range lines {
		if m := accountEndingPattern.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}
