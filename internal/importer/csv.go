package importer

import (
	"strconv"
	"strings"
	"time"
)

// Accepted date layouts, tried in order. Day-first European formats take
// precedence over the US layout for ambiguous dates.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
}

// splitFields splits one delimited line. A double quote toggles quoting and
// is never part of the field; the delimiter is literal while quoted. This
// deliberately diverges from RFC 4180: there are no escaped quotes, because
// the bank exports this format targets never produce them.
func splitFields(line string, delimiter rune) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false

	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if r == delimiter && !inQuotes {
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	fields = append(fields, strings.TrimSpace(b.String()))
	return fields
}

// parseDate tries each accepted layout in order.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount reads a decimal amount, accepting a comma as the decimal
// separator. An unparseable amount yields zero, not a rejection: the row's
// date and label are still worth keeping.
func parseAmount(s string) float64 {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	normalized = strings.ReplaceAll(normalized, " ", "")

	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0
	}
	return amount
}
