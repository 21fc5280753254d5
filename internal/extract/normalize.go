package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	longMonthDate = regexp.MustCompile(`(?i)^(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}$`)
	numericDate   = regexp.MustCompile(`^\d{2}[/-]\d{2}[/-]\d{4}$`)
)

// normalizeAmount strips thousands separators and renders the value as a
// canonical two-decimal string. A parse failure degrades to the raw capture.
func (e *Extractor) normalizeAmount(raw string) string {
	cleaned := strings.ReplaceAll(raw, ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		e.logger.Warn("amount normalization failed", "value", raw, "error", err)
		return raw
	}
	return d.StringFixed(2)
}

// normalizeDate converts long month-name dates to MM/DD/YYYY and normalizes
// dash separators to slashes. Unrecognized formats are returned as captured.
func (e *Extractor) normalizeDate(raw string) string {
	switch {
	case longMonthDate.MatchString(raw):
		cleaned := strings.Join(strings.Fields(strings.ReplaceAll(raw, ",", "")), " ")
		t, err := time.Parse("January 2 2006", cleaned)
		if err != nil {
			e.logger.Warn("date normalization failed", "value", raw, "error", err)
			return raw
		}
		return t.Format("01/02/2006")
	case numericDate.MatchString(raw):
		return strings.ReplaceAll(raw, "-", "/")
	default:
		return raw
	}
}
