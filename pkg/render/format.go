package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/estimator/pkg/pricing"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Locale holds the fixed number, currency and calendar conventions used in
// generated documents.
type Locale struct {
	ThousandsSeparator string
	DecimalSeparator   string
	CurrencySuffix     string
	Placeholder        string
	Months             [12]string
	Weekdays           [7]string // Sunday first, as time.Weekday
}

// SwedishLocale is the default locale.
func SwedishLocale() Locale {
	return Locale{
		ThousandsSeparator: " ",
		DecimalSeparator:   ",",
		CurrencySuffix:     "kr",
		Placeholder:        "—",
		Months: [12]string{
			"januari", "februari", "mars", "april", "maj", "juni",
			"juli", "augusti", "september", "oktober", "november", "december",
		},
		Weekdays: [7]string{"söndag", "måndag", "tisdag", "onsdag", "torsdag", "fredag", "lördag"},
	}
}

func (l Locale) group(n int64) string {
	return strings.ReplaceAll(humanize.Comma(n), ",", l.ThousandsSeparator)
}

// Money rounds to whole currency units and appends the currency suffix.
func (l Locale) Money(d decimal.Decimal) string {
	return l.group(pricing.RoundDisplay(d).IntPart()) + " " + l.CurrencySuffix
}

// MoneyOrPlaceholder renders the placeholder when the amount is not backed
// by any data.
func (l Locale) MoneyOrPlaceholder(d decimal.Decimal, present bool) string {
	if !present {
		return l.Placeholder
	}
	return l.Money(d)
}

// Number renders d with at most places decimals, trailing zeros dropped.
func (l Locale) Number(d decimal.Decimal, places int32) string {
	r := d.Round(places)
	_, frac, _ := strings.Cut(r.Abs().String(), ".")
	out := l.group(r.Abs().Truncate(0).IntPart())
	if frac != "" {
		out += l.DecimalSeparator + frac
	}
	if r.IsNegative() {
		out = "-" + out
	}
	return out
}

// OptionalNumber renders a nullable number.
func (l Locale) OptionalNumber(d *decimal.Decimal, places int32) string {
	if d == nil {
		return l.Placeholder
	}
	return l.Number(*d, places)
}

// Percent renders "15 %".
func (l Locale) Percent(d decimal.Decimal) string {
	return l.Number(d, 2) + " %"
}

// Date renders "19 oktober 2026".
func (l Locale) Date(t time.Time) string {
	if t.IsZero() {
		return l.Placeholder
	}
	return fmt.Sprintf("%d %s %d", t.Day(), l.Months[t.Month()-1], t.Year())
}

// DayDate renders "måndag 19 oktober 2026".
func (l Locale) DayDate(t time.Time) string {
	if t.IsZero() {
		return l.Placeholder
	}
	return l.Weekdays[t.Weekday()] + " " + l.Date(t)
}

// Timestamp renders "19 oktober 2026 14:05".
func (l Locale) Timestamp(t time.Time) string {
	if t.IsZero() {
		return l.Placeholder
	}
	return fmt.Sprintf("%s %02d:%02d", l.Date(t), t.Hour(), t.Minute())
}

// Text returns s, or the placeholder when s is blank.
func (l Locale) Text(s string) string {
	if strings.TrimSpace(s) == "" {
		return l.Placeholder
	}
	return s
}
