// Package pricing computes line item subtotals and document totals.
//
// All arithmetic is done on exact decimals. Nothing is rounded until a value is
// formatted for display (RoundDisplay), so sums never drift.
package pricing

import (
	"errors"
	"fmt"

	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// DefaultTaxPercent is the VAT rate applied when none is configured.
var DefaultTaxPercent = decimal.NewFromInt(25)

var hundred = decimal.NewFromInt(100)

var ErrNegativePercent = errors.New("percentage must not be negative")

// ComputeSubtotal derives an item's subtotal from its unit, category,
// hours and quantity. Incomplete items price at zero.
func ComputeSubtotal(item domain.LineItem) decimal.Decimal {
	switch {
	case item.IsLumpSum():
		return item.UnitPrice
	case item.Category == domain.CategoryLabor && item.Hours != nil:
		return item.Hours.Mul(item.UnitPrice)
	case item.Quantity != nil:
		return item.Quantity.Mul(item.UnitPrice)
	default:
		return decimal.Zero
	}
}

// WithSubtotals returns a copy of items with every Subtotal re-derived.
func WithSubtotals(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		item.Subtotal = ComputeSubtotal(item)
		out[i] = item
	}
	return out
}

// Breakdown holds the per category sums.
type Breakdown struct {
	Labor         decimal.Decimal
	Material      decimal.Decimal
	Subcontracted decimal.Decimal
}

func (b Breakdown) Subtotal() decimal.Decimal {
	return b.Labor.Add(b.Material).Add(b.Subcontracted)
}

// Of returns the sum for one category.
func (b Breakdown) Of(c domain.Category) decimal.Decimal {
	switch c {
	case domain.CategoryLabor:
		return b.Labor
	case domain.CategoryMaterial:
		return b.Material
	case domain.CategorySubcontracted:
		return b.Subcontracted
	}
	return decimal.Zero
}

// Aggregate sums ComputeSubtotal grouped by category. Items with an unknown
// category are ignored.
func Aggregate(items []domain.LineItem) Breakdown {
	var b Breakdown
	for _, item := range items {
		sub := ComputeSubtotal(item)
		switch item.Category {
		case domain.CategoryLabor:
			b.Labor = b.Labor.Add(sub)
		case domain.CategoryMaterial:
			b.Material = b.Material.Add(sub)
		case domain.CategorySubcontracted:
			b.Subcontracted = b.Subcontracted.Add(sub)
		}
	}
	return b
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// ApplyMarkup returns the markup amount and the total excluding tax.
func ApplyMarkup(subtotal, markupPercent decimal.Decimal) (markup, totalExclTax decimal.Decimal) {
	markup = percentOf(subtotal, markupPercent)
	return markup, subtotal.Add(markup)
}

// ApplyTax returns the tax amount and the total including tax.
func ApplyTax(totalExclTax, taxPercent decimal.Decimal) (tax, totalInclTax decimal.Decimal) {
	tax = percentOf(totalExclTax, taxPercent)
	return tax, totalExclTax.Add(tax)
}

// ApplyDeduction computes the labor tax deduction. Only labor items flagged
// TaxDeductionEligible form the base.
func ApplyDeduction(items []domain.LineItem, deductionPercent decimal.Decimal) (base, deduction decimal.Decimal) {
	for _, item := range items {
		if item.Category != domain.CategoryLabor || !item.TaxDeductionEligible {
			continue
		}
		base = base.Add(ComputeSubtotal(item))
	}
	return base, percentOf(base, deductionPercent)
}

// AddonTotal sums the price of selected addons.
func AddonTotal(addons []domain.Addon) decimal.Decimal {
	total := decimal.Zero
	for _, a := range addons {
		if a.Selected {
			total = total.Add(a.Price)
		}
	}
	return total
}

// Options parameterise Compute.
type Options struct {
	MarkupPercent    decimal.Decimal
	TaxPercent       decimal.Decimal
	DeductionPercent decimal.Decimal
	// AddonsAfterTax adds selected addons to the total including tax
	// instead of the total excluding tax.
	AddonsAfterTax bool
}

func (o Options) Validate() error {
	percents := []struct {
		name  string
		value decimal.Decimal
	}{
		{"markup", o.MarkupPercent},
		{"tax", o.TaxPercent},
		{"deduction", o.DeductionPercent},
	}
	for _, p := range percents {
		if p.value.IsNegative() {
			return fmt.Errorf("%s %s: %w", p.name, p.value.String(), ErrNegativePercent)
		}
	}
	return nil
}

// Totals is the full price chain of a document. Deduction is reported on its
// own and is never subtracted from TotalInclTax.
type Totals struct {
	Breakdown
	ItemCount     int
	Subtotal      decimal.Decimal
	Markup        decimal.Decimal
	Addons        decimal.Decimal
	TotalExclTax  decimal.Decimal
	Tax           decimal.Decimal
	TotalInclTax  decimal.Decimal
	DeductionBase decimal.Decimal
	Deduction     decimal.Decimal

	MarkupPercent    decimal.Decimal
	TaxPercent       decimal.Decimal
	DeductionPercent decimal.Decimal
	AddonsAfterTax   bool
}

// NetAfterDeduction is what the customer pays once the deduction is granted.
func (t Totals) NetAfterDeduction() decimal.Decimal {
	return t.TotalInclTax.Sub(t.Deduction)
}

// Compute runs the whole chain: aggregate, markup, addons, tax, deduction.
func Compute(items []domain.LineItem, addons []domain.Addon, opts Options) (Totals, error) {
	if err := opts.Validate(); err != nil {
		return Totals{}, err
	}

	t := Totals{
		Breakdown:        Aggregate(items),
		ItemCount:        len(items),
		Addons:           AddonTotal(addons),
		MarkupPercent:    opts.MarkupPercent,
		TaxPercent:       opts.TaxPercent,
		DeductionPercent: opts.DeductionPercent,
		AddonsAfterTax:   opts.AddonsAfterTax,
	}
	t.Subtotal = t.Breakdown.Subtotal()
	t.Markup, t.TotalExclTax = ApplyMarkup(t.Subtotal, opts.MarkupPercent)
	if !opts.AddonsAfterTax {
		t.TotalExclTax = t.TotalExclTax.Add(t.Addons)
	}
	t.Tax, t.TotalInclTax = ApplyTax(t.TotalExclTax, opts.TaxPercent)
	if opts.AddonsAfterTax {
		t.TotalInclTax = t.TotalInclTax.Add(t.Addons)
	}
	t.DeductionBase, t.Deduction = ApplyDeduction(items, opts.DeductionPercent)
	return t, nil
}

// RoundDisplay rounds to whole currency units, half away from zero. It is
// meant for the formatting boundary only.
func RoundDisplay(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
