package domain

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryLabor         Category = "labor"
	CategoryMaterial      Category = "material"
	CategorySubcontracted Category = "subcontracted"
)

// Categories lists the cost categories in presentation order.
var Categories = []Category{CategoryLabor, CategoryMaterial, CategorySubcontracted}

type Uncertainty string

const (
	UncertaintyLow    Uncertainty = "low"
	UncertaintyMedium Uncertainty = "medium"
	UncertaintyHigh   Uncertainty = "high"
)

// UnitLumpSum is the reserved unit token for fixed-price items.
const UnitLumpSum = "lump-sum"

// LineItem is one priced unit of work or material within an estimate.
// Subtotal is a cache of pricing.ComputeSubtotal and is never a source of truth.
type LineItem struct {
	ID                   string
	Category             Category
	Description          string
	Quantity             *decimal.Decimal // nil when not given
	Unit                 string           // free-form, "lump-sum" is reserved
	Hours                *decimal.Decimal // labor only
	UnitPrice            decimal.Decimal
	Subtotal             decimal.Decimal
	Uncertainty          Uncertainty
	TaxDeductionEligible bool // labor only
}

// IsLumpSum reports whether the item is priced as a fixed amount.
func (i LineItem) IsLumpSum() bool {
	return i.Unit == UnitLumpSum
}

// Addon is an optional extra; only selected addons count towards totals.
type Addon struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Selected bool
}
