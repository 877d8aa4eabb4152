package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type CategoryTotal struct {
	Category string          `json:"category" yaml:"category"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

// Totals mirrors pricing.Totals. Amounts are encoded as decimal strings.
type Totals struct {
	Categories        []CategoryTotal `json:"categories" yaml:"categories"`
	ItemCount         int             `json:"item_count" yaml:"item_count"`
	Subtotal          decimal.Decimal `json:"subtotal" yaml:"subtotal"`
	MarkupPercent     decimal.Decimal `json:"markup_percent" yaml:"markup_percent"`
	Markup            decimal.Decimal `json:"markup" yaml:"markup"`
	Addons            decimal.Decimal `json:"addons" yaml:"addons"`
	AddonsAfterTax    bool            `json:"addons_after_tax" yaml:"addons_after_tax"`
	TotalExclTax      decimal.Decimal `json:"total_excl_tax" yaml:"total_excl_tax"`
	TaxPercent        decimal.Decimal `json:"tax_percent" yaml:"tax_percent"`
	Tax               decimal.Decimal `json:"tax" yaml:"tax"`
	TotalInclTax      decimal.Decimal `json:"total_incl_tax" yaml:"total_incl_tax"`
	DeductionPercent  decimal.Decimal `json:"deduction_percent" yaml:"deduction_percent"`
	DeductionBase     decimal.Decimal `json:"deduction_base" yaml:"deduction_base"`
	Deduction         decimal.Decimal `json:"deduction" yaml:"deduction"`
	NetAfterDeduction decimal.Decimal `json:"net_after_deduction" yaml:"net_after_deduction"`
}

type Receipt struct {
	ProjectID   string    `json:"project_id"`
	Kind        string    `json:"kind"`
	FileName    string    `json:"file_name"`
	Key         string    `json:"key"`
	Location    string    `json:"location"`
	Pages       int       `json:"pages"`
	Bytes       int       `json:"bytes"`
	GeneratedAt time.Time `json:"generated_at"`
	Warnings    []string  `json:"warnings,omitempty"`
}

type Error struct {
	Error string `json:"error"`
}
