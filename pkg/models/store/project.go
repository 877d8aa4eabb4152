package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID            string
	Name          string
	Customer      string
	Address       string
	Reference     string
	MarkupPercent decimal.Decimal
	Notes         string
	ScheduleUnits int
	CreatedAt     time.Time
}

type CostItem struct {
	ID                   string
	ProjectID            string
	Position             int
	Category             string
	Description          string
	Quantity             decimal.NullDecimal
	Unit                 string
	Hours                decimal.NullDecimal
	UnitPrice            decimal.Decimal
	Subtotal             decimal.Decimal
	Uncertainty          string
	TaxDeductionEligible bool
}

type Addon struct {
	ID        string
	ProjectID string
	Position  int
	Name      string
	Price     decimal.Decimal
	Selected  bool
}

type Checkpoint struct {
	ID        string
	ProjectID string
	Position  int
	Text      string
	Required  bool
	Result    string
	Comment   string
}

type Phase struct {
	ID            string
	ProjectID     string
	Position      int
	Name          string
	StartUnit     int
	DurationUnits int
	ColorKey      string
	ParallelWith  string
}

type Activity struct {
	ID          string
	ProjectID   string
	Date        time.Time
	Description string
	Hours       decimal.NullDecimal
	Crew        string
}

// Snapshot is a full project as written by Import. Positions follow slice
// order.
type Snapshot struct {
	Project     Project
	Items       []CostItem
	Addons      []Addon
	Checkpoints []Checkpoint
	Phases      []Phase
	Activities  []Activity
}
