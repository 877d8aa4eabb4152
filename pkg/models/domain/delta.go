package domain

import "github.com/shopspring/decimal"

// Delta is a batch of structured changes proposed by the interpretation
// service. Nil pointer fields are left untouched.
type Delta struct {
	Checkpoints []CheckpointUpdate
	AddItems    []LineItem
	UpdateItems []ItemUpdate
	Phases      []PhaseUpdate
}

type CheckpointUpdate struct {
	ID      string
	Result  CheckpointResult
	Comment string
}

type ItemUpdate struct {
	ID          string
	Description *string
	Quantity    *decimal.Decimal
	Hours       *decimal.Decimal
	UnitPrice   *decimal.Decimal
	Uncertainty *Uncertainty
}

type PhaseUpdate struct {
	ID            string
	StartUnit     *int
	DurationUnits *int
	ColorKey      *string
}

// Rejection explains why one change of a delta was not applied.
type Rejection struct {
	Target string // checkpoint, item or phase
	ID     string
	Reason string
}
