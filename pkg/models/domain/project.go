package domain

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
	Notes         string // markdown
	CreatedAt     time.Time
}

// Records is everything stored for one project. Document bundles are cut
// from it per kind.
type Records struct {
	Project     Project
	Items       []LineItem
	Addons      []Addon
	Checkpoints []Checkpoint
	Phases      []Phase
	// TotalUnits is the schedule span; zero derives it from the phases.
	TotalUnits int
	Activities []ActivityEntry
}
