package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Phase is one bar of a schedule. StartUnit is 1-based (typically a week
// number). ParallelWith is a display label only; nothing is scheduled from it.
type Phase struct {
	ID            string
	Name          string
	StartUnit     int
	DurationUnits int
	ColorKey      string
	ParallelWith  string
}

// EndUnit is the last unit the phase occupies.
func (p Phase) EndUnit() int {
	return p.StartUnit + p.DurationUnits - 1
}

// ScheduleSpan returns the smallest unit count covering every phase.
func ScheduleSpan(phases []Phase) int {
	span := 0
	for _, p := range phases {
		if end := p.EndUnit(); end > span {
			span = end
		}
	}
	return span
}

// ActivityEntry is one day in the site activity log.
type ActivityEntry struct {
	ID          string
	Date        time.Time
	Description string
	Hours       *decimal.Decimal
	Crew        string
}
