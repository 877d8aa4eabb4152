package api

import "github.com/shopspring/decimal"

type CheckpointUpdate struct {
	ID      string `json:"id" yaml:"id"`
	Result  string `json:"result" yaml:"result"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type ItemUpdate struct {
	ID          string           `json:"id" yaml:"id"`
	Description *string          `json:"description,omitempty" yaml:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Hours       *decimal.Decimal `json:"hours,omitempty" yaml:"hours,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty" yaml:"unit_price,omitempty"`
	Uncertainty *string          `json:"uncertainty,omitempty" yaml:"uncertainty,omitempty"`
}

type PhaseUpdate struct {
	ID            string  `json:"id" yaml:"id"`
	StartUnit     *int    `json:"start,omitempty" yaml:"start,omitempty"`
	DurationUnits *int    `json:"duration,omitempty" yaml:"duration,omitempty"`
	ColorKey      *string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Delta is the interpretation service's structured output.
type Delta struct {
	Checkpoints []CheckpointUpdate `json:"checkpoints,omitempty" yaml:"checkpoints,omitempty"`
	AddItems    []LineItem         `json:"add_items,omitempty" yaml:"add_items,omitempty"`
	UpdateItems []ItemUpdate       `json:"update_items,omitempty" yaml:"update_items,omitempty"`
	Phases      []PhaseUpdate      `json:"phases,omitempty" yaml:"phases,omitempty"`
}

type Rejection struct {
	Target string `json:"target" yaml:"target"`
	ID     string `json:"id" yaml:"id"`
	Reason string `json:"reason" yaml:"reason"`
}

func LoadDelta(path string) (*Delta, error) {
	var d Delta
	if err := decodeFile(path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
