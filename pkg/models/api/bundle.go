package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Project struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	Customer      string          `json:"customer,omitempty" yaml:"customer,omitempty"`
	Address       string          `json:"address,omitempty" yaml:"address,omitempty"`
	Reference     string          `json:"reference,omitempty" yaml:"reference,omitempty"`
	MarkupPercent decimal.Decimal `json:"markup_percent" yaml:"markup_percent"`
	Notes         string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

type LineItem struct {
	ID                   string           `json:"id,omitempty" yaml:"id,omitempty"`
	Category             string           `json:"category" yaml:"category"`
	Description          string           `json:"description" yaml:"description"`
	Quantity             *decimal.Decimal `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Unit                 string           `json:"unit,omitempty" yaml:"unit,omitempty"`
	Hours                *decimal.Decimal `json:"hours,omitempty" yaml:"hours,omitempty"`
	UnitPrice            decimal.Decimal  `json:"unit_price" yaml:"unit_price"`
	Subtotal             *decimal.Decimal `json:"subtotal,omitempty" yaml:"subtotal,omitempty"`
	Uncertainty          string           `json:"uncertainty,omitempty" yaml:"uncertainty,omitempty"`
	TaxDeductionEligible bool             `json:"tax_deduction_eligible,omitempty" yaml:"tax_deduction_eligible,omitempty"`
}

type Addon struct {
	ID       string          `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string          `json:"name" yaml:"name"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
	Selected bool            `json:"selected" yaml:"selected"`
}

type Checkpoint struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Text     string `json:"text" yaml:"text"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Result   string `json:"result,omitempty" yaml:"result,omitempty"`
	Comment  string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type Phase struct {
	ID            string `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string `json:"name" yaml:"name"`
	StartUnit     int    `json:"start" yaml:"start"`
	DurationUnits int    `json:"duration" yaml:"duration"`
	ColorKey      string `json:"color,omitempty" yaml:"color,omitempty"`
	ParallelWith  string `json:"parallel_with,omitempty" yaml:"parallel_with,omitempty"`
}

type ActivityEntry struct {
	ID          string           `json:"id,omitempty" yaml:"id,omitempty"`
	Date        time.Time        `json:"date" yaml:"date"`
	Description string           `json:"description" yaml:"description"`
	Hours       *decimal.Decimal `json:"hours,omitempty" yaml:"hours,omitempty"`
	Crew        string           `json:"crew,omitempty" yaml:"crew,omitempty"`
}

// BundleFile carries a project and every record list. Kind selects the
// document to produce and may be empty when only totals are wanted.
type BundleFile struct {
	Kind        string          `json:"kind,omitempty" yaml:"kind,omitempty"`
	Project     Project         `json:"project" yaml:"project"`
	Items       []LineItem      `json:"items,omitempty" yaml:"items,omitempty"`
	Addons      []Addon         `json:"addons,omitempty" yaml:"addons,omitempty"`
	Checkpoints []Checkpoint    `json:"checkpoints,omitempty" yaml:"checkpoints,omitempty"`
	Phases      []Phase         `json:"phases,omitempty" yaml:"phases,omitempty"`
	TotalUnits  int             `json:"total_units,omitempty" yaml:"total_units,omitempty"`
	Activities  []ActivityEntry `json:"activities,omitempty" yaml:"activities,omitempty"`
}

type fileFormat int

const (
	formatJSON fileFormat = iota
	formatYAML
)

func formatOf(path string) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported file extension %q, expected .json, .yaml or .yml", filepath.Ext(path))
	}
}

func decodeFile(path string, v any) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if format == formatJSON {
		err = json.Unmarshal(data, v)
	} else {
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func encodeFile(path string, v any) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}
	var data []byte
	if format == formatJSON {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadBundleFile decodes a bundle from a .json, .yaml or .yml file.
func LoadBundleFile(path string) (*BundleFile, error) {
	var b BundleFile
	if err := decodeFile(path, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func WriteBundleFile(path string, b BundleFile) error {
	return encodeFile(path, b)
}
