package adapters

import (
	"fmt"
	"slices"

	"github.com/de-tools/estimator/pkg/models/api"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/shopspring/decimal"
)

func MapProjectApiToDomain(p api.Project) domain.Project {
	return domain.Project{
		ID:            p.ID,
		Name:          p.Name,
		Customer:      p.Customer,
		Address:       p.Address,
		Reference:     p.Reference,
		MarkupPercent: p.MarkupPercent,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

func MapProjectDomainToApi(p domain.Project) api.Project {
	return api.Project{
		ID:            p.ID,
		Name:          p.Name,
		Customer:      p.Customer,
		Address:       p.Address,
		Reference:     p.Reference,
		MarkupPercent: p.MarkupPercent,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

func parseCategory(s string) (domain.Category, error) {
	c := domain.Category(s)
	if !slices.Contains(domain.Categories, c) {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func parseUncertainty(s string) (domain.Uncertainty, error) {
	switch u := domain.Uncertainty(s); u {
	case "", domain.UncertaintyLow, domain.UncertaintyMedium, domain.UncertaintyHigh:
		return u, nil
	}
	return "", fmt.Errorf("unknown uncertainty %q", s)
}

func parseResult(s string) (domain.CheckpointResult, error) {
	r := domain.CheckpointResult(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown checkpoint result %q", s)
	}
	return r, nil
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// MapLineItemApiToDomain validates the enumerations of an item. A provided
// subtotal is carried as is; pricing re-derives it wherever it matters.
func MapLineItemApiToDomain(item api.LineItem) (domain.LineItem, error) {
	category, err := parseCategory(item.Category)
	if err != nil {
		return domain.LineItem{}, err
	}
	uncertainty, err := parseUncertainty(item.Uncertainty)
	if err != nil {
		return domain.LineItem{}, err
	}
	out := domain.LineItem{
		ID:                   item.ID,
		Category:             category,
		Description:          item.Description,
		Quantity:             cloneDecimal(item.Quantity),
		Unit:                 item.Unit,
		Hours:                cloneDecimal(item.Hours),
		UnitPrice:            item.UnitPrice,
		Uncertainty:          uncertainty,
		TaxDeductionEligible: item.TaxDeductionEligible,
	}
	if item.Subtotal != nil {
		out.Subtotal = *item.Subtotal
	}
	return out, nil
}

func MapLineItemDomainToApi(item domain.LineItem) api.LineItem {
	sub := item.Subtotal
	return api.LineItem{
		ID:                   item.ID,
		Category:             string(item.Category),
		Description:          item.Description,
		Quantity:             cloneDecimal(item.Quantity),
		Unit:                 item.Unit,
		Hours:                cloneDecimal(item.Hours),
		UnitPrice:            item.UnitPrice,
		Subtotal:             &sub,
		Uncertainty:          string(item.Uncertainty),
		TaxDeductionEligible: item.TaxDeductionEligible,
	}
}

func MapCheckpointApiToDomain(c api.Checkpoint) (domain.Checkpoint, error) {
	result, err := parseResult(c.Result)
	if err != nil {
		return domain.Checkpoint{}, err
	}
	return domain.Checkpoint{
		ID:       c.ID,
		Text:     c.Text,
		Required: c.Required,
		Result:   result,
		Comment:  c.Comment,
	}, nil
}

func MapCheckpointDomainToApi(c domain.Checkpoint) api.Checkpoint {
	return api.Checkpoint{
		ID:       c.ID,
		Text:     c.Text,
		Required: c.Required,
		Result:   string(c.Result),
		Comment:  c.Comment,
	}
}

func MapAddonApiToDomain(a api.Addon) domain.Addon {
	return domain.Addon{ID: a.ID, Name: a.Name, Price: a.Price, Selected: a.Selected}
}

func MapAddonDomainToApi(a domain.Addon) api.Addon {
	return api.Addon{ID: a.ID, Name: a.Name, Price: a.Price, Selected: a.Selected}
}

func MapPhaseApiToDomain(p api.Phase) domain.Phase {
	return domain.Phase{
		ID:            p.ID,
		Name:          p.Name,
		StartUnit:     p.StartUnit,
		DurationUnits: p.DurationUnits,
		ColorKey:      p.ColorKey,
		ParallelWith:  p.ParallelWith,
	}
}

func MapPhaseDomainToApi(p domain.Phase) api.Phase {
	return api.Phase{
		ID:            p.ID,
		Name:          p.Name,
		StartUnit:     p.StartUnit,
		DurationUnits: p.DurationUnits,
		ColorKey:      p.ColorKey,
		ParallelWith:  p.ParallelWith,
	}
}

func MapActivityApiToDomain(a api.ActivityEntry) domain.ActivityEntry {
	return domain.ActivityEntry{
		ID:          a.ID,
		Date:        a.Date,
		Description: a.Description,
		Hours:       cloneDecimal(a.Hours),
		Crew:        a.Crew,
	}
}

func MapActivityDomainToApi(a domain.ActivityEntry) api.ActivityEntry {
	return api.ActivityEntry{
		ID:          a.ID,
		Date:        a.Date,
		Description: a.Description,
		Hours:       cloneDecimal(a.Hours),
		Crew:        a.Crew,
	}
}

// MapBundleFileToRecords converts a decoded bundle file. Invalid enumerations
// are reported with the position of the offending record.
func MapBundleFileToRecords(b api.BundleFile) (domain.Records, error) {
	r := domain.Records{
		Project:    MapProjectApiToDomain(b.Project),
		TotalUnits: b.TotalUnits,
	}

	for i, item := range b.Items {
		mapped, err := MapLineItemApiToDomain(item)
		if err != nil {
			return domain.Records{}, fmt.Errorf("items[%d]: %w", i, err)
		}
		r.Items = append(r.Items, mapped)
	}
	for _, a := range b.Addons {
		r.Addons = append(r.Addons, MapAddonApiToDomain(a))
	}
	for i, c := range b.Checkpoints {
		mapped, err := MapCheckpointApiToDomain(c)
		if err != nil {
			return domain.Records{}, fmt.Errorf("checkpoints[%d]: %w", i, err)
		}
		r.Checkpoints = append(r.Checkpoints, mapped)
	}
	for _, p := range b.Phases {
		r.Phases = append(r.Phases, MapPhaseApiToDomain(p))
	}
	for _, a := range b.Activities {
		r.Activities = append(r.Activities, MapActivityApiToDomain(a))
	}
	return r, nil
}

func MapRecordsToBundleFile(kind domain.Kind, r domain.Records) api.BundleFile {
	b := api.BundleFile{
		Kind:       string(kind),
		Project:    MapProjectDomainToApi(r.Project),
		TotalUnits: r.TotalUnits,
	}
	for _, item := range r.Items {
		b.Items = append(b.Items, MapLineItemDomainToApi(item))
	}
	for _, a := range r.Addons {
		b.Addons = append(b.Addons, MapAddonDomainToApi(a))
	}
	for _, c := range r.Checkpoints {
		b.Checkpoints = append(b.Checkpoints, MapCheckpointDomainToApi(c))
	}
	for _, p := range r.Phases {
		b.Phases = append(b.Phases, MapPhaseDomainToApi(p))
	}
	for _, a := range r.Activities {
		b.Activities = append(b.Activities, MapActivityDomainToApi(a))
	}
	return b
}
