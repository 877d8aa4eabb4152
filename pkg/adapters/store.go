package adapters

import (
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/models/store"
	"github.com/shopspring/decimal"
)

func fromNull(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func toNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func MapStoreProjectToDomain(p store.Project) domain.Project {
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

// MapStoreCostItemToDomain trusts the stored enumerations; they were
// validated on the way in.
func MapStoreCostItemToDomain(item store.CostItem) domain.LineItem {
	return domain.LineItem{
		ID:                   item.ID,
		Category:             domain.Category(item.Category),
		Description:          item.Description,
		Quantity:             fromNull(item.Quantity),
		Unit:                 item.Unit,
		Hours:                fromNull(item.Hours),
		UnitPrice:            item.UnitPrice,
		Subtotal:             item.Subtotal,
		Uncertainty:          domain.Uncertainty(item.Uncertainty),
		TaxDeductionEligible: item.TaxDeductionEligible,
	}
}

func MapStoreAddonToDomain(a store.Addon) domain.Addon {
	return domain.Addon{ID: a.ID, Name: a.Name, Price: a.Price, Selected: a.Selected}
}

func MapStoreCheckpointToDomain(c store.Checkpoint) domain.Checkpoint {
	return domain.Checkpoint{
		ID:       c.ID,
		Text:     c.Text,
		Required: c.Required,
		Result:   domain.CheckpointResult(c.Result),
		Comment:  c.Comment,
	}
}

func MapStorePhaseToDomain(p store.Phase) domain.Phase {
	return domain.Phase{
		ID:            p.ID,
		Name:          p.Name,
		StartUnit:     p.StartUnit,
		DurationUnits: p.DurationUnits,
		ColorKey:      p.ColorKey,
		ParallelWith:  p.ParallelWith,
	}
}

func MapStoreActivityToDomain(a store.Activity) domain.ActivityEntry {
	return domain.ActivityEntry{
		ID:          a.ID,
		Date:        a.Date,
		Description: a.Description,
		Hours:       fromNull(a.Hours),
		Crew:        a.Crew,
	}
}

// MapRecordsDomainToStoreSnapshot flattens records into rows keyed by the
// project id. Slice order becomes the stored position.
func MapRecordsDomainToStoreSnapshot(r domain.Records) store.Snapshot {
	id := r.Project.ID
	s := store.Snapshot{
		Project: store.Project{
			ID:            id,
			Name:          r.Project.Name,
			Customer:      r.Project.Customer,
			Address:       r.Project.Address,
			Reference:     r.Project.Reference,
			MarkupPercent: r.Project.MarkupPercent,
			Notes:         r.Project.Notes,
			ScheduleUnits: r.TotalUnits,
			CreatedAt:     r.Project.CreatedAt,
		},
	}
	for i, item := range r.Items {
		s.Items = append(s.Items, store.CostItem{
			ID:                   item.ID,
			ProjectID:            id,
			Position:             i,
			Category:             string(item.Category),
			Description:          item.Description,
			Quantity:             toNull(item.Quantity),
			Unit:                 item.Unit,
			Hours:                toNull(item.Hours),
			UnitPrice:            item.UnitPrice,
			Subtotal:             item.Subtotal,
			Uncertainty:          string(item.Uncertainty),
			TaxDeductionEligible: item.TaxDeductionEligible,
		})
	}
	for i, a := range r.Addons {
		s.Addons = append(s.Addons, store.Addon{
			ID: a.ID, ProjectID: id, Position: i, Name: a.Name, Price: a.Price, Selected: a.Selected,
		})
	}
	for i, c := range r.Checkpoints {
		s.Checkpoints = append(s.Checkpoints, store.Checkpoint{
			ID: c.ID, ProjectID: id, Position: i, Text: c.Text, Required: c.Required, Result: string(c.Result), Comment: c.Comment,
		})
	}
	for i, p := range r.Phases {
		s.Phases = append(s.Phases, store.Phase{
			ID:            p.ID,
			ProjectID:     id,
			Position:      i,
			Name:          p.Name,
			StartUnit:     p.StartUnit,
			DurationUnits: p.DurationUnits,
			ColorKey:      p.ColorKey,
			ParallelWith:  p.ParallelWith,
		})
	}
	for _, a := range r.Activities {
		s.Activities = append(s.Activities, store.Activity{
			ID: a.ID, ProjectID: id, Date: a.Date, Description: a.Description, Hours: toNull(a.Hours), Crew: a.Crew,
		})
	}
	return s
}
