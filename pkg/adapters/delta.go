package adapters

import (
	"fmt"

	"github.com/de-tools/estimator/pkg/models/api"
	"github.com/de-tools/estimator/pkg/models/domain"
)

func MapDeltaApiToDomain(d api.Delta) (domain.Delta, error) {
	var out domain.Delta
	for i, c := range d.Checkpoints {
		result, err := parseResult(c.Result)
		if err != nil {
			return domain.Delta{}, fmt.Errorf("checkpoints[%d]: %w", i, err)
		}
		out.Checkpoints = append(out.Checkpoints, domain.CheckpointUpdate{ID: c.ID, Result: result, Comment: c.Comment})
	}
	for i, item := range d.AddItems {
		mapped, err := MapLineItemApiToDomain(item)
		if err != nil {
			return domain.Delta{}, fmt.Errorf("add_items[%d]: %w", i, err)
		}
		out.AddItems = append(out.AddItems, mapped)
	}
	for i, u := range d.UpdateItems {
		update := domain.ItemUpdate{
			ID:          u.ID,
			Description: u.Description,
			Quantity:    cloneDecimal(u.Quantity),
			Hours:       cloneDecimal(u.Hours),
			UnitPrice:   cloneDecimal(u.UnitPrice),
		}
		if u.Uncertainty != nil {
			uncertainty, err := parseUncertainty(*u.Uncertainty)
			if err != nil {
				return domain.Delta{}, fmt.Errorf("update_items[%d]: %w", i, err)
			}
			update.Uncertainty = &uncertainty
		}
		out.UpdateItems = append(out.UpdateItems, update)
	}
	for _, p := range d.Phases {
		out.Phases = append(out.Phases, domain.PhaseUpdate{
			ID:            p.ID,
			StartUnit:     p.StartUnit,
			DurationUnits: p.DurationUnits,
			ColorKey:      p.ColorKey,
		})
	}
	return out, nil
}

func MapRejectionsDomainToApi(rejections []domain.Rejection) []api.Rejection {
	out := make([]api.Rejection, 0, len(rejections))
	for _, r := range rejections {
		out = append(out, api.Rejection{Target: r.Target, ID: r.ID, Reason: r.Reason})
	}
	return out
}
