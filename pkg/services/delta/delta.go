// Package delta applies interpretation results to a project's records.
package delta

import (
	"slices"

	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TargetCheckpoint = "checkpoint"
	TargetItem       = "item"
	TargetPhase      = "phase"
)

func reject(target, id, reason string) domain.Rejection {
	return domain.Rejection{Target: target, ID: id, Reason: reason}
}

func negative(values ...*decimal.Decimal) bool {
	for _, v := range values {
		if v != nil && v.IsNegative() {
			return true
		}
	}
	return false
}

// Apply returns a copy of records with every acceptable change of d applied
// and a rejection for each change that was not. A checkpoint result is only
// ever set once; item subtotals are re-derived.
func Apply(records domain.Records, d domain.Delta) (domain.Records, []domain.Rejection) {
	out := records
	out.Checkpoints = slices.Clone(records.Checkpoints)
	out.Items = slices.Clone(records.Items)
	out.Phases = slices.Clone(records.Phases)

	var rejections []domain.Rejection

	for _, u := range d.Checkpoints {
		i := slices.IndexFunc(out.Checkpoints, func(c domain.Checkpoint) bool { return c.ID == u.ID })
		switch {
		case i < 0:
			rejections = append(rejections, reject(TargetCheckpoint, u.ID, "unknown checkpoint"))
		case u.Result == domain.ResultUnset || !u.Result.Valid():
			rejections = append(rejections, reject(TargetCheckpoint, u.ID, "result is missing or invalid"))
		case out.Checkpoints[i].Result != domain.ResultUnset:
			rejections = append(rejections, reject(TargetCheckpoint, u.ID, "checkpoint already answered"))
		default:
			out.Checkpoints[i].Result = u.Result
			out.Checkpoints[i].Comment = u.Comment
		}
	}

	for _, item := range d.AddItems {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		switch {
		case slices.ContainsFunc(out.Items, func(existing domain.LineItem) bool { return existing.ID == item.ID }):
			rejections = append(rejections, reject(TargetItem, item.ID, "item already exists"))
			continue
		case negative(item.Quantity, item.Hours, &item.UnitPrice):
			rejections = append(rejections, reject(TargetItem, item.ID, "negative value"))
			continue
		}
		item.Subtotal = pricing.ComputeSubtotal(item)
		out.Items = append(out.Items, item)
	}

	for _, u := range d.UpdateItems {
		i := slices.IndexFunc(out.Items, func(item domain.LineItem) bool { return item.ID == u.ID })
		if i < 0 {
			rejections = append(rejections, reject(TargetItem, u.ID, "unknown item"))
			continue
		}
		if negative(u.Quantity, u.Hours, u.UnitPrice) {
			rejections = append(rejections, reject(TargetItem, u.ID, "negative value"))
			continue
		}
		item := out.Items[i]
		if u.Description != nil {
			item.Description = *u.Description
		}
		if u.Quantity != nil {
			q := *u.Quantity
			item.Quantity = &q
		}
		if u.Hours != nil {
			h := *u.Hours
			item.Hours = &h
		}
		if u.UnitPrice != nil {
			item.UnitPrice = *u.UnitPrice
		}
		if u.Uncertainty != nil {
			item.Uncertainty = *u.Uncertainty
		}
		item.Subtotal = pricing.ComputeSubtotal(item)
		out.Items[i] = item
	}

	for _, u := range d.Phases {
		i := slices.IndexFunc(out.Phases, func(p domain.Phase) bool { return p.ID == u.ID })
		if i < 0 {
			rejections = append(rejections, reject(TargetPhase, u.ID, "unknown phase"))
			continue
		}
		phase := out.Phases[i]
		if u.StartUnit != nil {
			phase.StartUnit = *u.StartUnit
		}
		if u.DurationUnits != nil {
			phase.DurationUnits = *u.DurationUnits
		}
		if u.ColorKey != nil {
			phase.ColorKey = *u.ColorKey
		}
		if phase.StartUnit < 1 || phase.DurationUnits < 1 {
			rejections = append(rejections, reject(TargetPhase, u.ID, "start and duration must be at least 1"))
			continue
		}
		if out.TotalUnits > 0 && phase.EndUnit() > out.TotalUnits {
			rejections = append(rejections, reject(TargetPhase, u.ID, "phase ends after the schedule"))
			continue
		}
		out.Phases[i] = phase
	}

	return out, rejections
}
