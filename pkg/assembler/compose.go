package assembler

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/de-tools/estimator/pkg/layout"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/pricing"
	"github.com/de-tools/estimator/pkg/render"
	"github.com/shopspring/decimal"
)

// composer projects bundles into documents. It never modifies the records.
type composer struct {
	cfg Config
}

func (c composer) cover(kind domain.Kind, p domain.Project, date string) Cover {
	l, loc := c.cfg.Labels, c.cfg.Locale
	return Cover{
		Title:    l.Kinds[kind].Title,
		Subtitle: loc.Text(p.Name),
		Facts: []KeyValue{
			{Key: l.Customer, Value: loc.Text(p.Customer)},
			{Key: l.Address, Value: loc.Text(p.Address)},
			{Key: l.Reference, Value: loc.Text(p.Reference)},
			{Key: l.Date, Value: date},
		},
	}
}

func (c composer) notes(p domain.Project) []Section {
	blocks := render.ParseBlocks(p.Notes)
	if len(blocks) == 0 {
		return nil
	}
	return []Section{FreeText{Title: c.cfg.Labels.Notes, Blocks: blocks}}
}

// totalsRows lists the price chain. Amounts show the placeholder when the
// document has nothing to price.
func (c composer) totalsRows(t pricing.Totals, hasAddons bool) []KeyValue {
	l, loc := c.cfg.Labels, c.cfg.Locale
	present := t.ItemCount > 0 || !t.Addons.IsZero()
	money := func(d decimal.Decimal) string { return loc.MoneyOrPlaceholder(d, present) }

	var rows []KeyValue
	for _, cat := range domain.Categories {
		rows = append(rows, KeyValue{Key: l.Categories[cat], Value: money(t.Of(cat))})
	}
	rows = append(rows,
		KeyValue{Key: l.ItemsSubtotal, Value: money(t.Subtotal)},
		KeyValue{Key: l.Markup + " " + loc.Percent(t.MarkupPercent), Value: money(t.Markup)},
	)
	if hasAddons && !t.AddonsAfterTax {
		rows = append(rows, KeyValue{Key: l.AddonsTotal, Value: money(t.Addons)})
	}
	rows = append(rows,
		KeyValue{Key: l.TotalExclTax, Value: money(t.TotalExclTax), Bold: true},
		KeyValue{Key: l.Tax + " " + loc.Percent(t.TaxPercent), Value: money(t.Tax)},
	)
	if hasAddons && t.AddonsAfterTax {
		rows = append(rows, KeyValue{Key: l.AddonsTotal, Value: money(t.Addons)})
	}
	rows = append(rows, KeyValue{Key: l.TotalInclTax, Value: money(t.TotalInclTax), Bold: true})

	if t.DeductionPercent.IsPositive() && t.DeductionBase.IsPositive() {
		rows = append(rows, KeyValue{Key: l.Deduction + " " + loc.Percent(t.DeductionPercent), Value: "-" + loc.Money(t.Deduction)})
		if c.cfg.Pricing.ShowNetAfterDeduction {
			rows = append(rows, KeyValue{Key: l.NetAfterDeduction, Value: loc.Money(t.NetAfterDeduction()), Bold: true})
		}
	}
	return rows
}

func (c composer) uncertaintyCell(u domain.Uncertainty) render.Cell {
	cell := render.Cell{Text: c.cfg.Locale.Text(c.cfg.Labels.Uncertainties[u])}
	if u == domain.UncertaintyHigh {
		hl := c.cfg.Theme.Highlights.Warning
		cell.Highlight = &hl
	}
	return cell
}

func (c composer) itemAmount(item domain.LineItem) (string, string) {
	loc := c.cfg.Locale
	switch {
	case item.IsLumpSum():
		return loc.Placeholder, c.cfg.Labels.LumpSum
	case item.Category == domain.CategoryLabor && item.Hours != nil:
		return loc.Number(*item.Hours, 2), "tim"
	default:
		return loc.OptionalNumber(item.Quantity, 2), loc.Text(item.Unit)
	}
}

func (c composer) itemColumns(withCategory, withDeduction bool) []render.Column {
	l := c.cfg.Labels
	var cols []render.Column
	if withCategory {
		cols = append(cols, render.Column{Header: c.cfg.Labels.Category, Width: 28})
	}
	cols = append(cols,
		render.Column{Header: l.Description, Wrap: true},
		render.Column{Header: l.Quantity, Width: 16, Align: layout.AlignRight},
		render.Column{Header: l.Unit, Width: 18},
		render.Column{Header: l.UnitPrice, Width: 22, Align: layout.AlignRight},
		render.Column{Header: l.Amount, Width: 24, Align: layout.AlignRight},
		render.Column{Header: l.Uncertainty, Width: 20, Align: layout.AlignCenter},
	)
	if withDeduction {
		cols = append(cols, render.Column{Header: l.Deductible, Width: 10, Align: layout.AlignCenter})
	}
	return cols
}

func (c composer) itemRow(item domain.LineItem, withCategory, withDeduction bool) []any {
	loc, l := c.cfg.Locale, c.cfg.Labels
	qty, unit := c.itemAmount(item)
	var row []any
	if withCategory {
		row = append(row, loc.Text(l.Categories[item.Category]))
	}
	row = append(row,
		loc.Text(item.Description),
		qty,
		unit,
		loc.Money(item.UnitPrice),
		loc.Money(pricing.ComputeSubtotal(item)),
		c.uncertaintyCell(item.Uncertainty),
	)
	if withDeduction {
		row = append(row, c.yesNo(item.TaxDeductionEligible))
	}
	return row
}

func (c composer) yesNo(v bool) string {
	if v {
		return c.cfg.Labels.Yes
	}
	return c.cfg.Labels.No
}

// itemSections renders one table per category that has items, or a single
// empty table when there are none.
func (c composer) itemSections(items []domain.LineItem) []Section {
	l := c.cfg.Labels
	var out []Section
	for _, cat := range domain.Categories {
		labor := cat == domain.CategoryLabor
		var rows [][]any
		for _, item := range items {
			if item.Category == cat {
				rows = append(rows, c.itemRow(item, false, labor))
			}
		}
		if len(rows) > 0 {
			out = append(out, ItemTable{Title: l.Categories[cat], Columns: c.itemColumns(false, labor), Rows: rows})
		}
	}
	if len(out) == 0 {
		out = append(out, ItemTable{Title: l.Items, Columns: c.itemColumns(false, false)})
	}
	return out
}

func (c composer) addonSection(addons []domain.Addon) []Section {
	if len(addons) == 0 {
		return nil
	}
	l, loc := c.cfg.Labels, c.cfg.Locale
	rows := make([][]any, len(addons))
	for i, a := range addons {
		rows[i] = []any{loc.Text(a.Name), loc.Money(a.Price), c.yesNo(a.Selected)}
	}
	return []Section{ItemTable{
		Title: l.Addons,
		Columns: []render.Column{
			{Header: l.Description, Wrap: true},
			{Header: l.Amount, Width: 30, Align: layout.AlignRight},
			{Header: l.Selected, Width: 16, Align: layout.AlignCenter},
		},
		Rows: rows,
	}}
}

func (c composer) estimate(b *EstimateBundle, date string) (Document, pricing.Totals, error) {
	kind := b.Kind()
	totals, err := pricing.Compute(b.Items, b.Addons, c.cfg.Pricing.Options(kind, b.Project.MarkupPercent))
	if err != nil {
		return Document{}, pricing.Totals{}, fmt.Errorf("failed to compute totals: %w", err)
	}

	sections := []Section{
		c.cover(kind, b.Project, date),
		KeyValueTable{Title: c.cfg.Labels.Summary, Rows: c.totalsRows(totals, len(b.Addons) > 0)},
	}
	sections = append(sections, c.itemSections(b.Items)...)
	sections = append(sections, c.addonSection(b.Addons)...)
	sections = append(sections, c.notes(b.Project)...)
	return Document{Kind: kind, Sections: sections}, totals, nil
}

// resultCell is a pure function of the checkpoint result.
func (c composer) resultCell(v any) render.Cell {
	r, _ := v.(domain.CheckpointResult)
	h := c.cfg.Theme.Highlights
	cell := render.Cell{Text: c.cfg.Labels.Results[r]}
	switch r {
	case domain.ResultOK:
		cell.Highlight = &h.OK
	case domain.ResultDeviation:
		cell.Highlight = &h.Deviation
		cell.Bold = true
	}
	return cell
}

func (c composer) count(n int, present bool) string {
	if !present {
		return c.cfg.Locale.Placeholder
	}
	return strconv.Itoa(n)
}

func (c composer) inspectionRows(s domain.InspectionSummary) []KeyValue {
	l := c.cfg.Labels
	present := s.Total > 0
	rows := []KeyValue{
		{Key: l.Total, Value: c.count(s.Total, present)},
		{Key: l.Results[domain.ResultOK], Value: c.count(s.OK, present)},
		{Key: l.Deviations, Value: c.count(s.Deviations, present)},
		{Key: l.NotApplicable, Value: c.count(s.NotApplicable, present)},
		{Key: l.Results[domain.ResultUnset], Value: c.count(s.Unset, present)},
		{Key: l.RequiredOpen, Value: c.count(s.RequiredOpen, present), Bold: s.RequiredOpen > 0},
	}
	if s.Deviations > 0 {
		hl := c.cfg.Theme.Highlights.Deviation
		rows[2].Highlight = &hl
	}
	if s.RequiredOpen > 0 {
		hl := c.cfg.Theme.Highlights.Warning
		rows[5].Highlight = &hl
	}
	return rows
}

func (c composer) checkpointSection(checkpoints []domain.Checkpoint) Section {
	l, loc := c.cfg.Labels, c.cfg.Locale
	rows := make([][]any, len(checkpoints))
	for i, cp := range checkpoints {
		required := ""
		if cp.Required {
			required = l.Yes
		}
		rows[i] = []any{strconv.Itoa(i + 1), loc.Text(cp.Text), required, cp.Result, cp.Comment}
	}
	return ItemTable{
		Title: l.Checkpoints,
		Columns: []render.Column{
			{Header: "#", Width: 8, Align: layout.AlignRight},
			{Header: l.Checkpoint, Wrap: true},
			{Header: l.Required, Width: 20, Align: layout.AlignCenter},
			{Header: l.Result, Width: 26, Align: layout.AlignCenter, Format: c.resultCell},
			{Header: l.Comment, Width: 46, Wrap: true},
		},
		Rows: rows,
	}
}

func (c composer) inspection(b *InspectionBundle, date string) Document {
	kind := b.Kind()
	sections := []Section{
		c.cover(kind, b.Project, date),
		KeyValueTable{Title: c.cfg.Labels.Summary, Rows: c.inspectionRows(domain.SummarizeCheckpoints(b.Checkpoints))},
		c.checkpointSection(b.Checkpoints),
	}
	sections = append(sections, c.notes(b.Project)...)
	return Document{Kind: kind, Sections: sections}
}

func (c composer) units(n int) string {
	if n == 1 {
		return "1 " + c.cfg.Labels.Unit1
	}
	return strconv.Itoa(n) + " " + c.cfg.Labels.UnitN
}

func (c composer) scheduleRows(phases []domain.Phase, span int) []KeyValue {
	l := c.cfg.Labels
	present := len(phases) > 0
	parallel := 0
	for _, p := range phases {
		if p.ParallelWith != "" {
			parallel++
		}
	}
	spanText := c.cfg.Locale.Placeholder
	if present && span > 0 {
		spanText = c.units(span)
	}
	return []KeyValue{
		{Key: l.Phases, Value: c.count(len(phases), present)},
		{Key: l.Span, Value: spanText, Bold: true},
		{Key: l.ParallelWith, Value: c.count(parallel, present)},
	}
}

func (c composer) phaseSection(phases []domain.Phase) Section {
	l, loc := c.cfg.Labels, c.cfg.Locale
	rows := make([][]any, len(phases))
	for i, p := range phases {
		rows[i] = []any{
			loc.Text(p.Name),
			l.UnitShort + " " + strconv.Itoa(p.StartUnit),
			c.units(p.DurationUnits),
			l.UnitShort + " " + strconv.Itoa(p.EndUnit()),
			loc.Text(p.ParallelWith),
		}
	}
	return ItemTable{
		Title: l.Phases,
		Columns: []render.Column{
			{Header: l.Phase, Wrap: true},
			{Header: l.Start, Width: 18, Align: layout.AlignRight},
			{Header: l.Duration, Width: 22, Align: layout.AlignRight},
			{Header: l.End, Width: 18, Align: layout.AlignRight},
			{Header: l.ParallelWith, Width: 40},
		},
		Rows: rows,
	}
}

func (c composer) timelineSection(phases []domain.Phase, span int) []Section {
	if len(phases) == 0 {
		return nil
	}
	return []Section{Timeline{Title: c.cfg.Labels.Timeline, Phases: phases, TotalUnits: span}}
}

func (c composer) schedule(b *ScheduleBundle, date string) Document {
	kind := b.Kind()
	span := spanOf(b.Phases, b.TotalUnits)
	sections := []Section{
		c.cover(kind, b.Project, date),
		KeyValueTable{Title: c.cfg.Labels.Summary, Rows: c.scheduleRows(b.Phases, span)},
		c.phaseSection(b.Phases),
	}
	sections = append(sections, c.timelineSection(b.Phases, span)...)
	sections = append(sections, c.notes(b.Project)...)
	return Document{Kind: kind, Sections: sections}
}

func sortedActivities(entries []domain.ActivityEntry) []domain.ActivityEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b domain.ActivityEntry) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

func (c composer) activityRows(entries []domain.ActivityEntry) []KeyValue {
	l, loc := c.cfg.Labels, c.cfg.Locale
	present := len(entries) > 0

	days := map[string]struct{}{}
	hours, anyHours := decimal.Zero, false
	for _, e := range entries {
		if !e.Date.IsZero() {
			days[e.Date.Format("2006-01-02")] = struct{}{}
		}
		if e.Hours != nil {
			hours = hours.Add(*e.Hours)
			anyHours = true
		}
	}
	hoursText := loc.Placeholder
	if anyHours {
		hoursText = loc.Number(hours, 2)
	}
	return []KeyValue{
		{Key: l.Activities, Value: c.count(len(entries), present)},
		{Key: l.Days, Value: c.count(len(days), present)},
		{Key: l.TotalHours, Value: hoursText, Bold: true},
	}
}

func (c composer) activitySection(entries []domain.ActivityEntry) Section {
	l, loc := c.cfg.Labels, c.cfg.Locale
	sorted := sortedActivities(entries)
	rows := make([][]any, len(sorted))
	for i, e := range sorted {
		rows[i] = []any{loc.DayDate(e.Date), loc.Text(e.Description), loc.OptionalNumber(e.Hours, 2), loc.Text(e.Crew)}
	}
	return ItemTable{
		Title: l.Activities,
		Columns: []render.Column{
			{Header: l.Day, Width: 40},
			{Header: l.Description, Wrap: true},
			{Header: l.Hours, Width: 16, Align: layout.AlignRight},
			{Header: l.Crew, Width: 34, Wrap: true},
		},
		Rows: rows,
	}
}

func (c composer) activityLog(b *ActivityLogBundle, date string) Document {
	kind := b.Kind()
	sections := []Section{
		c.cover(kind, b.Project, date),
		KeyValueTable{Title: c.cfg.Labels.Summary, Rows: c.activityRows(b.Activities)},
		c.activitySection(b.Activities),
	}
	sections = append(sections, c.notes(b.Project)...)
	return Document{Kind: kind, Sections: sections}
}

func (c composer) projectReport(b *ProjectReportBundle, date string) (Document, pricing.Totals, error) {
	kind := b.Kind()
	totals, err := pricing.Compute(b.Items, b.Addons, c.cfg.Pricing.Options(kind, b.Project.MarkupPercent))
	if err != nil {
		return Document{}, pricing.Totals{}, fmt.Errorf("failed to compute totals: %w", err)
	}
	span := spanOf(b.Phases, b.TotalUnits)

	summary := c.totalsRows(totals, len(b.Addons) > 0)
	inspection := c.inspectionRows(domain.SummarizeCheckpoints(b.Checkpoints))
	summary = append(summary, inspection[2], inspection[5])
	summary = append(summary, c.scheduleRows(b.Phases, span)[1])
	summary = append(summary, c.activityRows(b.Activities)[2])

	rows := make([][]any, len(b.Items))
	for i, item := range b.Items {
		rows[i] = c.itemRow(item, true, true)
	}

	sections := []Section{
		c.cover(kind, b.Project, date),
		KeyValueTable{Title: c.cfg.Labels.Summary, Rows: summary},
		ItemTable{Title: c.cfg.Labels.Items, Columns: c.itemColumns(true, true), Rows: rows},
	}
	sections = append(sections, c.addonSection(b.Addons)...)
	sections = append(sections, c.checkpointSection(b.Checkpoints), c.activitySection(b.Activities))
	if len(b.Phases) > 0 {
		sections = append(sections, c.phaseSection(b.Phases))
	}
	sections = append(sections, c.timelineSection(b.Phases, span)...)
	sections = append(sections, c.notes(b.Project)...)
	return Document{Kind: kind, Sections: sections}, totals, nil
}
