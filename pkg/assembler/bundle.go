package assembler

import (
	"fmt"

	"github.com/de-tools/estimator/pkg/models/domain"
)

// Bundle is the record snapshot a document is generated from. The set of
// implementations is closed: one per document kind.
type Bundle interface {
	Kind() domain.Kind
	subject() domain.Project
}

type EstimateBundle struct {
	Project domain.Project
	Items   []domain.LineItem
	Addons  []domain.Addon
}

type InspectionBundle struct {
	Project     domain.Project
	Checkpoints []domain.Checkpoint
}

// ScheduleBundle carries the phases of a schedule. A zero TotalUnits is
// derived from the phases.
type ScheduleBundle struct {
	Project    domain.Project
	Phases     []domain.Phase
	TotalUnits int
}

type ActivityLogBundle struct {
	Project    domain.Project
	Activities []domain.ActivityEntry
}

// ProjectReportBundle combines every record of a project.
type ProjectReportBundle struct {
	Project     domain.Project
	Items       []domain.LineItem
	Addons      []domain.Addon
	Checkpoints []domain.Checkpoint
	Phases      []domain.Phase
	TotalUnits  int
	Activities  []domain.ActivityEntry
}

func (*EstimateBundle) Kind() domain.Kind      { return domain.KindEstimate }
func (*InspectionBundle) Kind() domain.Kind    { return domain.KindInspection }
func (*ScheduleBundle) Kind() domain.Kind      { return domain.KindSchedule }
func (*ActivityLogBundle) Kind() domain.Kind   { return domain.KindActivityLog }
func (*ProjectReportBundle) Kind() domain.Kind { return domain.KindProjectReport }

func (b *EstimateBundle) subject() domain.Project      { return b.Project }
func (b *InspectionBundle) subject() domain.Project    { return b.Project }
func (b *ScheduleBundle) subject() domain.Project      { return b.Project }
func (b *ActivityLogBundle) subject() domain.Project   { return b.Project }
func (b *ProjectReportBundle) subject() domain.Project { return b.Project }

func spanOf(phases []domain.Phase, declared int) int {
	if declared != 0 {
		return declared
	}
	return domain.ScheduleSpan(phases)
}

// NewBundle cuts the bundle for kind out of a project's records.
func NewBundle(kind domain.Kind, r domain.Records) (Bundle, error) {
	switch kind {
	case domain.KindEstimate:
		return &EstimateBundle{Project: r.Project, Items: r.Items, Addons: r.Addons}, nil
	case domain.KindInspection:
		return &InspectionBundle{Project: r.Project, Checkpoints: r.Checkpoints}, nil
	case domain.KindSchedule:
		return &ScheduleBundle{Project: r.Project, Phases: r.Phases, TotalUnits: r.TotalUnits}, nil
	case domain.KindActivityLog:
		return &ActivityLogBundle{Project: r.Project, Activities: r.Activities}, nil
	case domain.KindProjectReport:
		return &ProjectReportBundle{
			Project:     r.Project,
			Items:       r.Items,
			Addons:      r.Addons,
			Checkpoints: r.Checkpoints,
			Phases:      r.Phases,
			TotalUnits:  r.TotalUnits,
			Activities:  r.Activities,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
