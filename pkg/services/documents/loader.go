package documents

import (
	"context"
	"fmt"

	"github.com/de-tools/estimator/pkg/adapters"
	"github.com/de-tools/estimator/pkg/models/domain"
	sqlstore "github.com/de-tools/estimator/pkg/store/sql"
)

// LoadRecords reads everything stored for a project from one transaction,
// so a concurrent import never yields a mixed snapshot.
func LoadRecords(ctx context.Context, projects sqlstore.ProjectStore, projectID string) (domain.Records, error) {
	var r domain.Records
	err := projects.InTransaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = loadRecords(ctx, projects, projectID)
		return err
	})
	return r, err
}

func loadRecords(ctx context.Context, projects sqlstore.ProjectStore, projectID string) (domain.Records, error) {
	p, err := projects.GetProject(ctx, projectID)
	if err != nil {
		return domain.Records{}, err
	}
	r := domain.Records{
		Project:    adapters.MapStoreProjectToDomain(p),
		TotalUnits: p.ScheduleUnits,
	}

	items, err := projects.ListCostItems(ctx, projectID)
	if err != nil {
		return domain.Records{}, fmt.Errorf("failed to load cost items: %w", err)
	}
	for _, item := range items {
		r.Items = append(r.Items, adapters.MapStoreCostItemToDomain(item))
	}

	addons, err := projects.ListAddons(ctx, projectID)
	if err != nil {
		return domain.Records{}, fmt.Errorf("failed to load addons: %w", err)
	}
	for _, a := range addons {
		r.Addons = append(r.Addons, adapters.MapStoreAddonToDomain(a))
	}

	checkpoints, err := projects.ListCheckpoints(ctx, projectID)
	if err != nil {
		return domain.Records{}, fmt.Errorf("failed to load checkpoints: %w", err)
	}
	for _, c := range checkpoints {
		r.Checkpoints = append(r.Checkpoints, adapters.MapStoreCheckpointToDomain(c))
	}

	phases, err := projects.ListPhases(ctx, projectID)
	if err != nil {
		return domain.Records{}, fmt.Errorf("failed to load phases: %w", err)
	}
	for _, p := range phases {
		r.Phases = append(r.Phases, adapters.MapStorePhaseToDomain(p))
	}

	activities, err := projects.ListActivities(ctx, projectID)
	if err != nil {
		return domain.Records{}, fmt.Errorf("failed to load activities: %w", err)
	}
	for _, a := range activities {
		r.Activities = append(r.Activities, adapters.MapStoreActivityToDomain(a))
	}
	return r, nil
}
