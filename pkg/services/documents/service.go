// Package documents generates, prices and publishes project documents.
package documents

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/de-tools/estimator/pkg/adapters"
	"github.com/de-tools/estimator/pkg/assembler"
	"github.com/de-tools/estimator/pkg/export"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/objectstore"
	"github.com/de-tools/estimator/pkg/pricing"
	sqlstore "github.com/de-tools/estimator/pkg/store/sql"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const ContentType = "application/pdf"

var ErrNotConfigured = errors.New("service dependency is not configured")

type MetricsRecorder interface {
	RecordSuccess(kind string, pages int, duration time.Duration)
	RecordFailure(kind string, duration time.Duration)
}

// Artifact is a rendered document held in memory.
type Artifact struct {
	Result *assembler.Result
	PDF    []byte
}

// Publication is a stored artifact.
type Publication struct {
	Receipt  domain.Receipt
	Warnings []error
}

type Service interface {
	// Totals prices records the way a document of kind would.
	Totals(ctx context.Context, kind domain.Kind, records domain.Records) (pricing.Totals, error)
	ProjectTotals(ctx context.Context, projectID string) (pricing.Totals, error)
	Render(ctx context.Context, kind domain.Kind, records domain.Records) (*Artifact, error)
	// Publish renders a stored project and writes the artifact to the object store.
	Publish(ctx context.Context, projectID string, kind domain.Kind) (*Publication, error)
	// Import stores records, assigning ids where missing.
	Import(ctx context.Context, records domain.Records) (domain.Records, error)
}

type Dependencies struct {
	Assembler assembler.Assembler
	Pricing   assembler.PricingConfig
	Projects  sqlstore.ProjectStore
	Objects   objectstore.Store
	Metrics   MetricsRecorder
	Author    string
}

type service struct {
	deps Dependencies
	now  func() time.Time
}

func NewService(deps Dependencies) Service {
	return &service{deps: deps, now: time.Now}
}

func (s *service) Totals(_ context.Context, kind domain.Kind, records domain.Records) (pricing.Totals, error) {
	if kind == "" {
		kind = domain.KindEstimate
	}
	return pricing.Compute(records.Items, records.Addons, s.deps.Pricing.Options(kind, records.Project.MarkupPercent))
}

func (s *service) ProjectTotals(ctx context.Context, projectID string) (pricing.Totals, error) {
	if s.deps.Projects == nil {
		return pricing.Totals{}, fmt.Errorf("%w: project store", ErrNotConfigured)
	}
	records, err := LoadRecords(ctx, s.deps.Projects, projectID)
	if err != nil {
		return pricing.Totals{}, err
	}
	return s.Totals(ctx, domain.KindEstimate, records)
}

func (s *service) record(kind domain.Kind, started time.Time, pages int, err error) {
	if s.deps.Metrics == nil {
		return
	}
	elapsed := s.now().Sub(started)
	if err != nil {
		s.deps.Metrics.RecordFailure(string(kind), elapsed)
		return
	}
	s.deps.Metrics.RecordSuccess(string(kind), pages, elapsed)
}

func (s *service) Render(ctx context.Context, kind domain.Kind, records domain.Records) (artifact *Artifact, err error) {
	started := s.now()
	defer func() {
		pages := 0
		if artifact != nil {
			pages = len(artifact.Result.Pages)
		}
		s.record(kind, started, pages, err)
	}()

	bundle, err := assembler.NewBundle(kind, records)
	if err != nil {
		return nil, err
	}
	res, err := s.deps.Assembler.Assemble(ctx, bundle)
	if err != nil {
		return nil, fmt.Errorf("could not generate %s: %w", kind, err)
	}
	for _, w := range res.Warnings {
		zerolog.Ctx(ctx).Warn().Err(w).Str("kind", string(kind)).Msg("document content degraded")
	}

	pdf, err := export.Render(res.Pages, res.Page, export.Meta{
		Title:     res.Title,
		Subject:   res.Subject,
		Author:    s.deps.Author,
		Creator:   "estimator",
		CreatedAt: res.GeneratedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("could not write %s: %w", kind, err)
	}
	return &Artifact{Result: res, PDF: pdf}, nil
}

// ObjectKey places an artifact below its project and kind. The random
// segment keeps every generation.
func ObjectKey(projectID string, kind domain.Kind, fileName string) string {
	return path.Join(projectID, string(kind), uuid.NewString(), fileName)
}

func (s *service) Publish(ctx context.Context, projectID string, kind domain.Kind) (*Publication, error) {
	if s.deps.Projects == nil || s.deps.Objects == nil {
		return nil, fmt.Errorf("%w: project store and object store are required", ErrNotConfigured)
	}
	logger := zerolog.Ctx(ctx).With().Str("project", projectID).Str("kind", string(kind)).Logger()
	ctx = logger.WithContext(ctx)

	records, err := LoadRecords(ctx, s.deps.Projects, projectID)
	if err != nil {
		return nil, err
	}
	artifact, err := s.Render(ctx, kind, records)
	if err != nil {
		return nil, err
	}

	key := ObjectKey(projectID, kind, artifact.Result.FileName)
	location, err := s.deps.Objects.Put(ctx, key, ContentType, artifact.PDF)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	logger.Info().Str("location", location).Int("pages", len(artifact.Result.Pages)).Msg("document published")

	return &Publication{
		Receipt: domain.Receipt{
			ProjectID:   projectID,
			Kind:        kind,
			FileName:    artifact.Result.FileName,
			Key:         key,
			Location:    location,
			Pages:       len(artifact.Result.Pages),
			Bytes:       len(artifact.PDF),
			GeneratedAt: artifact.Result.GeneratedAt,
		},
		Warnings: artifact.Result.Warnings,
	}, nil
}

func withIDs(r domain.Records, now time.Time) domain.Records {
	if r.Project.ID == "" {
		r.Project.ID = uuid.NewString()
	}
	if r.Project.CreatedAt.IsZero() {
		r.Project.CreatedAt = now
	}
	r.Items = pricing.WithSubtotals(r.Items)
	for i := range r.Items {
		if r.Items[i].ID == "" {
			r.Items[i].ID = uuid.NewString()
		}
	}

	r.Addons = append([]domain.Addon(nil), r.Addons...)
	for i := range r.Addons {
		if r.Addons[i].ID == "" {
			r.Addons[i].ID = uuid.NewString()
		}
	}
	r.Checkpoints = append([]domain.Checkpoint(nil), r.Checkpoints...)
	for i := range r.Checkpoints {
		if r.Checkpoints[i].ID == "" {
			r.Checkpoints[i].ID = uuid.NewString()
		}
	}
	r.Phases = append([]domain.Phase(nil), r.Phases...)
	for i := range r.Phases {
		if r.Phases[i].ID == "" {
			r.Phases[i].ID = uuid.NewString()
		}
	}
	r.Activities = append([]domain.ActivityEntry(nil), r.Activities...)
	for i := range r.Activities {
		if r.Activities[i].ID == "" {
			r.Activities[i].ID = uuid.NewString()
		}
	}
	return r
}

func (s *service) Import(ctx context.Context, records domain.Records) (domain.Records, error) {
	if s.deps.Projects == nil {
		return domain.Records{}, fmt.Errorf("%w: project store", ErrNotConfigured)
	}
	records = withIDs(records, s.now())
	if err := s.deps.Projects.Import(ctx, adapters.MapRecordsDomainToStoreSnapshot(records)); err != nil {
		return domain.Records{}, fmt.Errorf("failed to import project %s: %w", records.Project.ID, err)
	}
	zerolog.Ctx(ctx).Info().Str("project", records.Project.ID).Int("items", len(records.Items)).Msg("project imported")
	return records, nil
}
