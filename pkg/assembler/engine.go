// Package assembler turns record bundles into paginated documents: it composes
// the per kind section sequence, lays it out page by page and stamps footers
// once the page count is known.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/estimator/pkg/layout"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/pricing"
	"github.com/rs/zerolog"
)

var (
	ErrNilBundle   = errors.New("bundle is nil")
	ErrUnknownKind = errors.New("unknown document kind")
)

// Result is a laid out document. Pages keep every drawing instruction until
// the caller has written the artifact.
type Result struct {
	Kind        domain.Kind
	Title       string
	Subject     string
	FileName    string
	Page        layout.PageSpec
	Pages       []*layout.Page
	Totals      *pricing.Totals
	GeneratedAt time.Time
	// Warnings lists degraded content: clipped blocks and dropped phases.
	Warnings []error
}

type Assembler interface {
	// Assemble composes and lays out the document for a bundle.
	Assemble(ctx context.Context, bundle Bundle) (*Result, error)
	// Layout lays out an already composed document.
	Layout(ctx context.Context, doc Document) (*Result, error)
}

type Option func(*engine)

// WithClock replaces the generation time source.
func WithClock(now func() time.Time) Option {
	return func(e *engine) {
		e.now = now
	}
}

type engine struct {
	cfg Config
	now func() time.Time
}

// NewAssembler returns an assembler for cfg. The assembler holds no state
// between calls and is safe for concurrent use.
func NewAssembler(cfg Config, opts ...Option) Assembler {
	e := &engine{cfg: cfg, now: time.Now}
	if e.cfg.Measurer == nil {
		e.cfg.Measurer = func() layout.Measurer { return layout.FixedMeasurer{} }
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *engine) compose(bundle Bundle, now time.Time) (Document, *pricing.Totals, error) {
	c := composer{cfg: e.cfg}
	date := e.cfg.Locale.Date(now)

	switch b := bundle.(type) {
	case *EstimateBundle:
		if b == nil {
			return Document{}, nil, ErrNilBundle
		}
		doc, totals, err := c.estimate(b, date)
		return doc, &totals, err
	case *InspectionBundle:
		if b == nil {
			return Document{}, nil, ErrNilBundle
		}
		return c.inspection(b, date), nil, nil
	case *ScheduleBundle:
		if b == nil {
			return Document{}, nil, ErrNilBundle
		}
		return c.schedule(b, date), nil, nil
	case *ActivityLogBundle:
		if b == nil {
			return Document{}, nil, ErrNilBundle
		}
		return c.activityLog(b, date), nil, nil
	case *ProjectReportBundle:
		if b == nil {
			return Document{}, nil, ErrNilBundle
		}
		doc, totals, err := c.projectReport(b, date)
		return doc, &totals, err
	case nil:
		return Document{}, nil, ErrNilBundle
	default:
		return Document{}, nil, fmt.Errorf("%w: %T", ErrUnknownKind, bundle)
	}
}

func (e *engine) Assemble(ctx context.Context, bundle Bundle) (*Result, error) {
	now := e.now()
	doc, totals, err := e.compose(bundle, now)
	if err != nil {
		return nil, err
	}
	doc.Subject = bundle.subject().Name
	doc.Date = now

	res, err := e.Layout(ctx, doc)
	if err != nil {
		return nil, err
	}
	res.Totals = totals
	return res, nil
}

func (e *engine) Layout(ctx context.Context, doc Document) (*Result, error) {
	labels, ok := e.cfg.Labels.Kinds[doc.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, doc.Kind)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	generated := doc.Date
	if generated.IsZero() {
		generated = e.now()
	}

	logger := zerolog.Ctx(ctx).With().Str("kind", string(doc.Kind)).Logger()
	w := &pageWriter{
		cfg:    e.cfg,
		cursor: layout.NewCursor(e.cfg.Page),
		m:      e.cfg.Measurer(),
		log:    &logger,
	}
	for _, s := range doc.Sections {
		w.section(s)
	}
	w.stampFooters(generated)

	pages := w.cursor.Pages()
	logger.Debug().Int("pages", len(pages)).Int("warnings", len(w.warnings)).Msg("document laid out")

	return &Result{
		Kind:        doc.Kind,
		Title:       labels.Title,
		Subject:     doc.Subject,
		FileName:    DeriveFileName(doc.Subject, generated, labels.Suffix),
		Page:        e.cfg.Page,
		Pages:       pages,
		GeneratedAt: generated,
		Warnings:    w.warnings,
	}, nil
}
