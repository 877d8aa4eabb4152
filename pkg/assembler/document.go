package assembler

import (
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/estimator/pkg/layout"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/render"
)

var ErrSectionOrder = errors.New("sections out of order")

// Section is one of the closed set of document building blocks.
type Section interface {
	stage() stage
}

type stage int

const (
	stageCover stage = iota
	stageSummary
	stageDetail
	stageTimeline
	stageFreeText
)

func (s stage) String() string {
	return [...]string{"cover", "summary", "detail table", "timeline", "free text"}[s]
}

// Cover opens the first page: document title, subject and a few key facts.
type Cover struct {
	Title    string
	Subtitle string
	Facts    []KeyValue
}

// KeyValue is one row of a two-column summary.
type KeyValue struct {
	Key       string
	Value     string
	Bold      bool
	Highlight *layout.Color
}

// KeyValueTable is the document summary.
type KeyValueTable struct {
	Title string
	Rows  []KeyValue
}

// ItemTable is a detail table with its own columns.
type ItemTable struct {
	Title   string
	Columns []render.Column
	Rows    [][]any
}

// Timeline is the schedule chart.
type Timeline struct {
	Title      string
	Phases     []domain.Phase
	TotalUnits int
}

// FreeText is a run of atomic text blocks.
type FreeText struct {
	Title  string
	Blocks []render.Block
}

func (Cover) stage() stage         { return stageCover }
func (KeyValueTable) stage() stage { return stageSummary }
func (ItemTable) stage() stage     { return stageDetail }
func (Timeline) stage() stage      { return stageTimeline }
func (FreeText) stage() stage      { return stageFreeText }

// Document is the immutable, drawable projection of a bundle.
type Document struct {
	Kind     domain.Kind
	Subject  string
	Date     time.Time
	Sections []Section
}

// Validate checks the section sequence: exactly one cover and one summary,
// then any number of detail tables, at most one timeline and any number of
// free text sections, in that order.
func (d Document) Validate() error {
	if len(d.Sections) < 2 {
		return fmt.Errorf("%w: a document needs a cover and a summary", ErrSectionOrder)
	}
	if d.Sections[0].stage() != stageCover {
		return fmt.Errorf("%w: first section is a %s", ErrSectionOrder, d.Sections[0].stage())
	}
	if d.Sections[1].stage() != stageSummary {
		return fmt.Errorf("%w: second section is a %s", ErrSectionOrder, d.Sections[1].stage())
	}

	last := stageSummary
	for i, s := range d.Sections[2:] {
		st := s.stage()
		if st < stageDetail || st < last || (st == stageTimeline && last == stageTimeline) {
			return fmt.Errorf("%w: %s at position %d follows %s", ErrSectionOrder, st, i+3, last)
		}
		last = st
	}
	return nil
}
