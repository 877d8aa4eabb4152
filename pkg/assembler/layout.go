package assembler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/de-tools/estimator/pkg/layout"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/render"
	"github.com/rs/zerolog"
)

// pageWriter draws the sections of one document. It owns the cursor of a
// single Assemble call.
type pageWriter struct {
	cfg      Config
	cursor   *layout.Cursor
	m        layout.Measurer
	log      *zerolog.Logger
	warnings []error
}

func (w *pageWriter) warn(err error, section string) {
	if err == nil {
		return
	}
	w.log.Warn().Err(err).Str("section", section).Int("page", w.cursor.PageIndex()+1).Msg("content degraded")
	w.warnings = append(w.warnings, err)
}

func (w *pageWriter) lineHeight(size float64) float64 {
	return size * layout.PtToMM * 1.3
}

func (w *pageWriter) cover(s Cover) {
	if !w.cursor.AtTop() {
		w.cursor.BreakPage()
	}
	st := w.cfg.Theme.Cover
	text := w.cfg.Theme.Text
	spec := w.cursor.Spec()
	left, width := spec.MarginLeft, spec.ContentWidth()

	band := st.BandColor
	w.cursor.Draw(layout.Rect{X: left, Y: w.cursor.Y(), W: width, H: 2.5, Fill: &band})
	w.cursor.Advance(2.5 + 5)

	titleH := w.lineHeight(st.TitleSize)
	w.cursor.Draw(layout.Text{
		X:     left,
		Y:     w.cursor.Y() + titleH*0.8,
		Value: layout.Truncate(w.m, s.Title, width, st.TitleSize, true),
		Size:  st.TitleSize,
		Bold:  true,
		Color: st.TitleColor,
	})
	w.cursor.Advance(titleH)

	subH := w.lineHeight(st.SubtitleSize)
	w.cursor.Draw(layout.Text{
		X:     left,
		Y:     w.cursor.Y() + subH*0.8,
		Value: layout.Truncate(w.m, s.Subtitle, width, st.SubtitleSize, false),
		Size:  st.SubtitleSize,
		Color: st.TextColor,
	})
	w.cursor.Advance(subH + 3)

	keyWidth := 0.0
	for _, f := range s.Facts {
		if kw := w.m.Width(f.Key, text.FontSize, true); kw > keyWidth {
			keyWidth = kw
		}
	}
	keyWidth += 4
	for _, f := range s.Facts {
		baseline := w.cursor.Y() + text.LineHeight*0.78
		w.cursor.Draw(layout.Text{X: left, Y: baseline, Value: f.Key, Size: text.FontSize, Bold: true, Color: st.TextColor})
		w.cursor.Draw(layout.Text{
			X:     left + keyWidth,
			Y:     baseline,
			Value: layout.Truncate(w.m, f.Value, width-keyWidth, text.FontSize, false),
			Size:  text.FontSize,
			Color: st.TextColor,
		})
		w.cursor.Advance(text.LineHeight)
	}

	rule := w.cfg.Theme.Table.RuleColor
	w.cursor.Advance(2)
	w.cursor.Draw(layout.Line{X1: left, Y1: w.cursor.Y(), X2: left + width, Y2: w.cursor.Y(), Color: rule, Width: 0.3})
	w.cursor.Advance(st.After)
}

func (w *pageWriter) heading(title string, keepWith float64) {
	if title == "" {
		return
	}
	w.warn(render.RenderHeading(w.cursor, w.m, title, w.cfg.Theme.Heading, keepWith), title)
}

func (w *pageWriter) summary(s KeyValueTable) {
	style := w.cfg.Theme.Summary

	rows := make([][]any, len(s.Rows))
	for i, kv := range s.Rows {
		rows[i] = []any{
			render.Cell{Text: kv.Key, Bold: kv.Bold},
			render.Cell{Text: kv.Value, Bold: kv.Bold, Highlight: kv.Highlight},
		}
	}
	columns := []render.Column{
		{Header: "", Wrap: true},
		{Header: "", Width: 55, Align: layout.AlignRight},
	}
	w.heading(s.Title, render.LeadHeight(w.cursor, w.m, columns, rows, style))
	_, err := render.RenderTable(w.cursor, w.m, columns, rows, style)
	w.warn(err, s.Title)
}

func (w *pageWriter) table(s ItemTable) {
	style := w.cfg.Theme.Table
	style.EmptyText = w.cfg.Locale.Placeholder
	w.heading(s.Title, render.LeadHeight(w.cursor, w.m, s.Columns, s.Rows, style))
	_, err := render.RenderTable(w.cursor, w.m, s.Columns, s.Rows, style)
	w.warn(err, s.Title)
}

func (w *pageWriter) timelineStyle() render.TimelineStyle {
	style := w.cfg.Theme.Timeline
	l := w.cfg.Labels
	if style.DurationLabel == nil {
		style.DurationLabel = func(units int) string { return strconv.Itoa(units) + " " + l.UnitShort }
	}
	if style.PhaseLabel == nil {
		style.PhaseLabel = func(p domain.Phase) string {
			if p.ParallelWith == "" {
				return p.Name
			}
			return fmt.Sprintf("%s (%s)", p.Name, p.ParallelWith)
		}
	}
	return style
}

// validPhases drops the phases that cannot be placed and reports each one.
// Nothing is left when the span itself is invalid.
func (w *pageWriter) validPhases(s Timeline) []domain.Phase {
	errs := render.ValidateTimeline(s.Phases, s.TotalUnits)
	if len(errs) == 0 {
		return s.Phases
	}
	invalid := make(map[int]bool, len(errs))
	for _, e := range errs {
		w.warn(e, s.Title)
		if e.Phase < 0 {
			return nil
		}
		invalid[e.Phase] = true
	}
	var out []domain.Phase
	for i, p := range s.Phases {
		if !invalid[i] {
			out = append(out, p)
		}
	}
	return out
}

func (w *pageWriter) timeline(s Timeline) {
	phases := w.validPhases(s)
	if len(phases) == 0 {
		return
	}
	style := w.timelineStyle()
	w.heading(s.Title, style.HeaderHeight+style.RowHeight)

	axis := w.cursor.Spec().ContentWidth() - style.LabelWidth
	_, err := render.RenderTimeline(w.cursor, w.m, phases, s.TotalUnits, axis, style, w.cfg.Theme.Palette)
	w.warn(err, s.Title)
}

func (w *pageWriter) freeText(s FreeText) {
	style := w.cfg.Theme.Text
	w.heading(s.Title, render.FirstBlockHeight(w.m, s.Blocks, w.cursor.Spec().ContentWidth(), style))
	w.warn(render.RenderFreeText(w.cursor, w.m, s.Blocks, style), s.Title)
}

func (w *pageWriter) section(s Section) {
	switch v := s.(type) {
	case Cover:
		w.cover(v)
	case KeyValueTable:
		w.summary(v)
	case ItemTable:
		w.table(v)
	case Timeline:
		w.timeline(v)
	case FreeText:
		w.freeText(v)
	}
}

// stampFooters runs once every page is known: it writes the generation time
// and "page X of Y" at the bottom of each retained page.
func (w *pageWriter) stampFooters(generated time.Time) {
	st := w.cfg.Theme.Footer
	spec := w.cursor.Spec()
	pages := w.cursor.Pages()
	y := spec.Height - st.Offset
	left, right := spec.MarginLeft, spec.Width-spec.MarginRight
	stamp := w.cfg.Labels.Generated + " " + w.cfg.Locale.Timestamp(generated)

	for i, p := range pages {
		p.Add(layout.Line{X1: left, Y1: y - 4, X2: right, Y2: y - 4, Color: w.cfg.Theme.Table.RuleColor, Width: 0.2})
		p.Add(layout.Text{X: left, Y: y, Value: stamp, Size: st.FontSize, Color: st.Color})

		label := fmt.Sprintf(w.cfg.Labels.PageOf, i+1, len(pages))
		p.Add(layout.Text{
			X:     right - w.m.Width(label, st.FontSize, false),
			Y:     y,
			Value: label,
			Size:  st.FontSize,
			Color: st.Color,
		})
	}
}
