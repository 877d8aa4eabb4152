package render

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/de-tools/estimator/pkg/layout"
	"github.com/de-tools/estimator/pkg/models/domain"
)

type TimelineStyle struct {
	LabelWidth   float64 // phase name column left of the axis
	RowHeight    float64
	HeaderHeight float64
	MinBarWidth  float64
	BarInset     float64 // vertical gap between a bar and its row edges
	FontSize     float64
	GridColor    layout.Color
	TextColor    layout.Color
	BarTextColor layout.Color
	HeaderFill   layout.Color

	UnitLabel     func(unit int) string
	DurationLabel func(units int) string
	PhaseLabel    func(p domain.Phase) string
}

// BarGeometry is where one phase bar was drawn. X is relative to the axis
// origin, Y is the page-relative top of the phase row.
type BarGeometry struct {
	Phase int
	Page  int
	X, Y  float64
	W, H  float64
	Color layout.Color
	Label string // empty when the duration label did not fit
}

// RangeError identifies a phase, or the whole span when Phase is -1, that
// cannot be placed on the axis.
type RangeError struct {
	Phase  int
	Name   string
	Reason string
}

func (e *RangeError) Error() string {
	if e.Phase < 0 {
		return "timeline: " + e.Reason
	}
	return fmt.Sprintf("timeline phase %d (%q): %s", e.Phase+1, e.Name, e.Reason)
}

// ValidateTimeline checks every phase against the declared span.
func ValidateTimeline(phases []domain.Phase, totalUnits int) []*RangeError {
	if len(phases) == 0 {
		return nil
	}
	if totalUnits <= 0 {
		return []*RangeError{{Phase: -1, Reason: fmt.Sprintf("non-positive span %d", totalUnits)}}
	}

	var out []*RangeError
	for i, p := range phases {
		switch {
		case p.StartUnit < 1:
			out = append(out, &RangeError{Phase: i, Name: p.Name, Reason: fmt.Sprintf("start %d before unit 1", p.StartUnit)})
		case p.StartUnit > totalUnits:
			out = append(out, &RangeError{Phase: i, Name: p.Name, Reason: fmt.Sprintf("start %d beyond span %d", p.StartUnit, totalUnits)})
		case p.DurationUnits < 1:
			out = append(out, &RangeError{Phase: i, Name: p.Name, Reason: fmt.Sprintf("duration %d shorter than one unit", p.DurationUnits)})
		}
	}
	return out
}

func joinRangeErrors(errs []*RangeError) error {
	list := make([]error, len(errs))
	for i, e := range errs {
		list[i] = e
	}
	return errors.Join(list...)
}

type timelineRenderer struct {
	cursor    *layout.Cursor
	m         layout.Measurer
	style     TimelineStyle
	axisX     float64
	axisWidth float64
	units     int
	unitWidth float64
}

func (r *timelineRenderer) unitLabel(u int) string {
	if r.style.UnitLabel != nil {
		return r.style.UnitLabel(u)
	}
	return strconv.Itoa(u)
}

// labelStep is how many units share one header label when labels are wider
// than a unit cell.
func (r *timelineRenderer) labelStep() int {
	widest := 0.0
	for u := 1; u <= r.units; u++ {
		if w := r.m.Width(r.unitLabel(u), r.style.FontSize, false); w > widest {
			widest = w
		}
	}
	if r.unitWidth <= 0 || widest+1 <= r.unitWidth {
		return 1
	}
	return int(math.Ceil((widest + 1) / r.unitWidth))
}

func (r *timelineRenderer) drawHeader() {
	top := r.cursor.Y()
	h := r.style.HeaderHeight
	fill := r.style.HeaderFill
	r.cursor.Draw(layout.Rect{X: r.axisX, Y: top, W: r.axisWidth, H: h, Fill: &fill})

	step := r.labelStep()
	for u := 1; u <= r.units; u++ {
		x := r.axisX + float64(u-1)*r.unitWidth
		r.cursor.Draw(layout.Line{X1: x, Y1: top, X2: x, Y2: top + h, Color: r.style.GridColor, Width: 0.2})
		if (u-1)%step != 0 {
			continue
		}
		label := r.unitLabel(u)
		w := r.m.Width(label, r.style.FontSize, false)
		r.cursor.Draw(layout.Text{
			X:     x + (r.unitWidth-w)/2,
			Y:     top + h*0.7,
			Value: label,
			Size:  r.style.FontSize,
			Color: r.style.TextColor,
		})
	}
	end := r.axisX + r.axisWidth
	r.cursor.Draw(layout.Line{X1: end, Y1: top, X2: end, Y2: top + h, Color: r.style.GridColor, Width: 0.2})
	r.cursor.Advance(h)
}

// drawRow draws one phase row of height h. h is below the style's row height
// only when the row is clipped at the bottom margin.
func (r *timelineRenderer) drawRow(index int, p domain.Phase, palette Palette, h float64) BarGeometry {
	top := r.cursor.Y()
	left := r.cursor.Spec().MarginLeft

	for u := 0; u <= r.units; u++ {
		x := r.axisX + float64(u)*r.unitWidth
		r.cursor.Draw(layout.Line{X1: x, Y1: top, X2: x, Y2: top + h, Color: r.style.GridColor, Width: 0.1, Dashed: true})
	}
	r.cursor.Draw(layout.Line{X1: left, Y1: top + h, X2: r.axisX + r.axisWidth, Y2: top + h, Color: r.style.GridColor, Width: 0.1})

	name := p.Name
	if r.style.PhaseLabel != nil {
		name = r.style.PhaseLabel(p)
	}
	name = layout.Truncate(r.m, name, r.style.LabelWidth-2, r.style.FontSize, false)
	r.cursor.Draw(layout.Text{X: left, Y: top + h*0.65, Value: name, Size: r.style.FontSize, Color: r.style.TextColor})

	x := float64(p.StartUnit-1) * r.unitWidth
	w := float64(p.DurationUnits) * r.unitWidth
	if x+w > r.axisWidth {
		w = r.axisWidth - x
	}
	if w < r.style.MinBarWidth {
		w = r.style.MinBarWidth
	}

	color := palette.Resolve(p.ColorKey)
	fill := color
	barTop := top + r.style.BarInset
	barH := max(0, h-2*r.style.BarInset)
	r.cursor.Draw(layout.Rect{X: r.axisX + x, Y: barTop, W: w, H: barH, Fill: &fill})

	geometry := BarGeometry{Phase: index, Page: r.cursor.PageIndex(), X: x, Y: top, W: w, H: barH, Color: color}

	label := strconv.Itoa(p.DurationUnits)
	if r.style.DurationLabel != nil {
		label = r.style.DurationLabel(p.DurationUnits)
	}
	if lw := r.m.Width(label, r.style.FontSize, true); barH > 0 && lw+2 <= w {
		r.cursor.Draw(layout.Text{
			X:     r.axisX + x + (w-lw)/2,
			Y:     barTop + barH*0.72,
			Value: label,
			Size:  r.style.FontSize,
			Bold:  true,
			Color: r.style.BarTextColor,
		})
		geometry.Label = label
	}

	r.cursor.Advance(h)
	return geometry
}

// RenderTimeline draws a Gantt chart: a unit header row and one bar per phase
// in input order. Overlapping phases are drawn overlapping; nothing is
// stacked or re-sorted. Invalid phases are reported as *RangeError values and
// nothing is drawn. The chart continues on the next page between rows, with
// the unit header repeated.
func RenderTimeline(
	c *layout.Cursor,
	m layout.Measurer,
	phases []domain.Phase,
	totalUnits int,
	axisWidth float64,
	style TimelineStyle,
	palette Palette,
) ([]BarGeometry, error) {
	if errs := ValidateTimeline(phases, totalUnits); len(errs) > 0 {
		return nil, joinRangeErrors(errs)
	}

	units := totalUnits
	if units < 1 {
		units = 1
	}
	unitWidth := axisWidth / float64(units)
	if len(phases) == 0 || unitWidth <= 0 || math.IsNaN(unitWidth) {
		return nil, nil
	}

	r := &timelineRenderer{
		cursor:    c,
		m:         m,
		style:     style,
		axisX:     c.Spec().MarginLeft + style.LabelWidth,
		axisWidth: axisWidth,
		units:     units,
		unitWidth: unitWidth,
	}

	var errs []error
	bars := make([]BarGeometry, 0, len(phases))
	headerPage := -1
	need := func() float64 {
		if headerPage != c.PageIndex() {
			return style.HeaderHeight + style.RowHeight
		}
		return style.RowHeight
	}
	for i, p := range phases {
		if !c.Reserve(need()) && !c.AtTop() {
			c.BreakPage()
		}
		overflow := !c.Reserve(need())
		if overflow {
			errs = append(errs, &layout.OverflowError{Height: need(), Available: c.Remaining(), Page: c.PageIndex()})
		}
		if headerPage != c.PageIndex() {
			r.drawHeader()
			headerPage = c.PageIndex()
		}
		h := style.RowHeight
		if overflow {
			h = max(0, min(h, c.Remaining()))
		}
		bars = append(bars, r.drawRow(i, p, palette, h))
	}
	return bars, errors.Join(errs...)
}
