package render

import (
	"errors"
	"fmt"

	"github.com/de-tools/estimator/pkg/layout"
)

// Cell is a formatted table cell.
type Cell struct {
	Text      string
	Highlight *layout.Color
	Bold      bool
}

// Formatter turns a raw cell value into a Cell. It must depend on the value
// only, never on the row position.
type Formatter func(value any) Cell

// Column describes one table column.
type Column struct {
	Header string
	Width  float64 // millimetres, 0 shares the remaining width
	Align  layout.Align
	Format Formatter
	Wrap   bool // wrap long text instead of truncating it
}

type TableStyle struct {
	FontSize       float64
	HeaderFontSize float64
	LineHeight     float64
	PaddingX       float64
	PaddingY       float64
	HeaderFill     layout.Color
	HeaderText     layout.Color
	StripeFill     layout.Color
	TextColor      layout.Color
	RuleColor      layout.Color
	HideHeader     bool
	EmptyText      string
}

// TableStats summarises what RenderTable drew.
type TableStats struct {
	Rows        int
	HeaderBands int
	Pages       []int
	Clipped     int
}

func (s *TableStats) touch(page int) {
	if n := len(s.Pages); n == 0 || s.Pages[n-1] != page {
		s.Pages = append(s.Pages, page)
	}
}

// resolveWidths gives zero-width columns an equal share of what is left and
// scales everything down when the fixed widths exceed the available space.
func resolveWidths(columns []Column, available float64) []float64 {
	widths := make([]float64, len(columns))
	fixed, flexible := 0.0, 0
	for i, c := range columns {
		widths[i] = c.Width
		if c.Width > 0 {
			fixed += c.Width
		} else {
			flexible++
		}
	}

	if flexible > 0 {
		share := (available - fixed) / float64(flexible)
		if share < 0 {
			share = 0
		}
		for i, c := range columns {
			if c.Width <= 0 {
				widths[i] = share
			}
		}
		fixed += share * float64(flexible)
	}

	if fixed > available && fixed > 0 {
		scale := available / fixed
		for i := range widths {
			widths[i] *= scale
		}
	}
	return widths
}

func formatCell(col Column, value any) Cell {
	if col.Format != nil {
		return col.Format(value)
	}
	switch v := value.(type) {
	case nil:
		return Cell{}
	case Cell:
		return v
	case string:
		return Cell{Text: v}
	default:
		return Cell{Text: fmt.Sprint(v)}
	}
}

type tableRenderer struct {
	cursor  *layout.Cursor
	m       layout.Measurer
	columns []Column
	widths  []float64
	style   TableStyle
	left    float64
	width   float64
}

func newTableRenderer(c *layout.Cursor, m layout.Measurer, columns []Column, style TableStyle) *tableRenderer {
	spec := c.Spec()
	return &tableRenderer{
		cursor:  c,
		m:       m,
		columns: columns,
		widths:  resolveWidths(columns, spec.ContentWidth()),
		style:   style,
		left:    spec.MarginLeft,
		width:   spec.ContentWidth(),
	}
}

// formatRows converts raw rows to cells. No rows yields the placeholder row.
func (r *tableRenderer) formatRows(rows [][]any) [][]Cell {
	formatted := make([][]Cell, 0, len(rows))
	for _, row := range rows {
		cells := make([]Cell, len(r.columns))
		for i, col := range r.columns {
			if i < len(row) {
				cells[i] = formatCell(col, row[i])
			}
		}
		formatted = append(formatted, cells)
	}
	if len(formatted) == 0 {
		placeholder := make([]Cell, len(r.columns))
		placeholder[0] = Cell{Text: r.style.EmptyText}
		formatted = append(formatted, placeholder)
	}
	return formatted
}

func (r *tableRenderer) rowLines(cells []Cell) ([][]string, int) {
	lines := make([][]string, len(cells))
	maxLines := 1
	for i, cell := range cells {
		lines[i] = r.cellLines(i, cell)
		if len(lines[i]) > maxLines {
			maxLines = len(lines[i])
		}
	}
	return lines, maxLines
}

// LeadHeight is the space a table takes on the page it starts on before its
// first page break can happen: the header band plus the first row as wrapped.
func LeadHeight(c *layout.Cursor, m layout.Measurer, columns []Column, rows [][]any, style TableStyle) float64 {
	if len(columns) == 0 {
		return 0
	}
	r := newTableRenderer(c, m, columns, style)
	_, n := r.rowLines(r.formatRows(rows[:min(len(rows), 1)])[0])
	return r.headerHeight() + r.height(n)
}

func (r *tableRenderer) cellLines(col int, cell Cell) []string {
	inner := r.widths[col] - 2*r.style.PaddingX
	if inner <= 0 {
		return []string{""}
	}
	if r.columns[col].Wrap {
		return layout.Wrap(r.m, cell.Text, inner, r.style.FontSize, cell.Bold)
	}
	return []string{layout.Truncate(r.m, cell.Text, inner, r.style.FontSize, cell.Bold)}
}

func (r *tableRenderer) height(lines int) float64 {
	if lines < 1 {
		lines = 1
	}
	return float64(lines)*r.style.LineHeight + 2*r.style.PaddingY
}

func (r *tableRenderer) headerHeight() float64 {
	if r.style.HideHeader {
		return 0
	}
	return r.height(1)
}

func (r *tableRenderer) textX(col int, x float64, text string, size float64, bold bool) float64 {
	switch r.columns[col].Align {
	case layout.AlignRight:
		return x + r.widths[col] - r.style.PaddingX - r.m.Width(text, size, bold)
	case layout.AlignCenter:
		return x + (r.widths[col]-r.m.Width(text, size, bold))/2
	default:
		return x + r.style.PaddingX
	}
}

// baseline places text roughly on the lower quarter of its line box.
func (r *tableRenderer) baseline(top float64, line int) float64 {
	return top + r.style.PaddingY + float64(line)*r.style.LineHeight + r.style.LineHeight*0.78
}

func (r *tableRenderer) drawHeader() {
	top := r.cursor.Y()
	h := r.headerHeight()
	fill := r.style.HeaderFill
	r.cursor.Draw(layout.Rect{X: r.left, Y: top, W: r.width, H: h, Fill: &fill})

	x := r.left
	for i, col := range r.columns {
		inner := r.widths[i] - 2*r.style.PaddingX
		text := layout.Truncate(r.m, col.Header, inner, r.style.HeaderFontSize, true)
		r.cursor.Draw(layout.Text{
			X:     r.textX(i, x, text, r.style.HeaderFontSize, true),
			Y:     r.baseline(top, 0),
			Value: text,
			Size:  r.style.HeaderFontSize,
			Bold:  true,
			Color: r.style.HeaderText,
		})
		x += r.widths[i]
	}
	r.cursor.Advance(h)
}

func (r *tableRenderer) drawRow(index int, cells []Cell, lines [][]string, h float64) {
	top := r.cursor.Y()
	if index%2 == 1 {
		fill := r.style.StripeFill
		r.cursor.Draw(layout.Rect{X: r.left, Y: top, W: r.width, H: h, Fill: &fill})
	}

	x := r.left
	for i, cell := range cells {
		if cell.Highlight != nil {
			fill := *cell.Highlight
			r.cursor.Draw(layout.Rect{X: x, Y: top, W: r.widths[i], H: h, Fill: &fill})
		}
		for n, line := range lines[i] {
			if line == "" {
				continue
			}
			r.cursor.Draw(layout.Text{
				X:     r.textX(i, x, line, r.style.FontSize, cell.Bold),
				Y:     r.baseline(top, n),
				Value: line,
				Size:  r.style.FontSize,
				Bold:  cell.Bold,
				Color: r.style.TextColor,
			})
		}
		x += r.widths[i]
	}
	r.cursor.Draw(layout.Line{X1: r.left, Y1: top + h, X2: r.left + r.width, Y2: top + h, Color: r.style.RuleColor, Width: 0.15})
	r.cursor.Advance(h)
}

// RenderTable draws a banded table through the cursor. Pages break only
// between rows, and the header band is drawn again at the top of every page
// the table continues on. Striping follows the row index across breaks.
// A row taller than a blank page is clipped and reported in the returned
// error; the rest of the table is still drawn.
func RenderTable(c *layout.Cursor, m layout.Measurer, columns []Column, rows [][]any, style TableStyle) (TableStats, error) {
	var stats TableStats
	if len(columns) == 0 {
		return stats, nil
	}

	r := newTableRenderer(c, m, columns, style)
	formatted := r.formatRows(rows)

	var errs []error
	headerPage := -1
	headerH := r.headerHeight()

	for index, cells := range formatted {
		lines, maxLines := r.rowLines(cells)
		h := r.height(maxLines)

		needHeader := !style.HideHeader && headerPage != c.PageIndex()
		need := h
		if needHeader {
			need += headerH
		}
		if !c.Reserve(need) && !c.AtTop() {
			c.BreakPage()
			needHeader = !style.HideHeader
		}
		if needHeader {
			r.drawHeader()
			headerPage = c.PageIndex()
			stats.HeaderBands++
		}

		if !c.Reserve(h) {
			errs = append(errs, &layout.OverflowError{Height: h, Available: c.Remaining(), Page: c.PageIndex()})
			fit := int((c.Remaining() - 2*style.PaddingY) / style.LineHeight)
			if fit < 1 {
				fit = 1
			}
			for i := range lines {
				if len(lines[i]) > fit {
					lines[i] = lines[i][:fit]
				}
			}
			h = r.height(fit)
			stats.Clipped++
		}

		r.drawRow(index, cells, lines, h)
		stats.Rows++
		stats.touch(c.PageIndex())
	}

	return stats, errors.Join(errs...)
}
