// Package layout tracks the vertical drawing position on fixed-height pages
// and records drawing instructions per page. Pages are retained until the
// whole document is known so a later pass can stamp footers on them.
package layout

// PtToMM converts a font size in points to millimetres.
const PtToMM = 25.4 / 72

// PageSpec is the page geometry in millimetres.
type PageSpec struct {
	Width        float64
	Height       float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
}

// A4 is the default page: portrait A4 with room for a footer at the bottom.
func A4() PageSpec {
	return PageSpec{
		Width:        210,
		Height:       297,
		MarginTop:    18,
		MarginBottom: 20,
		MarginLeft:   16,
		MarginRight:  16,
	}
}

// ContentWidth is the horizontal space between the side margins.
func (s PageSpec) ContentWidth() float64 {
	return s.Width - s.MarginLeft - s.MarginRight
}

// ContentHeight is the vertical space between the top and bottom margins.
func (s PageSpec) ContentHeight() float64 {
	return s.Height - s.MarginTop - s.MarginBottom
}

type Color struct {
	R, G, B uint8
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Op is a single drawing instruction in page coordinates (origin top-left).
type Op interface {
	op()
}

// Rect draws a rectangle. A nil Fill or Stroke skips that part.
type Rect struct {
	X, Y, W, H float64
	Fill       *Color
	Stroke     *Color
	LineWidth  float64
}

// Line draws a straight line.
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          Color
	Width          float64
	Dashed         bool
}

// Text draws a single line of text with its baseline at Y.
type Text struct {
	X, Y  float64
	Value string
	Size  float64 // points
	Bold  bool
	Color Color
}

func (Rect) op() {}
func (Line) op() {}
func (Text) op() {}

// Page is one retained page of drawing instructions.
type Page struct {
	Index int
	Ops   []Op
}

func (p *Page) Add(op Op) {
	p.Ops = append(p.Ops, op)
}

// Texts returns the text values drawn on the page, in drawing order.
func (p *Page) Texts() []string {
	var out []string
	for _, op := range p.Ops {
		if t, ok := op.(Text); ok {
			out = append(out, t.Value)
		}
	}
	return out
}
