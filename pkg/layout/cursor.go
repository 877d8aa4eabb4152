package layout

import "fmt"

// OverflowError reports a block taller than a blank page. The cursor has
// already moved to a fresh page; the caller draws what fits and clips the rest.
type OverflowError struct {
	Height    float64
	Available float64
	Page      int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("block of %.1fmm exceeds the %.1fmm available on page %d", e.Height, e.Available, e.Page+1)
}

// Cursor is the running vertical position of one document being laid out.
// A cursor belongs to exactly one generation call and is not safe for
// concurrent use.
type Cursor struct {
	spec  PageSpec
	y     float64
	pages []*Page
}

// NewCursor starts a document with one empty page.
func NewCursor(spec PageSpec) *Cursor {
	return &Cursor{
		spec:  spec,
		y:     spec.MarginTop,
		pages: []*Page{{Index: 0}},
	}
}

func (c *Cursor) Spec() PageSpec {
	return c.spec
}

// Y is the current page-relative drawing position.
func (c *Cursor) Y() float64 {
	return c.y
}

// PageIndex is the zero-based index of the current page.
func (c *Cursor) PageIndex() int {
	return len(c.pages) - 1
}

// Page returns the page currently being drawn on.
func (c *Cursor) Page() *Page {
	return c.pages[len(c.pages)-1]
}

// Pages returns every page produced so far.
func (c *Cursor) Pages() []*Page {
	return c.pages
}

func (c *Cursor) bottom() float64 {
	return c.spec.Height - c.spec.MarginBottom
}

// Remaining is the vertical space left on the current page.
func (c *Cursor) Remaining() float64 {
	return c.bottom() - c.y
}

// AtTop reports whether nothing has been advanced on the current page.
func (c *Cursor) AtTop() bool {
	return c.y <= c.spec.MarginTop
}

// Reserve reports whether a block of the given height fits below the
// current position. It never changes state.
func (c *Cursor) Reserve(height float64) bool {
	return c.y+height <= c.bottom()
}

// Advance moves the position down. Callers check Reserve or EnsureSpace first.
func (c *Cursor) Advance(height float64) {
	c.y += height
}

// BreakPage starts a new page and moves to its top margin.
func (c *Cursor) BreakPage() {
	c.pages = append(c.pages, &Page{Index: len(c.pages)})
	c.y = c.spec.MarginTop
}

// EnsureSpace returns the Y origin for a block of the given height, breaking
// the page first when the block does not fit. A block that cannot fit even a
// blank page returns an *OverflowError together with the top of a fresh page;
// the cursor never breaks twice for the same block.
func (c *Cursor) EnsureSpace(height float64) (float64, error) {
	if c.Reserve(height) {
		return c.y, nil
	}
	if !c.AtTop() {
		c.BreakPage()
	}
	if c.Reserve(height) {
		return c.y, nil
	}
	return c.y, &OverflowError{Height: height, Available: c.Remaining(), Page: c.PageIndex()}
}

// Draw records an instruction on the current page.
func (c *Cursor) Draw(op Op) {
	c.Page().Add(op)
}
