package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/de-tools/estimator/pkg/layout"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timelineStyle() TimelineStyle {
	return TimelineStyle{
		LabelWidth:   30,
		RowHeight:    7,
		HeaderHeight: 6,
		MinBarWidth:  1.5,
		BarInset:     1,
		FontSize:     7,
	}
}

func TestRenderTimeline_Scaling(t *testing.T) {
	for _, axis := range []float64{50, 137.5, 160} {
		t.Run(fmt.Sprintf("axis %.1f", axis), func(t *testing.T) {
			c := layout.NewCursor(layout.A4())
			phases := []domain.Phase{{Name: "Rivning", StartUnit: 3, DurationUnits: 2, ColorKey: "red"}}

			bars, err := RenderTimeline(c, layout.FixedMeasurer{}, phases, 10, axis, timelineStyle(), DefaultPalette())
			require.NoError(t, err)
			require.Len(t, bars, 1)
			assert.InDelta(t, 0.2*axis, bars[0].X, 1e-9)
			assert.InDelta(t, 0.2*axis, bars[0].W, 1e-9)
		})
	}
}

func TestRenderTimeline_OverlappingPhases(t *testing.T) {
	c := layout.NewCursor(layout.A4())
	phases := []domain.Phase{
		{Name: "El", StartUnit: 1, DurationUnits: 3, ColorKey: "yellow"},
		{Name: "VVS", StartUnit: 1, DurationUnits: 3, ColorKey: "blue", ParallelWith: "El"},
	}

	bars, err := RenderTimeline(c, layout.FixedMeasurer{}, phases, 6, 120, timelineStyle(), DefaultPalette())
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, bars[0].X, bars[1].X)
	assert.Equal(t, bars[0].W, bars[1].W)
	assert.InDelta(t, timelineStyle().RowHeight, bars[1].Y-bars[0].Y, 1e-9)
	assert.Equal(t, 0, bars[0].Phase)
	assert.Equal(t, 1, bars[1].Phase)
}

func TestRenderTimeline_InputOrderIsKept(t *testing.T) {
	c := layout.NewCursor(layout.A4())
	phases := []domain.Phase{
		{Name: "Sist", StartUnit: 5, DurationUnits: 1},
		{Name: "Först", StartUnit: 1, DurationUnits: 1},
	}

	bars, err := RenderTimeline(c, layout.FixedMeasurer{}, phases, 5, 100, timelineStyle(), DefaultPalette())
	require.NoError(t, err)
	assert.Less(t, bars[0].Y, bars[1].Y)
	assert.Greater(t, bars[0].X, bars[1].X)
}

func TestRenderTimeline_Palette(t *testing.T) {
	c := layout.NewCursor(layout.A4())
	phases := []domain.Phase{
		{Name: "a", StartUnit: 1, DurationUnits: 1, ColorKey: "Green"},
		{Name: "b", StartUnit: 1, DurationUnits: 1, ColorKey: "chartreuse"},
		{Name: "c", StartUnit: 1, DurationUnits: 1},
	}

	bars, err := RenderTimeline(c, layout.FixedMeasurer{}, phases, 4, 100, timelineStyle(), DefaultPalette())
	require.NoError(t, err)
	assert.Equal(t, layout.Color{R: 52, G: 168, B: 83}, bars[0].Color)
	assert.Equal(t, NeutralColor, bars[1].Color)
	assert.Equal(t, NeutralColor, bars[2].Color)
}

func TestRenderTimeline_BarClipping(t *testing.T) {
	c := layout.NewCursor(layout.A4())
	phases := []domain.Phase{
		{Name: "lång", StartUnit: 9, DurationUnits: 5},
		{Name: "kort", StartUnit: 1, DurationUnits: 1},
	}

	bars, err := RenderTimeline(c, layout.FixedMeasurer{}, phases, 10, 100, timelineStyle(), DefaultPalette())
	require.NoError(t, err)
	assert.InDelta(t, 20, bars[0].W, 1e-9, "bar is clipped to the axis end")

	bars, err =RenderTimeline(c, layout.FixedMeasurer{}, phases[1:], 1000, 100, timelineStyle(), DefaultPalette())
	require.NoError(t, err)
	assert.Equal(t, 1.5, bars[0].W, "bar never narrower than the minimum")
}

func TestRenderTimeline_DurationLabel(t *testing.T) {
	style := timelineStyle()
	style.DurationLabel = func(units int) string { return fmt.Sprintf("%d veckor", units) }
	phases := []domain.Phase{
		{Name: "bred", StartUnit: 1, DurationUnits: 8},
		{Name: "smal", StartUnit: 9, DurationUnits: 1},
	}

	c := layout.NewCursor(layout.A4())
	bars, err := RenderTimeline(c, layout.FixedMeasurer{}, phases, 10, 100, style, DefaultPalette())
	require.NoError(t, err)

	assert.Equal(t, "8 veckor", bars[0].Label)
	assert.Empty(t, bars[1].Label, "a label that does not fit is omitted")
	assert.Contains(t, c.Page().Texts(), "8 veckor")
	assert.NotContains(t, c.Page().Texts(), "1 veckor")
	for _, text := range c.Page().Texts() {
		assert.NotContains(t, text, layout.Ellipsis)
	}
}

func TestRenderTimeline_HeaderLabels(t *testing.T) {
	t.Run("one label per unit", func(t *testing.T) {
		c := layout.NewCursor(layout.A4())
		_, err := RenderTimeline(c, layout.FixedMeasurer{}, []domain.Phase{{Name: "x", StartUnit: 1, DurationUnits: 1}}, 6, 120, timelineStyle(), DefaultPalette())
		require.NoError(t, err)
		for u := 1; u <= 6; u++ {
			assert.Contains(t, c.Page().Texts(), fmt.Sprint(u))
		}
	})

	t.Run("dense axes thin out labels", func(t *testing.T) {
		c := layout.NewCursor(layout.A4())
		_, err := RenderTimeline(c, layout.FixedMeasurer{}, []domain.Phase{{Name: "x", StartUnit: 1, DurationUnits: 1}}, 52, 100, timelineStyle(), DefaultPalette())
		require.NoError(t, err)
		texts := c.Page().Texts()
		assert.Contains(t, texts, "1")
		assert.NotContains(t, texts, "2")
		assert.Contains(t, texts, "3")
	})
}

func TestRenderTimeline_RangeErrors(t *testing.T) {
	tests := []struct {
		name   string
		phases []domain.Phase
		total  int
		phase  int
	}{
		{name: "non-positive span", phases: []domain.Phase{{Name: "a", StartUnit: 1, DurationUnits: 1}}, total: 0, phase: -1},
		{name: "start beyond span", phases: []domain.Phase{{Name: "a", StartUnit: 1, DurationUnits: 1}, {Name: "b", StartUnit: 12, DurationUnits: 1}}, total: 10, phase: 1},
		{name: "start before first unit", phases: []domain.Phase{{Name: "a", StartUnit: 0, DurationUnits: 1}}, total: 10, phase: 0},
		{name: "zero duration", phases: []domain.Phase{{Name: "a", StartUnit: 2, DurationUnits: 0}}, total: 10, phase: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := layout.NewCursor(layout.A4())
			bars, err := RenderTimeline(c, layout.FixedMeasurer{}, tt.phases, tt.total, 100, timelineStyle(), DefaultPalette())

			var rangeErr *RangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tt.phase, rangeErr.Phase)
			assert.Nil(t, bars)
			assert.Empty(t, c.Page().Ops, "nothing is drawn for invalid input")
		})
	}
}

func TestRenderTimeline_Degenerate(t *testing.T) {
	t.Run("no phases and no span", func(t *testing.T) {
		c := layout.NewCursor(layout.A4())
		bars, err := RenderTimeline(c, layout.FixedMeasurer{}, nil, 0, 100, timelineStyle(), DefaultPalette())
		require.NoError(t, err)
		assert.Empty(t, bars)
		assert.Empty(t, c.Page().Ops)
	})

	t.Run("zero axis width draws nothing", func(t *testing.T) {
		c := layout.NewCursor(layout.A4())
		bars, err := RenderTimeline(c, layout.FixedMeasurer{}, []domain.Phase{{StartUnit: 1, DurationUnits: 1}}, 4, 0, timelineStyle(), DefaultPalette())
		require.NoError(t, err)
		assert.Empty(t, bars)
		assert.Empty(t, c.Page().Ops)
	})
}

func TestRenderTimeline_ContinuesOnNextPage(t *testing.T) {
	spec := layout.PageSpec{Width: 200, Height: 100, MarginTop: 10, MarginBottom: 10, MarginLeft: 10, MarginRight: 10}
	c := layout.NewCursor(spec)

	phases := make([]domain.Phase, 15)
	for i := range phases {
		phases[i] = domain.Phase{Name: fmt.Sprintf("fas %d", i+1), StartUnit: 1 + i%4, DurationUnits: 1}
	}

	bars, err := RenderTimeline(c, layout.FixedMeasurer{}, phases, 4, 100, timelineStyle(), DefaultPalette())
	require.NoError(t, err)
	require.Len(t, bars, 15)
	require.Len(t, c.Pages(), 2)

	// 80mm of content: the unit header and 10 rows fit on the first page.
	assert.Equal(t, 0, bars[9].Page)
	assert.Equal(t, 1, bars[10].Page)
	assert.Equal(t, 16.0, bars[10].Y)
	for _, p := range c.Pages() {
		assert.Equal(t, 1, countText(p, "4"), "unit header on page %d", p.Index)
	}
}

func shortPage() layout.PageSpec {
	return layout.PageSpec{Width: 200, Height: 100, MarginTop: 10, MarginBottom: 10, MarginLeft: 10, MarginRight: 10}
}

func numberedPhases(n int) []domain.Phase {
	phases := make([]domain.Phase, n)
	for i := range phases {
		phases[i] = domain.Phase{Name: fmt.Sprintf("fas %d", i+1), StartUnit: 1 + i%4, DurationUnits: 1}
	}
	return phases
}

func TestRenderTimeline_FitsBelowExistingContent(t *testing.T) {
	c := layout.NewCursor(shortPage())
	c.Advance(60) // 20mm left: the header and two rows

	bars, err := RenderTimeline(c, layout.FixedMeasurer{}, numberedPhases(2), 4, 100, timelineStyle(), DefaultPalette())
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Len(t, c.Pages(), 1)
	assert.Equal(t, 0, bars[1].Page)
}

func TestRenderTimeline_SpansPagesWithoutWarnings(t *testing.T) {
	c := layout.NewCursor(shortPage())
	c.Advance(30)

	bars, err := RenderTimeline(c, layout.FixedMeasurer{}, numberedPhases(25), 4, 100, timelineStyle(), DefaultPalette())
	require.NoError(t, err)
	require.Len(t, bars, 25)
	require.Len(t, c.Pages(), 3)

	// 50mm left on page 1 holds the header and six rows, full pages ten.
	assert.Equal(t, 0, bars[5].Page)
	assert.Equal(t, 1, bars[6].Page)
	assert.Equal(t, 1, bars[15].Page)
	assert.Equal(t, 2, bars[16].Page)
	for _, p := range c.Pages() {
		assert.Equal(t, 1, countText(p, "4"), "unit header on page %d", p.Index)
	}
}

func TestRenderTimeline_OversizedRowIsClipped(t *testing.T) {
	spec := layout.PageSpec{Width: 200, Height: 30, MarginTop: 10, MarginBottom: 10, MarginLeft: 10, MarginRight: 10}
	c := layout.NewCursor(spec)

	bars, err := RenderTimeline(c, layout.FixedMeasurer{}, numberedPhases(1), 4, 100, timelineStyle(), DefaultPalette())
	var overflow *layout.OverflowError
	require.True(t, errors.As(err, &overflow))
	assert.InDelta(t, 13.0, overflow.Height, 1e-9)
	require.Len(t, bars, 1)
	assert.InDelta(t, 2.0, bars[0].H, 1e-9)

	bottom := spec.Height - spec.MarginBottom
	for _, op := range c.Page().Ops {
		switch v := op.(type) {
		case layout.Rect:
			assert.LessOrEqual(t, v.Y+v.H, bottom+1e-9)
		case layout.Line:
			assert.LessOrEqual(t, max(v.Y1, v.Y2), bottom+1e-9)
		}
	}
}
