package render

import (
	"strings"
	"testing"

	"github.com/de-tools/estimator/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlocks(t *testing.T) {
	src := "# Förutsättningar\n\n" +
		"Arbetet utförs **vardagar** mellan 7 och 16\noch kräver bygglov.\n\n" +
		"- rivning av kök\n" +
		"- ny el\n\n" +
		"---\n\n" +
		"> Kunden står för containern.\n"

	blocks := ParseBlocks(src)
	assert.Equal(t, []Block{
		{Kind: BlockHeading, Text: "Förutsättningar"},
		{Kind: BlockParagraph, Text: "Arbetet utförs vardagar mellan 7 och 16 och kräver bygglov."},
		{Kind: BlockBullet, Text: "rivning av kök"},
		{Kind: BlockBullet, Text: "ny el"},
		{Kind: BlockParagraph, Text: "Kunden står för containern."},
	}, blocks)

	assert.Empty(t, ParseBlocks("  \n\n"))
}

func TestRenderFreeText_BlocksMoveWhole(t *testing.T) {
	spec := layout.PageSpec{Width: 100, Height: 60, MarginTop: 10, MarginBottom: 10, MarginLeft: 5, MarginRight: 5}
	style := TextStyle{FontSize: 8, LineHeight: 4, BlockSpace: 2, BulletInset: 4}
	c := layout.NewCursor(spec)
	c.Advance(25)

	// Three lines plus spacing need 14mm, 15mm are left: the block stays.
	blocks := []Block{{Kind: BlockParagraph, Text: "ett\ntvå\ntre"}, {Kind: BlockBullet, Text: "fyra"}}
	require.NoError(t, RenderFreeText(c, layout.FixedMeasurer{}, blocks, style))

	pages := c.Pages()
	require.Len(t, pages, 2)
	assert.Equal(t, []string{"ett", "två", "tre"}, pages[0].Texts())
	assert.Equal(t, []string{"•", "fyra"}, pages[1].Texts())
}

func TestRenderFreeText_OversizedBlockIsClipped(t *testing.T) {
	spec := layout.PageSpec{Width: 100, Height: 60, MarginTop: 10, MarginBottom: 10, MarginLeft: 5, MarginRight: 5}
	style := TextStyle{FontSize: 8, LineHeight: 4, BlockSpace: 2}
	c := layout.NewCursor(spec)

	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "rad"
	}
	err := RenderFreeText(c, layout.FixedMeasurer{}, []Block{{Text: strings.Join(lines, "\n")}}, style)

	var overflow *layout.OverflowError
	require.ErrorAs(t, err, &overflow)
	require.Len(t, c.Pages(), 1)
	assert.Len(t, c.Page().Texts(), 9)
}

func TestRenderHeading_KeepsWithNextBlock(t *testing.T) {
	spec := layout.PageSpec{Width: 100, Height: 60, MarginTop: 10, MarginBottom: 10, MarginLeft: 5, MarginRight: 5}
	style := HeadingStyle{FontSize: 12, Before: 6, After: 2}

	t.Run("moves to the next page with its block", func(t *testing.T) {
		c := layout.NewCursor(spec)
		c.Advance(25)
		require.NoError(t, RenderHeading(c, layout.FixedMeasurer{}, "Anteckningar", style, 10))
		assert.Equal(t, 1, c.PageIndex())
		assert.Equal(t, []string{"Anteckningar"}, c.Page().Texts())
	})

	t.Run("no space above at the top of a page", func(t *testing.T) {
		c := layout.NewCursor(spec)
		require.NoError(t, RenderHeading(c, layout.FixedMeasurer{}, "Tidplan", style, 0))
		lineH := 12 * layout.PtToMM * 1.35
		assert.InDelta(t, 10+lineH+2, c.Y(), 1e-9)
	})
}
