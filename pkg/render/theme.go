package render

import (
	"strings"

	"github.com/de-tools/estimator/pkg/layout"
)

// NeutralColor is used for palette keys that are not known.
var NeutralColor = layout.Color{R: 158, G: 158, B: 158}

// Palette maps a phase color key to a fill color.
type Palette map[string]layout.Color

// DefaultPalette returns the fixed phase palette. Generated documents are
// compared against older artifacts, so these values must not change.
func DefaultPalette() Palette {
	return Palette{
		"blue":   {R: 66, G: 133, B: 244},
		"green":  {R: 52, G: 168, B: 83},
		"orange": {R: 251, G: 140, B: 0},
		"red":    {R: 219, G: 68, B: 55},
		"purple": {R: 142, G: 68, B: 173},
		"teal":   {R: 0, G: 150, B: 136},
		"yellow": {R: 244, G: 180, B: 0},
		"brown":  {R: 121, G: 85, B: 72},
		"gray":   {R: 117, G: 117, B: 117},
	}
}

// Resolve looks a key up case-insensitively and falls back to NeutralColor.
func (p Palette) Resolve(key string) layout.Color {
	if c, ok := p[strings.ToLower(strings.TrimSpace(key))]; ok {
		return c
	}
	return NeutralColor
}

var (
	black     = layout.Color{R: 33, G: 33, B: 33}
	white     = layout.Color{R: 255, G: 255, B: 255}
	darkBlue  = layout.Color{R: 38, G: 70, B: 105}
	stripe    = layout.Color{R: 241, G: 244, B: 248}
	rule      = layout.Color{R: 189, G: 196, B: 205}
	grid      = layout.Color{R: 214, G: 219, B: 225}
	muted     = layout.Color{R: 110, G: 117, B: 125}
	okGreen   = layout.Color{R: 200, G: 235, B: 205}
	devRed    = layout.Color{R: 248, G: 200, B: 196}
	warnAmber = layout.Color{R: 255, G: 230, B: 179}
)

// HeadingStyle draws section titles.
type HeadingStyle struct {
	FontSize float64
	Color    layout.Color
	Before   float64 // space above, dropped at the top of a page
	After    float64
}

// TextStyle draws free-text blocks.
type TextStyle struct {
	FontSize    float64
	LineHeight  float64
	Color       layout.Color
	BlockSpace  float64 // space after each block
	BulletInset float64
}

// CoverStyle draws the title block on the first page.
type CoverStyle struct {
	TitleSize    float64
	SubtitleSize float64
	TitleColor   layout.Color
	TextColor    layout.Color
	BandColor    layout.Color
	After        float64
}

// FooterStyle draws the stamp at the bottom of every page.
type FooterStyle struct {
	FontSize float64
	Color    layout.Color
	Offset   float64 // distance of the baseline above the page bottom
}

// Highlights are the per-cell fills used for semantic values.
type Highlights struct {
	OK        layout.Color
	Deviation layout.Color
	Warning   layout.Color
}

// Theme bundles every style the renderers need.
type Theme struct {
	Palette    Palette
	Table      TableStyle
	Summary    TableStyle
	Timeline   TimelineStyle
	Heading    HeadingStyle
	Text       TextStyle
	Cover      CoverStyle
	Footer     FooterStyle
	Highlights Highlights
}

func DefaultTheme() Theme {
	table := TableStyle{
		FontSize:       8.5,
		HeaderFontSize: 8.5,
		LineHeight:     4,
		PaddingX:       1.6,
		PaddingY:       1.4,
		HeaderFill:     darkBlue,
		HeaderText:     white,
		StripeFill:     stripe,
		TextColor:      black,
		RuleColor:      rule,
		EmptyText:      "—",
	}
	summary := table
	summary.HideHeader = true
	summary.FontSize = 9.5
	summary.LineHeight = 4.6

	return Theme{
		Palette: DefaultPalette(),
		Table:   table,
		Summary: summary,
		Timeline: TimelineStyle{
			LabelWidth:   48,
			RowHeight:    7,
			HeaderHeight: 6,
			MinBarWidth:  1.5,
			BarInset:     1.2,
			FontSize:     7.5,
			GridColor:    grid,
			TextColor:    black,
			BarTextColor: white,
			HeaderFill:   stripe,
		},
		Heading: HeadingStyle{FontSize: 12, Color: darkBlue, Before: 6, After: 2.5},
		Text:    TextStyle{FontSize: 9.5, LineHeight: 4.6, Color: black, BlockSpace: 2, BulletInset: 4},
		Cover: CoverStyle{
			TitleSize:    22,
			SubtitleSize: 13,
			TitleColor:   darkBlue,
			TextColor:    black,
			BandColor:    darkBlue,
			After:        4,
		},
		Footer:     FooterStyle{FontSize: 7.5, Color: muted, Offset: 10},
		Highlights: Highlights{OK: okGreen, Deviation: devRed, Warning: warnAmber},
	}
}
