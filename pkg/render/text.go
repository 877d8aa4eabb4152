package render

import (
	"errors"
	"strings"

	"github.com/de-tools/estimator/pkg/layout"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockBullet
)

// Block is one atomic unit of free text. A block is never split across pages.
type Block struct {
	Kind BlockKind
	Text string
}

var markdown = goldmark.New()

// ParseBlocks splits markdown notes into atomic blocks: paragraphs, headings
// and list items. Inline markup is reduced to plain text.
func ParseBlocks(src string) []Block {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var blocks []Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = append(blocks, collectBlocks(n, source)...)
	}
	return blocks
}

func collectBlocks(n ast.Node, source []byte) []Block {
	switch node := n.(type) {
	case *ast.Heading:
		return nonEmpty(Block{Kind: BlockHeading, Text: inlineText(node, source)})
	case *ast.List:
		var out []Block
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			var parts []string
			for child := item.FirstChild(); child != nil; child = child.NextSibling() {
				if _, nested := child.(*ast.List); nested {
					out = append(out, nonEmpty(Block{Kind: BlockBullet, Text: strings.Join(parts, " ")})...)
					parts = nil
					out = append(out, collectBlocks(child, source)...)
					continue
				}
				parts = append(parts, inlineText(child, source))
			}
			out = append(out, nonEmpty(Block{Kind: BlockBullet, Text: strings.Join(parts, " ")})...)
		}
		return out
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return nonEmpty(Block{Kind: BlockParagraph, Text: strings.TrimRight(linesText(n, source), "\n")})
	case *ast.Blockquote:
		var out []Block
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			out = append(out, collectBlocks(child, source)...)
		}
		return out
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return nil
	default:
		return nonEmpty(Block{Kind: BlockParagraph, Text: inlineText(n, source)})
	}
}

func nonEmpty(b Block) []Block {
	b.Text = strings.TrimSpace(b.Text)
	if b.Text == "" {
		return nil
	}
	return []Block{b}
}

func linesText(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.HardLineBreak() {
				sb.WriteString("\n")
			} else if v.SoftLineBreak() {
				sb.WriteString(" ")
			}
		case *ast.String:
			sb.Write(v.Value)
		case *ast.AutoLink:
			sb.Write(v.Label(source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// RenderHeading draws a section title. The space above it is dropped at the
// top of a page. keepWith is the height of the first block that follows, so
// a heading is never left alone at the bottom of a page.
func RenderHeading(c *layout.Cursor, m layout.Measurer, title string, style HeadingStyle, keepWith float64) error {
	lineH := style.FontSize * layout.PtToMM * 1.35
	before := style.Before
	if c.AtTop() {
		before = 0
	}
	if !c.Reserve(before + lineH + style.After + keepWith) {
		if !c.AtTop() {
			c.BreakPage()
		}
		before = 0
	}
	if _, err := c.EnsureSpace(before + lineH + style.After); err != nil {
		return err
	}
	c.Advance(before)

	width := c.Spec().ContentWidth()
	value := layout.Truncate(m, title, width, style.FontSize, true)
	c.Draw(layout.Text{
		X:     c.Spec().MarginLeft,
		Y:     c.Y() + lineH*0.8,
		Value: value,
		Size:  style.FontSize,
		Bold:  true,
		Color: style.Color,
	})
	c.Advance(lineH + style.After)
	return nil
}

type textBlock struct {
	lines  []string
	inset  float64
	bullet bool
	bold   bool
}

func (s TextStyle) blockHeight(lines int) float64 {
	return float64(lines)*s.LineHeight + s.BlockSpace
}

func prepareBlock(m layout.Measurer, b Block, width float64, style TextStyle) textBlock {
	tb := textBlock{bold: b.Kind == BlockHeading}
	if b.Kind == BlockBullet {
		tb.bullet = true
		tb.inset = style.BulletInset
	}
	tb.lines = layout.Wrap(m, b.Text, width-tb.inset, style.FontSize, tb.bold)
	return tb
}

// FirstBlockHeight is the height the first block of blocks needs, or zero.
func FirstBlockHeight(m layout.Measurer, blocks []Block, width float64, style TextStyle) float64 {
	if len(blocks) == 0 {
		return 0
	}
	return style.blockHeight(len(prepareBlock(m, blocks[0], width, style).lines))
}

// RenderFreeText draws blocks in order. A block that does not fit the current
// page moves to the next one as a whole. A block taller than a blank page is
// clipped and reported as *layout.OverflowError.
func RenderFreeText(c *layout.Cursor, m layout.Measurer, blocks []Block, style TextStyle) error {
	width := c.Spec().ContentWidth()
	left := c.Spec().MarginLeft

	var errs []error
	for _, b := range blocks {
		tb := prepareBlock(m, b, width, style)
		h := style.blockHeight(len(tb.lines))
		if _, err := c.EnsureSpace(h); err != nil {
			errs = append(errs, err)
			fit := int((c.Remaining() - style.BlockSpace) / style.LineHeight)
			if fit < 1 {
				fit = 1
			}
			if fit < len(tb.lines) {
				tb.lines = tb.lines[:fit]
			}
			h = style.blockHeight(len(tb.lines))
		}

		top := c.Y()
		if tb.bullet {
			c.Draw(layout.Text{X: left + style.BulletInset/4, Y: top + style.LineHeight*0.78, Value: "•", Size: style.FontSize, Color: style.Color})
		}
		for i, line := range tb.lines {
			if line == "" {
				continue
			}
			c.Draw(layout.Text{
				X:     left + tb.inset,
				Y:     top + float64(i)*style.LineHeight + style.LineHeight*0.78,
				Value: line,
				Size:  style.FontSize,
				Bold:  tb.bold,
				Color: style.Color,
			})
		}
		c.Advance(h)
	}
	return errors.Join(errs...)
}
