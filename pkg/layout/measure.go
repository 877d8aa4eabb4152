package layout

import (
	"strings"
	"unicode/utf8"
)

// Measurer returns the rendered width in millimetres of a single line of text.
type Measurer interface {
	Width(text string, size float64, bold bool) float64
}

// FixedMeasurer approximates every glyph with the same advance, as a
// fraction of the font size. It is deterministic and needs no font files.
type FixedMeasurer struct {
	Advance float64 // em fraction per glyph
}

func (m FixedMeasurer) Width(text string, size float64, bold bool) float64 {
	advance := m.Advance
	if advance <= 0 {
		advance = 0.5
	}
	if bold {
		advance *= 1.1
	}
	return float64(utf8.RuneCountInString(text)) * size * PtToMM * advance
}

// Wrap breaks text into lines no wider than width. Explicit newlines are kept,
// words longer than a line are split between runes. A width of zero or less
// leaves each paragraph on one line.
func Wrap(m Measurer, text string, width, size float64, bold bool) []string {
	if width <= 0 {
		return strings.Split(text, "\n")
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if m.Width(candidate, size, bold) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			for m.Width(word, size, bold) > width {
				head, tail := splitToWidth(m, word, width, size, bold)
				lines = append(lines, head)
				word = tail
			}
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}

// splitToWidth cuts the longest prefix of word that fits. At least one rune is
// always taken so wrapping terminates on very narrow columns.
func splitToWidth(m Measurer, word string, width, size float64, bold bool) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && m.Width(string(runes[:n+1]), size, bold) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// Truncate shortens text to fit width, ending with an ellipsis when cut.
// Text is only ever cut between runes.
func Truncate(m Measurer, text string, width, size float64, bold bool) string {
	if m.Width(text, size, bold) <= width {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + Ellipsis
		if m.Width(candidate, size, bold) <= width {
			return candidate
		}
	}
	return ""
}
