// Package export writes laid out pages as a PDF artifact.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/de-tools/estimator/pkg/layout"
	"github.com/go-pdf/fpdf"
)

// FontFamily is the core PDF font every document is set in. Core fonts need
// no embedding and their metrics ship with fpdf.
const FontFamily = "Helvetica"

// Meta is written to the PDF info dictionary.
type Meta struct {
	Title     string
	Subject   string
	Author    string
	Creator   string
	CreatedAt time.Time
}

func newDocument(spec layout.PageSpec) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: spec.Width, Ht: spec.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

type pageWriter struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

func (w *pageWriter) rect(r layout.Rect) {
	style := ""
	if r.Fill != nil {
		w.pdf.SetFillColor(int(r.Fill.R), int(r.Fill.G), int(r.Fill.B))
		style += "F"
	}
	if r.Stroke != nil {
		w.pdf.SetDrawColor(int(r.Stroke.R), int(r.Stroke.G), int(r.Stroke.B))
		w.pdf.SetLineWidth(r.LineWidth)
		style += "D"
	}
	if style == "" {
		return
	}
	w.pdf.Rect(r.X, r.Y, r.W, r.H, style)
}

func (w *pageWriter) line(l layout.Line) {
	w.pdf.SetDrawColor(int(l.Color.R), int(l.Color.G), int(l.Color.B))
	w.pdf.SetLineWidth(l.Width)
	if l.Dashed {
		w.pdf.SetDashPattern([]float64{0.8, 0.8}, 0)
	}
	w.pdf.Line(l.X1, l.Y1, l.X2, l.Y2)
	if l.Dashed {
		w.pdf.SetDashPattern([]float64{}, 0)
	}
}

func (w *pageWriter) text(t layout.Text) {
	w.pdf.SetFont(FontFamily, fontStyle(t.Bold), t.Size)
	w.pdf.SetTextColor(int(t.Color.R), int(t.Color.G), int(t.Color.B))
	w.pdf.Text(t.X, t.Y, w.translate(t.Value))
}

// Render replays every page's drawing instructions into a single PDF.
func Render(pages []*layout.Page, spec layout.PageSpec, meta Meta) ([]byte, error) {
	pdf := newDocument(spec)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(meta.Title, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetCreator(meta.Creator, true)
	if !meta.CreatedAt.IsZero() {
		pdf.SetCreationDate(meta.CreatedAt)
		pdf.SetModificationDate(meta.CreatedAt)
	}

	w := &pageWriter{pdf: pdf, translate: pdf.UnicodeTranslatorFromDescriptor("")}
	if len(pages) == 0 {
		pages = []*layout.Page{{}}
	}
	for _, p := range pages {
		pdf.AddPage()
		for _, op := range p.Ops {
			switch v := op.(type) {
			case layout.Rect:
				w.rect(v)
			case layout.Line:
				w.line(v)
			case layout.Text:
				w.text(v)
			}
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to draw page %d: %w", p.Index+1, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Measurer measures text with the core font metrics the artifact is written
// with. It keeps font state and belongs to a single generation call.
type Measurer struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

func NewMeasurer() *Measurer {
	pdf := newDocument(layout.A4())
	return &Measurer{pdf: pdf, translate: pdf.UnicodeTranslatorFromDescriptor("")}
}

// Width returns the width in millimetres.
func (m *Measurer) Width(text string, size float64, bold bool) float64 {
	m.pdf.SetFont(FontFamily, fontStyle(bold), size)
	return m.pdf.GetStringWidth(m.translate(text))
}

// MeasurerFactory plugs the fpdf metrics into the assembler configuration.
func MeasurerFactory() layout.Measurer {
	return NewMeasurer()
}
