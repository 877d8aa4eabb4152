package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/pricing"
	"github.com/de-tools/estimator/pkg/render"
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleTotal  = lipgloss.NewStyle().Bold(true)
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f"))
)

type TableConfig struct {
	LabelWidth int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth: 28,
		ValueWidth: 20,
	}
}

// Row is one labelled value. Total rows are emphasised in styled output.
type Row struct {
	Label string
	Value string
	Total bool
}

type Section struct {
	Title    string
	Rows     []Row
	Warnings []string
}

// Reporter prints command results. Styled output is meant for terminals.
type Reporter struct {
	writer io.Writer
	config TableConfig
	styled bool
}

func NewReporter(writer io.Writer, styled bool) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
		styled: styled,
	}
}

// TotalsRows lists the price chain in document order.
func TotalsRows(t pricing.Totals, l render.Locale) []Row {
	rows := make([]Row, 0, len(domain.Categories)+10)
	for _, c := range domain.Categories {
		rows = append(rows, Row{Label: string(c), Value: l.Money(t.Of(c))})
	}
	rows = append(rows,
		Row{Label: "Subtotal", Value: l.Money(t.Subtotal), Total: true},
		Row{Label: fmt.Sprintf("Markup (%s)", l.Percent(t.MarkupPercent)), Value: l.Money(t.Markup)},
	)
	addons := Row{Label: "Addons", Value: l.Money(t.Addons)}
	if t.AddonsAfterTax {
		addons.Label = "Addons (after tax)"
	} else {
		rows = append(rows, addons)
	}
	rows = append(rows,
		Row{Label: "Total excl. tax", Value: l.Money(t.TotalExclTax), Total: true},
		Row{Label: fmt.Sprintf("Tax (%s)", l.Percent(t.TaxPercent)), Value: l.Money(t.Tax)},
	)
	if t.AddonsAfterTax {
		rows = append(rows, addons)
	}
	rows = append(rows,
		Row{Label: "Total incl. tax", Value: l.Money(t.TotalInclTax), Total: true},
		Row{Label: "Deduction base", Value: l.Money(t.DeductionBase)},
		Row{Label: fmt.Sprintf("Deduction (%s)", l.Percent(t.DeductionPercent)), Value: l.Money(t.Deduction)},
		Row{Label: "Net after deduction", Value: l.Money(t.NetAfterDeduction()), Total: true},
	)
	return rows
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

func (c *Reporter) HandleTotals(title string, t pricing.Totals, l render.Locale) error {
	return c.Handle(Section{Title: title, Rows: TotalsRows(t, l)})
}

func (c *Reporter) HandleReceipt(r domain.Receipt, warnings []error) error {
	return c.Handle(Section{
		Title: "Published " + string(r.Kind),
		Rows: []Row{
			{Label: "Project", Value: r.ProjectID},
			{Label: "File", Value: r.FileName},
			{Label: "Location", Value: r.Location},
			{Label: "Pages", Value: fmt.Sprint(r.Pages)},
			{Label: "Bytes", Value: fmt.Sprint(r.Bytes)},
		},
		Warnings: errorStrings(warnings),
	})
}

// HandleArtifact reports a document written to the local disk.
func (c *Reporter) HandleArtifact(kind domain.Kind, path string, pages, size int, warnings []error) error {
	return c.Handle(Section{
		Title: "Rendered " + string(kind),
		Rows: []Row{
			{Label: "File", Value: path},
			{Label: "Pages", Value: fmt.Sprint(pages)},
			{Label: "Bytes", Value: fmt.Sprint(size)},
		},
		Warnings: errorStrings(warnings),
	})
}

func (c *Reporter) HandleRejections(path string, applied int, rejections []domain.Rejection) error {
	s := Section{
		Title: "Applied delta",
		Rows: []Row{
			{Label: "Output", Value: path},
			{Label: "Applied", Value: fmt.Sprint(applied)},
			{Label: "Rejected", Value: fmt.Sprint(len(rejections))},
		},
	}
	for _, r := range rejections {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%s %s: %s", r.Target, r.ID, r.Reason))
	}
	return c.Handle(s)
}

func (c *Reporter) Handle(s Section) error {
	if c.styled {
		_, err := io.WriteString(c.writer, c.styledTable(s))
		return err
	}

	funcMap := template.FuncMap{
		"formatRow": func(label, value string) string {
			return fmt.Sprintf("| %-*s | %*s |", c.config.LabelWidth, label, c.config.ValueWidth, value)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.LabelWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
	}

	tmpl := `
=== {{.Title}} ===

{{separator}}
{{range .Rows}}{{formatRow .Label .Value}}
{{end}}{{separator}}
{{range .Warnings}}warning: {{.}}
{{end}}`

	t, err := template.New("section").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, s)
}

func (c *Reporter) styledTable(s Section) string {
	labelWidth, valueWidth := 0, 0
	for _, r := range s.Rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
		valueWidth = max(valueWidth, lipgloss.Width(r.Value))
	}

	const colGap = 2
	var b strings.Builder
	b.WriteString(styleHeader.Render(s.Title))
	b.WriteString("\n")
	b.WriteString(styleDim.Render(strings.Repeat("─", labelWidth+colGap+valueWidth)))
	b.WriteString("\n")

	for _, r := range s.Rows {
		label := r.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(r.Label)+colGap)
		value := strings.Repeat(" ", valueWidth-lipgloss.Width(r.Value)) + r.Value
		if r.Total {
			label, value = styleTotal.Render(label), styleTotal.Render(value)
		}
		b.WriteString(label)
		b.WriteString(value)
		b.WriteString("\n")
	}
	for _, w := range s.Warnings {
		b.WriteString(styleWarn.Render("! " + w))
		b.WriteString("\n")
	}
	return b.String()
}
