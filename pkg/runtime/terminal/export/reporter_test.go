package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/pricing"
	"github.com/de-tools/estimator/pkg/render"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totals(t *testing.T, afterTax bool) pricing.Totals {
	t.Helper()
	hours, qty := decimal.NewFromInt(10), decimal.NewFromInt(20)
	out, err := pricing.Compute(
		[]domain.LineItem{
			{Category: domain.CategoryLabor, Hours: &hours, UnitPrice: decimal.NewFromInt(500), TaxDeductionEligible: true},
			{Category: domain.CategoryMaterial, Quantity: &qty, UnitPrice: decimal.NewFromInt(50)},
		},
		[]domain.Addon{{Name: "Extra uttag", Price: decimal.NewFromInt(800), Selected: true}},
		pricing.Options{
			MarkupPercent:    decimal.NewFromInt(15),
			TaxPercent:       decimal.NewFromInt(25),
			DeductionPercent: decimal.NewFromInt(30),
			AddonsAfterTax:   afterTax,
		},
	)
	require.NoError(t, err)
	return out
}

func labels(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Label)
	}
	return out
}

func TestTotalsRows(t *testing.T) {
	rows := TotalsRows(totals(t, false), render.SwedishLocale())

	assert.Equal(t, []string{
		"labor", "material", "subcontracted", "Subtotal", "Markup (15 %)", "Addons",
		"Total excl. tax", "Tax (25 %)", "Total incl. tax", "Deduction base", "Deduction (30 %)", "Net after deduction",
	}, labels(rows))
	assert.Equal(t, "5 000 kr", rows[0].Value)
	assert.Equal(t, "7 700 kr", rows[6].Value)
	assert.Equal(t, "9 625 kr", rows[8].Value)
	assert.Equal(t, "8 125 kr", rows[11].Value)
	assert.True(t, rows[8].Total)
}

func TestTotalsRows_AddonsAfterTax(t *testing.T) {
	rows := TotalsRows(totals(t, true), render.SwedishLocale())

	names := labels(rows)
	assert.Equal(t, "Tax (25 %)", names[6])
	assert.Equal(t, "Addons (after tax)", names[7])
	assert.Equal(t, "Total incl. tax", names[8])
}

func TestReporter_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false)

	require.NoError(t, r.HandleTotals("Villa Ågren", totals(t, false), render.SwedishLocale()))

	out := buf.String()
	assert.Contains(t, out, "=== Villa Ågren ===")
	assert.Contains(t, out, "| Total incl. tax")
	assert.Contains(t, out, "9 625 kr |")
	assert.NotContains(t, out, "\x1b[")
}

func TestReporter_Styled(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, true)

	require.NoError(t, r.HandleReceipt(domain.Receipt{
		ProjectID: "p-1", Kind: domain.KindSchedule, FileName: "villa_ågren_2026-10-19_tidplan.pdf",
		Location: "file:///srv/documents/p-1", Pages: 2, Bytes: 4096,
	}, []error{errors.New("phase Målning ends after the schedule")}))

	out := buf.String()
	assert.Contains(t, out, "Published schedule")
	assert.Contains(t, out, "villa_ågren_2026-10-19_tidplan.pdf")
	assert.Contains(t, out, "phase Målning ends after the schedule")
	assert.NotContains(t, out, "|")
}

func TestReporter_Rejections(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false)

	require.NoError(t, r.HandleRejections("out.yaml", 2, []domain.Rejection{
		{Target: "checkpoint", ID: "c-2", Reason: "checkpoint already answered"},
	}))

	out := buf.String()
	assert.Contains(t, out, "| Applied")
	assert.Contains(t, out, "warning: checkpoint c-2: checkpoint already answered")
}
