package adapters

import (
	"github.com/de-tools/estimator/pkg/models/api"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/pricing"
)

func MapTotalsDomainToApi(t pricing.Totals) api.Totals {
	out := api.Totals{
		Categories:        make([]api.CategoryTotal, 0, len(domain.Categories)),
		ItemCount:         t.ItemCount,
		Subtotal:          t.Subtotal,
		MarkupPercent:     t.MarkupPercent,
		Markup:            t.Markup,
		Addons:            t.Addons,
		AddonsAfterTax:    t.AddonsAfterTax,
		TotalExclTax:      t.TotalExclTax,
		TaxPercent:        t.TaxPercent,
		Tax:               t.Tax,
		TotalInclTax:      t.TotalInclTax,
		DeductionPercent:  t.DeductionPercent,
		DeductionBase:     t.DeductionBase,
		Deduction:         t.Deduction,
		NetAfterDeduction: t.NetAfterDeduction(),
	}
	for _, c := range domain.Categories {
		out.Categories = append(out.Categories, api.CategoryTotal{Category: string(c), Amount: t.Of(c)})
	}
	return out
}

func MapReceiptDomainToApi(r domain.Receipt, warnings []error) api.Receipt {
	out := api.Receipt{
		ProjectID:   r.ProjectID,
		Kind:        string(r.Kind),
		FileName:    r.FileName,
		Key:         r.Key,
		Location:    r.Location,
		Pages:       r.Pages,
		Bytes:       r.Bytes,
		GeneratedAt: r.GeneratedAt,
	}
	for _, w := range warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	return out
}
