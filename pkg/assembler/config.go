package assembler

import (
	"github.com/de-tools/estimator/pkg/layout"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/pricing"
	"github.com/de-tools/estimator/pkg/render"
	"github.com/shopspring/decimal"
)

// MeasurerFactory returns a fresh text measurer for one Assemble call.
type MeasurerFactory func() layout.Measurer

// PricingConfig holds the price chain settings shared by every document.
type PricingConfig struct {
	TaxPercent       decimal.Decimal
	DeductionPercent decimal.Decimal
	// AddonsAfterTax lists the kinds that add selected addons after tax.
	AddonsAfterTax map[domain.Kind]bool
	// ShowNetAfterDeduction adds a summary row with the total minus the deduction.
	ShowNetAfterDeduction bool
}

// Options returns the pricing options for a document kind and project markup.
func (p PricingConfig) Options(kind domain.Kind, markup decimal.Decimal) pricing.Options {
	return pricing.Options{
		MarkupPercent:    markup,
		TaxPercent:       p.TaxPercent,
		DeductionPercent: p.DeductionPercent,
		AddonsAfterTax:   p.AddonsAfterTax[kind],
	}
}

// Config is the immutable engine configuration, built once at startup.
type Config struct {
	Page     layout.PageSpec
	Theme    render.Theme
	Locale   render.Locale
	Labels   Labels
	Pricing  PricingConfig
	Measurer MeasurerFactory
}

func DefaultConfig() Config {
	return Config{
		Page:   layout.A4(),
		Theme:  render.DefaultTheme(),
		Locale: render.SwedishLocale(),
		Labels: SwedishLabels(),
		Pricing: PricingConfig{
			TaxPercent:            pricing.DefaultTaxPercent,
			DeductionPercent:      decimal.NewFromInt(30),
			AddonsAfterTax:        map[domain.Kind]bool{},
			ShowNetAfterDeduction: true,
		},
		Measurer: func() layout.Measurer { return layout.FixedMeasurer{} },
	}
}

// KindLabels are the per kind title and file name suffix.
type KindLabels struct {
	Title  string
	Suffix string
}

// Labels are the user visible strings of generated documents.
type Labels struct {
	Kinds map[domain.Kind]KindLabels

	Customer  string
	Address   string
	Reference string
	Date      string

	Summary    string
	Notes      string
	Addons     string
	Items      string
	Category   string
	Categories map[domain.Category]string

	Description string
	Quantity    string
	Unit        string
	Hours       string
	UnitPrice   string
	Amount      string
	Uncertainty string
	Deductible  string
	Selected    string
	Yes         string
	No          string

	Uncertainties map[domain.Uncertainty]string
	LumpSum       string

	ItemsSubtotal     string
	Markup            string
	AddonsTotal       string
	TotalExclTax      string
	Tax               string
	TotalInclTax      string
	Deduction         string
	NetAfterDeduction string

	Checkpoints   string
	Checkpoint    string
	Required      string
	Result        string
	Comment       string
	Results       map[domain.CheckpointResult]string
	Total         string
	RequiredOpen  string
	Deviations    string
	NotApplicable string

	Phases       string
	Phase        string
	Start        string
	Duration     string
	End          string
	ParallelWith string
	Timeline     string
	Span         string
	Unit1        string // singular schedule unit, "vecka"
	UnitN        string // plural schedule unit, "veckor"
	UnitShort    string // "v."

	Activities string
	Day        string
	Crew       string
	Days       string
	TotalHours string

	Generated string
	PageOf    string // fmt format with page and page count
}

func SwedishLabels() Labels {
	return Labels{
		Kinds: map[domain.Kind]KindLabels{
			domain.KindEstimate:      {Title: "Kostnadsförslag", Suffix: "kostnadsforslag"},
			domain.KindInspection:    {Title: "Egenkontroll", Suffix: "egenkontroll"},
			domain.KindSchedule:      {Title: "Tidplan", Suffix: "tidplan"},
			domain.KindActivityLog:   {Title: "Dagbok", Suffix: "dagbok"},
			domain.KindProjectReport: {Title: "Projektrapport", Suffix: "projektrapport"},
		},

		Customer:  "Kund",
		Address:   "Adress",
		Reference: "Referens",
		Date:      "Datum",

		Summary:  "Sammanställning",
		Notes:    "Anteckningar",
		Addons:   "Tillval",
		Items:    "Poster",
		Category: "Kategori",
		Categories: map[domain.Category]string{
			domain.CategoryLabor:         "Arbete",
			domain.CategoryMaterial:      "Material",
			domain.CategorySubcontracted: "Underentreprenad",
		},

		Description: "Beskrivning",
		Quantity:    "Antal",
		Unit:        "Enhet",
		Hours:       "Timmar",
		UnitPrice:   "À-pris",
		Amount:      "Belopp",
		Uncertainty: "Osäkerhet",
		Deductible:  "ROT",
		Selected:    "Vald",
		Yes:         "Ja",
		No:          "Nej",

		Uncertainties: map[domain.Uncertainty]string{
			domain.UncertaintyLow:    "Låg",
			domain.UncertaintyMedium: "Medel",
			domain.UncertaintyHigh:   "Hög",
		},
		LumpSum: "fast pris",

		ItemsSubtotal:     "Summa poster",
		Markup:            "Påslag",
		AddonsTotal:       "Tillval",
		TotalExclTax:      "Summa exkl. moms",
		Tax:               "Moms",
		TotalInclTax:      "Att betala inkl. moms",
		Deduction:         "ROT-avdrag",
		NetAfterDeduction: "Att betala efter ROT-avdrag",

		Checkpoints: "Kontrollpunkter",
		Checkpoint:  "Kontrollpunkt",
		Required:    "Obligatorisk",
		Result:      "Resultat",
		Comment:     "Kommentar",
		Results: map[domain.CheckpointResult]string{
			domain.ResultUnset:         "Ej kontrollerad",
			domain.ResultOK:            "OK",
			domain.ResultDeviation:     "Avvikelse",
			domain.ResultNotApplicable: "Ej tillämplig",
		},
		Total:         "Totalt",
		RequiredOpen:  "Obligatoriska kvar",
		Deviations:    "Avvikelser",
		NotApplicable: "Ej tillämpliga",

		Phases:       "Moment",
		Phase:        "Moment",
		Start:        "Start",
		Duration:     "Längd",
		End:          "Slut",
		ParallelWith: "Parallellt med",
		Timeline:     "Tidslinje",
		Span:         "Total längd",
		Unit1:        "vecka",
		UnitN:        "veckor",
		UnitShort:    "v.",

		Activities: "Dagboksanteckningar",
		Day:        "Dag",
		Crew:       "Bemanning",
		Days:       "Antal dagar",
		TotalHours: "Summa timmar",

		Generated: "Genererad",
		PageOf:    "Sida %d av %d",
	}
}
