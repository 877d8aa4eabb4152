package assembler

import (
	"testing"
	"time"

	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
		valid    bool
	}{
		{
			name:     "full sequence",
			sections: []Section{Cover{}, KeyValueTable{}, ItemTable{}, ItemTable{}, Timeline{}, FreeText{}, FreeText{}},
			valid:    true,
		},
		{name: "cover and summary only", sections: []Section{Cover{}, KeyValueTable{}}, valid: true},
		{name: "missing summary", sections: []Section{Cover{}, ItemTable{}}},
		{name: "summary first", sections: []Section{KeyValueTable{}, Cover{}}},
		{name: "second cover", sections: []Section{Cover{}, KeyValueTable{}, Cover{}}},
		{name: "second summary", sections: []Section{Cover{}, KeyValueTable{}, KeyValueTable{}}},
		{name: "table after timeline", sections: []Section{Cover{}, KeyValueTable{}, Timeline{}, ItemTable{}}},
		{name: "two timelines", sections: []Section{Cover{}, KeyValueTable{}, Timeline{}, Timeline{}}},
		{name: "empty", sections: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Document{Sections: tt.sections}.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrSectionOrder)
			}
		})
	}
}

func TestDeriveFileName(t *testing.T) {
	date := time.Date(2026, time.March, 5, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		subject string
		want    string
	}{
		{"Villa Ågren", "villa_ågren_2026-03-05_tidplan.pdf"},
		{"  BRF Solen / Hus 2 -- Etapp #3  ", "brf_solen_hus_2_etapp_3_2026-03-05_tidplan.pdf"},
		{"Café Öst", "caf_öst_2026-03-05_tidplan.pdf"},
		{"", "dokument_2026-03-05_tidplan.pdf"},
		{"***", "dokument_2026-03-05_tidplan.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			first := DeriveFileName(tt.subject, date, "tidplan")
			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, DeriveFileName(tt.subject, date, "tidplan"))
		})
	}
}

func TestNewBundle(t *testing.T) {
	records := domain.Records{
		Project:    domain.Project{Name: "Villa Ågren"},
		Phases:     []domain.Phase{{Name: "Rivning", StartUnit: 1, DurationUnits: 2}},
		TotalUnits: 8,
	}

	for _, kind := range domain.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			b, err := NewBundle(kind, records)
			require.NoError(t, err)
			assert.Equal(t, kind, b.Kind())
			assert.Equal(t, "Villa Ågren", b.subject().Name)
		})
	}

	b, err := NewBundle(domain.KindSchedule, records)
	require.NoError(t, err)
	assert.Equal(t, 8, b.(*ScheduleBundle).TotalUnits)

	_, err = NewBundle("invoice", records)
	assert.ErrorIs(t, err, ErrUnknownKind)
}
