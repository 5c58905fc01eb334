package domain_test

import (
	"testing"
	"time"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFiscalYear_Contains(t *testing.T) {
	fy := domain.FiscalYear{
		StartDate: day(2026, time.January, 1),
		EndDate:   day(2026, time.December, 31),
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"first day", day(2026, time.January, 1), true},
		{"last day", day(2026, time.December, 31), true},
		{"middle", day(2026, time.June, 15), true},
		{"day before start", day(2025, time.December, 31), false},
		{"day after end", day(2027, time.January, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fy.Contains(tt.date))
		})
	}
}

func TestFiscalYear_Validate(t *testing.T) {
	valid := domain.FiscalYear{
		StartDate: day(2026, time.January, 1),
		EndDate:   day(2026, time.December, 31),
	}
	assert.NoError(t, valid.Validate())

	inverted := domain.FiscalYear{
		StartDate: day(2026, time.December, 31),
		EndDate:   day(2026, time.January, 1),
	}
	assert.Error(t, inverted.Validate())

	zeroLength := domain.FiscalYear{
		StartDate: day(2026, time.June, 1),
		EndDate:   day(2026, time.June, 1),
	}
	assert.Error(t, zeroLength.Validate())
}

func TestPeriod_ValidateWithin(t *testing.T) {
	fy := &domain.FiscalYear{
		StartDate: day(2026, time.January, 1),
		EndDate:   day(2026, time.December, 31),
	}

	tests := []struct {
		name    string
		period  domain.Period
		wantErr bool
	}{
		{
			name: "month inside the year",
			period: domain.Period{
				StartDate: day(2026, time.March, 1),
				EndDate:   day(2026, time.March, 31),
			},
			wantErr: false,
		},
		{
			name: "exact year range",
			period: domain.Period{
				StartDate: day(2026, time.January, 1),
				EndDate:   day(2026, time.December, 31),
			},
			wantErr: false,
		},
		{
			name: "starts before the year",
			period: domain.Period{
				StartDate: day(2025, time.December, 15),
				EndDate:   day(2026, time.January, 15),
			},
			wantErr: true,
		},
		{
			name: "ends after the year",
			period: domain.Period{
				StartDate: day(2026, time.December, 15),
				EndDate:   day(2027, time.January, 15),
			},
			wantErr: true,
		},
		{
			name: "inverted period range",
			period: domain.Period{
				StartDate: day(2026, time.March, 31),
				EndDate:   day(2026, time.March, 1),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.period.ValidateWithin(fy)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
