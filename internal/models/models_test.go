package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestPropertyDivision(t *testing.T) {
	tests := []struct {
		name     string
		property Property
		expected Division
		err      error
	}{
		{
			name:     "fixed units",
			property: Property{TotalUnits: intPtr(4), UnitName: "Lantai", UnitSize: floatPtr(120), UnitMeasure: "m²"},
			expected: FixedUnits{Count: 4, UnitName: "Lantai", UnitSize: floatPtr(120), UnitMeasure: "m²"},
		},
		{
			name:     "flexible area",
			property: Property{TotalArea: floatPtr(2500), UnitMeasure: "m²"},
			expected: FlexibleArea{TotalArea: 2500, UnitMeasure: "m²"},
		},
		{
			name:     "both present",
			property: Property{TotalUnits: intPtr(4), TotalArea: floatPtr(2500)},
			err:      ErrInvalidDivision,
		},
		{
			name: "neither present",
			err:  ErrInvalidDivision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.property.Division()
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPropertyToResponse(t *testing.T) {
	p := Property{ID: "prop-1", Name: "Kavling Sentul", Price: 1500000000, TotalArea: floatPtr(3000), Type: PropertyTypeCoOwning}
	resp := p.ToResponse()

	assert.Equal(t, "Rp 1.500.000.000", resp.FormattedPrice)
	assert.True(t, resp.Flexible)
	assert.Equal(t, FlexibleArea{TotalArea: 3000}, resp.Division)
}

func TestProgressStagesOverall(t *testing.T) {
	assert.Equal(t, 0, ProgressStages{}.Overall())
	assert.Equal(t, 100, ProgressStages{100, 100, 100, 100}.Overall())
	// (100+80+30+0)/4 = 52.5 rounds up
	assert.Equal(t, 53, ProgressStages{KYC: 100, Funding: 80, Legal: 30}.Overall())
	assert.Equal(t, 25, ProgressStages{KYC: 100}.Overall())
}

func TestProjectHasMember(t *testing.T) {
	p := Project{Members: []User{{ID: "u1"}, {ID: "u2"}}}
	assert.True(t, p.HasMember("u2"))
	assert.False(t, p.HasMember("u3"))
}

func TestMonthlyPaymentStatus(t *testing.T) {
	pending := MonthlyPayment{Status: PaymentStatusPending}
	paid := MonthlyPayment{Status: PaymentStatusPaid}

	assert.True(t, pending.MayPay())
	assert.False(t, pending.IsPaid())
	assert.False(t, paid.MayPay())
	assert.True(t, paid.IsPaid())
}
