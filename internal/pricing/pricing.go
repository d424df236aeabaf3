// Package pricing estimates per-unit prices for co-buy properties.
package pricing

import (
	"errors"
	"fmt"
	"iter"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/cobuy-api/internal/models"
)

// ErrInvalidArgument is returned when a property cannot be priced per unit.
var ErrInvalidArgument = errors.New("invalid argument")

// Policy holds the per-step premiums applied over the base unit price.
type Policy struct {
	// BuildingStep is the premium per floor below the top floor.
	BuildingStep decimal.Decimal
	// PlotStep is the premium per plot after the first one.
	PlotStep decimal.Decimal
}

// DefaultPolicy is 5% per floor and 2% per plot.
func DefaultPolicy() Policy {
	return Policy{
		BuildingStep: decimal.NewFromFloat(0.05),
		PlotStep:     decimal.NewFromFloat(0.02),
	}
}

// NewPolicy builds a policy from float steps as read from configuration.
func NewPolicy(buildingStep, plotStep float64) Policy {
	return Policy{
		BuildingStep: decimal.NewFromFloat(buildingStep),
		PlotStep:     decimal.NewFromFloat(plotStep),
	}
}

// Allocate returns the estimated price of each unit of a fixed-unit
// property, indexed from 0. Prices are not normalised back to the property
// price, so their sum may exceed it. The sequence is recomputed on every
// iteration.
func Allocate(p *models.Property, policy Policy) (iter.Seq2[int, decimal.Decimal], error) {
	div, err := p.Division()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	units, ok := div.(models.FixedUnits)
	if !ok {
		return nil, fmt.Errorf("%w: property %s has no unit count", ErrInvalidArgument, p.ID)
	}
	if units.Count <= 0 {
		return nil, fmt.Errorf("%w: unit count must be positive, got %d", ErrInvalidArgument, units.Count)
	}

	n := units.Count
	var weight func(i int) decimal.Decimal
	switch p.Type {
	case models.PropertyTypeCoBuilding:
		weight = func(i int) decimal.Decimal {
			return decimal.NewFromInt(int64(n - 1 - i)).Mul(policy.BuildingStep)
		}
	case models.PropertyTypeCoOwning:
		weight = func(i int) decimal.Decimal {
			return decimal.NewFromInt(int64(i)).Mul(policy.PlotStep)
		}
	default:
		return nil, fmt.Errorf("%w: unknown property type %q", ErrInvalidArgument, p.Type)
	}

	price := decimal.NewFromInt(p.Price)
	count := decimal.NewFromInt(int64(n))
	return func(yield func(int, decimal.Decimal) bool) {
		base := price.DivRound(count, 8)
		for i := range n {
			if !yield(i, base.Mul(decimal.NewFromInt(1).Add(weight(i)))) {
				return
			}
		}
	}, nil
}

// Collect materialises an allocation into a slice.
func Collect(seq iter.Seq2[int, decimal.Decimal]) []decimal.Decimal {
	var out []decimal.Decimal
	for _, v := range seq {
		out = append(out, v)
	}
	return out
}

// Sum adds every price in an allocation.
func Sum(seq iter.Seq2[int, decimal.Decimal]) decimal.Decimal {
	total := decimal.Zero
	for _, v := range seq {
		total = total.Add(v)
	}
	return total
}

// UnitPrice is one allocated unit as returned by the API.
type UnitPrice struct {
	UnitID    int             `json:"unit_id"`
	Price     decimal.Decimal `json:"price"`
	Formatted string          `json:"formatted"`
}

// Share is the per-investor split of an area-divided property.
type Share struct {
	Investors   int             `json:"investors"`
	Price       decimal.Decimal `json:"price"`
	Area        decimal.Decimal `json:"area"`
	UnitMeasure string          `json:"unit_measure,omitempty"`
}

// EstimateShare splits a flexible-area property evenly between investors.
func EstimateShare(p *models.Property, investors int) (*Share, error) {
	if investors <= 0 {
		return nil, fmt.Errorf("%w: investors must be positive, got %d", ErrInvalidArgument, investors)
	}
	div, err := p.Division()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	area, ok := div.(models.FlexibleArea)
	if !ok {
		return nil, fmt.Errorf("%w: property %s is divided into fixed units", ErrInvalidArgument, p.ID)
	}

	n := decimal.NewFromInt(int64(investors))
	return &Share{
		Investors:   investors,
		Price:       decimal.NewFromInt(p.Price).DivRound(n, 2),
		Area:        decimal.NewFromFloat(area.TotalArea).DivRound(n, 2),
		UnitMeasure: area.UnitMeasure,
	}, nil
}
