package models

import (
	"errors"
	"time"

	"github.com/sjperalta/cobuy-api/internal/format"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrInvalidDivision is returned when a property has both or neither of a unit count and a total area.
var ErrInvalidDivision = errors.New("property must define exactly one of total_units or total_area")

// PropertyType distinguishes how members share a property
type PropertyType string

// Property type constants
const (
	PropertyTypeCoBuilding PropertyType = "co-building"
	PropertyTypeCoOwning   PropertyType = "co-owning"
)

// Property represents a curated property members can buy into
type Property struct {
	ID           string                      `gorm:"primaryKey;size:64" json:"id"`
	Name         string                      `gorm:"not null" json:"name"`
	Description  string                      `gorm:"type:text" json:"description"`
	Price        int64                       `gorm:"not null" json:"price"`
	TotalArea    *float64                    `json:"total_area,omitempty"`
	Location     string                      `gorm:"index" json:"location"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	Type         PropertyType                `gorm:"size:20;not null;index" json:"type"`
	TotalUnits   *int                        `json:"total_units,omitempty"`
	UnitName     string                      `json:"unit_name"`
	UnitSize     *float64                    `json:"unit_size,omitempty"`
	UnitMeasure  string                      `json:"unit_measure,omitempty"`
	PlanningInfo datatypes.JSONSlice[string] `json:"planning_info,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// TableName specifies the table name for Property
func (Property) TableName() string {
	return "properties"
}

// Division is either FixedUnits or FlexibleArea.
type Division interface {
	isDivision()
}

// FixedUnits is a property split into a known number of units (floors or plots).
type FixedUnits struct {
	Count       int      `json:"count"`
	UnitName    string   `json:"unit_name"`
	UnitSize    *float64 `json:"unit_size,omitempty"`
	UnitMeasure string   `json:"unit_measure,omitempty"`
}

// FlexibleArea is land whose share size is settled by the final investor count.
type FlexibleArea struct {
	TotalArea   float64 `json:"total_area"`
	UnitMeasure string  `json:"unit_measure,omitempty"`
}

func (FixedUnits) isDivision()   {}
func (FlexibleArea) isDivision() {}

// Division returns the way the property is split between members.
func (p *Property) Division() (Division, error) {
	switch {
	case p.TotalUnits != nil && p.TotalArea == nil:
		return FixedUnits{
			Count:       *p.TotalUnits,
			UnitName:    p.UnitName,
			UnitSize:    p.UnitSize,
			UnitMeasure: p.UnitMeasure,
		}, nil
	case p.TotalUnits == nil && p.TotalArea != nil:
		return FlexibleArea{TotalArea: *p.TotalArea, UnitMeasure: p.UnitMeasure}, nil
	default:
		return nil, ErrInvalidDivision
	}
}

// IsFlexible returns true for area-divided properties without a unit count
func (p *Property) IsFlexible() bool {
	_, ok := p.mustDivision().(FlexibleArea)
	return ok
}

func (p *Property) mustDivision() Division {
	d, _ := p.Division()
	return d
}

// BeforeSave rejects properties whose division is ambiguous
func (p *Property) BeforeSave(tx *gorm.DB) error {
	_, err := p.Division()
	return err
}

// PropertyResponse is the JSON response format for properties
type PropertyResponse struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Price          int64        `json:"price"`
	FormattedPrice string       `json:"formatted_price"`
	Location       string       `json:"location"`
	Images         []string     `json:"images"`
	Type           PropertyType `json:"type"`
	Division       Division     `json:"division"`
	Flexible       bool         `json:"flexible"`
	PlanningInfo   []string     `json:"planning_info,omitempty"`
}

// ToResponse converts Property to PropertyResponse
func (p *Property) ToResponse() PropertyResponse {
	return PropertyResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		FormattedPrice: format.FormatCurrency(p.Price),
		Location:       p.Location,
		Images:         p.Images,
		Type:           p.Type,
		Division:       p.mustDivision(),
		Flexible:       p.IsFlexible(),
		PlanningInfo:   p.PlanningInfo,
	}
}
