package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PricingPerOccupancy = "per_occupancy"
	PricingFlatRate     = "flat_rate"
)

// OccupancyRate is one entry of a contract's (or allocation's) rate list,
// stored inside a JSON column.
type OccupancyRate struct {
	OccupancyType string  `json:"occupancy_type"`
	Rate          float64 `json:"rate"`
}

// BoardOption maps a board type to its additional per-person-per-night cost.
type BoardOption struct {
	BoardType      string  `json:"board_type"`
	AdditionalCost float64 `json:"additional_cost"`
}

// Contract is a supplier agreement: validity window, pricing strategy,
// cost parameters and one or more allocations committing physical capacity.
type Contract struct {
	gorm.Model

	ItemID       uint       `json:"item_id" gorm:"index;column:item_id"`
	SupplierName string     `json:"supplier_name" gorm:"size:255;column:supplier_name"`
	ValidFrom    *time.Time `json:"valid_from" gorm:"column:valid_from"`
	ValidTo      *time.Time `json:"valid_to" gorm:"column:valid_to"`

	// per_occupancy or flat_rate
	PricingStrategy string  `json:"pricing_strategy" gorm:"size:32;column:pricing_strategy;default:per_occupancy"`
	BaseRate        float64 `json:"base_rate" gorm:"column:base_rate"`
	Currency        string  `json:"currency" gorm:"size:8;default:EUR"`

	MarkupPercent            float64 `json:"markup_percent" gorm:"column:markup_percent"`
	TaxRate                  float64 `json:"tax_rate" gorm:"column:tax_rate"`
	CityTaxPerPersonPerNight float64 `json:"city_tax_per_person_per_night" gorm:"column:city_tax_per_person_per_night"`
	ResortFeePerNight        float64 `json:"resort_fee_per_night" gorm:"column:resort_fee_per_night"`
	CommissionRate           float64 `json:"commission_rate" gorm:"column:commission_rate"`

	MinNights int `json:"min_nights" gorm:"column:min_nights;default:1"`
	MaxNights int `json:"max_nights" gorm:"column:max_nights;default:30"`

	// JSON: []OccupancyRate / []BoardOption
	OccupancyRates datatypes.JSON `json:"occupancy_rates,omitempty" gorm:"column:occupancy_rates"`
	BoardOptions   datatypes.JSON `json:"board_options,omitempty" gorm:"column:board_options"`

	Allocations []Allocation `json:"allocations,omitempty" gorm:"foreignKey:ContractID"`
	Item        Item         `json:"-" gorm:"foreignKey:ItemID"`
}

// Allocation commits Quantity physical units to one or more inventory units
// sharing a single pool (e.g. a run-of-house block spanning two room groups).
type Allocation struct {
	gorm.Model

	ContractID uint `json:"contract_id" gorm:"index;column:contract_id"`

	// JSON []uint: unit ids drawing from the same physical pool.
	UnitIDs  datatypes.JSON `json:"unit_ids" gorm:"column:unit_ids"`
	Quantity int            `json:"quantity" gorm:"column:quantity"`

	// Optional pool tag; generated rates inherit it.
	AllocationPoolID string `json:"allocation_pool_id,omitempty" gorm:"size:64;column:allocation_pool_id;index"`

	// Flat-rate contracts: per-allocation base rate override.
	BaseRate *float64 `json:"base_rate,omitempty" gorm:"column:base_rate"`

	// Per-allocation occupancy rate overrides (JSON []OccupancyRate).
	OccupancyRates datatypes.JSON `json:"occupancy_rates,omitempty" gorm:"column:occupancy_rates"`
}

// OccupancyRateList decodes the contract-level occupancy rates. Malformed or
// empty JSON degrades to nil rather than failing the calling computation.
func (c *Contract) OccupancyRateList() []OccupancyRate {
	return decodeOccupancyRates(c.OccupancyRates)
}

// BoardOptionList decodes the contract's board options; nil when unset.
func (c *Contract) BoardOptionList() []BoardOption {
	if len(c.BoardOptions) == 0 {
		return nil
	}
	var out []BoardOption
	if err := json.Unmarshal(c.BoardOptions, &out); err != nil {
		return nil
	}
	return out
}

// UnitIDList decodes the allocation's unit-id set.
func (a *Allocation) UnitIDList() []uint {
	if len(a.UnitIDs) == 0 {
		return nil
	}
	var out []uint
	if err := json.Unmarshal(a.UnitIDs, &out); err != nil {
		return nil
	}
	return out
}

// Covers reports whether the allocation provides capacity for the given unit.
func (a *Allocation) Covers(unitID uint) bool {
	for _, id := range a.UnitIDList() {
		if id == unitID {
			return true
		}
	}
	return false
}

// OccupancyRateList decodes the allocation-level overrides; nil when unset.
func (a *Allocation) OccupancyRateList() []OccupancyRate {
	return decodeOccupancyRates(a.OccupancyRates)
}

func decodeOccupancyRates(raw datatypes.JSON) []OccupancyRate {
	if len(raw) == 0 {
		return nil
	}
	var out []OccupancyRate
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
