package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	OccupancySingle = "single"
	OccupancyDouble = "double"
	OccupancyTriple = "triple"
	OccupancyQuad   = "quad"
)

// BoardRoomOnly is the zero-cost default board when a contract defines none.
const BoardRoomOnly = "room_only"

// Rate is a concrete sellable unit: inventory unit x occupancy (or service
// category) x board type for a date range. Contract-backed rates are generated
// from the contract's allocations; rates without a ContractID are buy-to-order
// and carry no capacity constraint.
type Rate struct {
	gorm.Model

	ContractID *uint `json:"contract_id,omitempty" gorm:"index;column:contract_id"`
	UnitID     uint  `json:"unit_id" gorm:"index;column:unit_id"`

	OccupancyType string  `json:"occupancy_type" gorm:"size:32;column:occupancy_type"`
	BoardType     string  `json:"board_type" gorm:"size:32;column:board_type;default:room_only"`
	BoardCost     float64 `json:"board_cost" gorm:"column:board_cost"`

	BaseRate      float64 `json:"base_rate" gorm:"column:base_rate"`
	Currency      string  `json:"currency" gorm:"size:8"`
	MarkupPercent float64 `json:"markup_percent" gorm:"column:markup_percent"`

	ValidFrom *time.Time `json:"valid_from,omitempty" gorm:"column:valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty" gorm:"column:valid_to"`

	// Rate-level restrictions; nil falls back to the parent contract.
	MinNights *int `json:"min_nights,omitempty" gorm:"column:min_nights"`
	MaxNights *int `json:"max_nights,omitempty" gorm:"column:max_nights"`

	// Cost parameter overrides; nil falls back to the parent contract.
	TaxRate                  *float64 `json:"tax_rate,omitempty" gorm:"column:tax_rate"`
	CityTaxPerPersonPerNight *float64 `json:"city_tax_per_person_per_night,omitempty" gorm:"column:city_tax_per_person_per_night"`
	ResortFeePerNight        *float64 `json:"resort_fee_per_night,omitempty" gorm:"column:resort_fee_per_night"`

	AllocationPoolID string `json:"allocation_pool_id,omitempty" gorm:"size:64;column:allocation_pool_id;index"`
	Active           bool   `json:"active" gorm:"default:true"`
}

// BuyToOrder reports whether the rate is flexible-sourcing inventory.
func (r *Rate) BuyToOrder() bool {
	return r.ContractID == nil
}
