package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

const (
	PurchaseInventory  = "inventory"
	PurchaseBuyToOrder = "buy_to_order"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CustomerID    uint   `gorm:"index;column:customer_id" json:"customer_id"`
	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"reference_code,omitempty"`
	Status        string `gorm:"column:status;size:32;default:pending" json:"status"`

	CheckIn  *time.Time `gorm:"column:check_in" json:"check_in,omitempty"`
	CheckOut *time.Time `gorm:"column:check_out" json:"check_out,omitempty"`
	Nights   int        `gorm:"column:nights" json:"nights,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	Customer Customer      `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Rooms    []BookingRoom `gorm:"foreignKey:BookingID" json:"rooms"`
}

// Cancelled reports whether the booking no longer consumes capacity.
func (b *Booking) Cancelled() bool {
	return b.Status == BookingStatusCancelled
}

// BookingRoom is one line item of a booking: a rate (or contract) reference,
// a quantity and the sourcing mode. AllocationPoolID is stamped at booking
// time so capacity consumption never has to be reconstructed from names.
type BookingRoom struct {
	gorm.Model

	BookingID  uint  `gorm:"index;column:booking_id" json:"booking_id"`
	RateID     *uint `gorm:"index;column:rate_id" json:"rate_id,omitempty"`
	ContractID *uint `gorm:"index;column:contract_id" json:"contract_id,omitempty"`
	UnitID     uint  `gorm:"index;column:unit_id" json:"unit_id"`

	Quantity      int    `gorm:"column:quantity;default:1" json:"quantity"`
	OccupancyType string `gorm:"size:32;column:occupancy_type" json:"occupancy_type"`
	BoardType     string `gorm:"size:32;column:board_type" json:"board_type"`

	// inventory or buy_to_order
	PurchaseType string `gorm:"size:32;column:purchase_type;default:inventory" json:"purchase_type"`

	AllocationPoolID string  `gorm:"size:64;column:allocation_pool_id;index" json:"allocation_pool_id,omitempty"`
	PricePaid        float64 `gorm:"column:price_paid" json:"price_paid"`

	// Conversion audit metadata (JSON), stamped when a buy-to-order line item
	// is remapped onto contracted inventory.
	ConversionInfo datatypes.JSON `gorm:"column:conversion_info" json:"conversion_info,omitempty"`

	Booking Booking `gorm:"foreignKey:BookingID;references:ID" json:"-"`
}
