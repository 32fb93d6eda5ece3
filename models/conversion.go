package models

import "time"

// ConversionHistory is an append-only audit log of accepted buy-to-order
// conversions. PriceDifference is a margin-reporting figure only; the
// customer-facing price on the booking is never changed by a conversion.
type ConversionHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	BookingID     uint      `gorm:"index;column:booking_id" json:"booking_id"`
	BookingRoomID uint      `gorm:"index;column:booking_room_id" json:"booking_room_id"`
	ContractID    uint      `gorm:"index;column:contract_id" json:"contract_id"`
	RateID        uint      `gorm:"column:rate_id" json:"rate_id"`
	ConvertedAt   time.Time `gorm:"column:converted_at" json:"converted_at"`

	OriginalPurchaseType string  `gorm:"size:32;column:original_purchase_type" json:"original_purchase_type"`
	PriceDifference      float64 `gorm:"column:price_difference" json:"price_difference"`
	Notes                string  `gorm:"type:text" json:"notes,omitempty"`
}
