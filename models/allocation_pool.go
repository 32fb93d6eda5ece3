package models

import "time"

// Pool status labels derived from utilization.
const (
	PoolStatusHealthy    = "healthy"
	PoolStatusWarning    = "warning"
	PoolStatusCritical   = "critical"
	PoolStatusOverbooked = "overbooked"
)

// AllocationPool is a named capacity ledger for a physical inventory block.
// It exists independently of rates so that multiple rates (different
// occupancies, different room groups in a run-of-house block) can draw from
// one capacity without double-booking.
//
// Invariant: AvailableSpots = TotalCapacity - CurrentBookings, and stays
// non-negative unless AllowOverbooking is set.
type AllocationPool struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PoolID           string `json:"pool_id" gorm:"size:64;uniqueIndex;column:pool_id"`
	TotalCapacity    int    `json:"total_capacity" gorm:"column:total_capacity"`
	AvailableSpots   int    `json:"available_spots" gorm:"column:available_spots"`
	CurrentBookings  int    `json:"current_bookings" gorm:"column:current_bookings"`
	AllowOverbooking bool   `json:"allow_overbooking" gorm:"column:allow_overbooking;default:false"`
}

// UtilizationPercent is CurrentBookings over TotalCapacity.
func (p *AllocationPool) UtilizationPercent() float64 {
	if p.TotalCapacity <= 0 {
		return 0
	}
	return float64(p.CurrentBookings) / float64(p.TotalCapacity) * 100
}

// Status derives the health label used by the capacity dashboard.
func (p *AllocationPool) Status() string {
	if p.AvailableSpots < 0 {
		return PoolStatusOverbooked
	}
	u := p.UtilizationPercent()
	switch {
	case u > 90:
		return PoolStatusCritical
	case u >= 70:
		return PoolStatusWarning
	default:
		return PoolStatusHealthy
	}
}
