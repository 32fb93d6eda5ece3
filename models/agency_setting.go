package models

import "time"

// AgencySetting is the operator profile shown in the back-office header and
// the source of pricing defaults for new contracts.
type AgencySetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Email     string    `gorm:"size:150" json:"email"`
	Website   string    `gorm:"size:255" json:"website"`
	DefaultCurrency      string  `gorm:"size:8;default:EUR" json:"default_currency"`
	DefaultMarkupPercent float64 `gorm:"column:default_markup_percent" json:"default_markup_percent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
