package models

import (
	"gorm.io/gorm"
)

// Item kinds form a closed set; anything the booking desk sells is one of these.
const (
	ItemKindHotel    = "hotel"
	ItemKindTransfer = "transfer"
	ItemKindTicket   = "ticket"
)

// Item is a unified inventory item: a hotel, a transfer route or a ticketed
// activity. Units below it carry the capacity-relevant metadata.
type Item struct {
	gorm.Model

	Name        string `json:"name" gorm:"size:255"`
	Kind        string `json:"kind" gorm:"size:32;index"`
	Destination string `json:"destination" gorm:"size:128"`
	Stars       int    `json:"stars,omitempty"`
	Active      bool   `json:"active" gorm:"default:true"`

	Units []InventoryUnit `json:"units,omitempty" gorm:"foreignKey:ItemID"`
}

// InventoryUnit is a hotel room-group or a service category under an Item.
// Once a Rate references a unit it must not be deleted (enforced in services,
// not cascaded).
type InventoryUnit struct {
	gorm.Model

	ItemID uint   `json:"item_id" gorm:"index;column:item_id"`
	Name   string `json:"name" gorm:"size:255"`

	// Hotel room-groups use RoomCapacity; service categories use pax bounds.
	RoomCapacity int `json:"room_capacity,omitempty" gorm:"column:room_capacity"`
	MinPax       int `json:"min_pax,omitempty" gorm:"column:min_pax"`
	MaxPax       int `json:"max_pax,omitempty" gorm:"column:max_pax"`

	Item Item `json:"-" gorm:"foreignKey:ItemID"`
}
