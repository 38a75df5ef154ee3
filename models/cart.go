package models

import (
	"time"
)

// CartLine is one pending selection, scoped by (device_id, client_ip) so
// carts follow the device+network pair, never a shared global cart. The
// composite line key is (scope, menu_id, portion_option_id): a different
// portion of the same dish is a distinct line, the same portion merges by
// quantity.
type CartLine struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	DeviceID        string      `gorm:"type:varchar(64);not null;index:idx_cart_scope" json:"device_id"`
	ClientIP        string      `gorm:"type:varchar(64);not null;index:idx_cart_scope" json:"client_ip"`
	MenuID          uint        `gorm:"not null" json:"menu_id"`
	Menu            Menu        `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name            string      `gorm:"type:varchar(255);not null" json:"name"`
	PortionOptionID *uint       `json:"portion_option_id,omitempty"`
	PortionName     string      `gorm:"type:varchar(100)" json:"portion_name,omitempty"`
	UnitPrice       float64     `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity        int         `gorm:"not null" json:"quantity"`
	Notes           string      `gorm:"type:text" json:"notes,omitempty"`
	AddOns          []CartAddOn `gorm:"foreignKey:CartLineID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"add_ons,omitempty"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}

type CartAddOn struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	CartLineID uint    `gorm:"not null;index" json:"cart_line_id"`
	Name       string  `gorm:"type:varchar(100);not null" json:"name"`
	Price      float64 `gorm:"type:decimal(10,2);not null" json:"price"`
}

// LineTotal is (unit price + add-on prices) x quantity.
func (l *CartLine) LineTotal() float64 {
	unit := l.UnitPrice
	for _, a := range l.AddOns {
		unit += a.Price
	}
	return unit * float64(l.Quantity)
}
