package models

import (
	"time"
)

// Order status lifecycle. Transitions only move forward:
// pending -> preparing -> completed.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusCompleted = "completed"
)

// Payment status. Once paid an order is immutable.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	TableNumber    string      `gorm:"type:varchar(10);not null;index" json:"table_number"`
	Status         string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus  string      `gorm:"type:varchar(10);not null;default:'unpaid'" json:"payment_status"`
	PaymentMethod  string      `gorm:"type:varchar(50);not null;default:'Cash'" json:"payment_method"`
	TotalAmount    float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	DeviceID       string      `gorm:"type:varchar(64);index" json:"device_id"`
	ClientIP       string      `gorm:"type:varchar(64)" json:"client_ip"`
	IdempotencyKey *string     `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	Lines          []OrderLine `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"lines"`
	CreatedAt      time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null" json:"last_updated"`
	PaidAt         *time.Time  `json:"paid_at,omitempty"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
}

// OrderLine is a snapshot taken at submission time. Menu edits after the
// fact never change what was ordered, so name and price are copied here
// instead of referenced.
type OrderLine struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	OrderID   uint         `gorm:"not null;index" json:"order_id"`
	Name      string       `gorm:"type:varchar(255);not null" json:"name"`
	UnitPrice float64      `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity  int          `gorm:"not null" json:"quantity"`
	Notes     string       `gorm:"type:text" json:"notes,omitempty"`
	AddOns    []OrderAddOn `gorm:"foreignKey:OrderLineID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"add_ons,omitempty"`
}

type OrderAddOn struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderLineID uint    `gorm:"not null;index" json:"order_line_id"`
	Name        string  `gorm:"type:varchar(100);not null" json:"name"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
}

// IsActive reports whether the order still needs staff attention:
// not yet completed, or completed but with payment outstanding.
func (o *Order) IsActive() bool {
	return o.Status != OrderStatusCompleted || o.PaymentStatus != PaymentStatusPaid
}
