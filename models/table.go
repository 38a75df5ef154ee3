package models

import "time"

// Table is a physical table; its QR code encodes the ordering URL with
// the table number pre-filled.
type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber string    `gorm:"type:varchar(10);not null;unique" json:"table_number"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
