package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer record owned by a contractor.
type Client struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContractorID uuid.UUID `gorm:"column:contractor_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	Email        *string   `gorm:"column:email"`
	Phone        *string   `gorm:"column:phone"`
	AddressLine1 *string   `gorm:"column:address_line1"`
	AddressLine2 *string   `gorm:"column:address_line2"`
	City         *string   `gorm:"column:city"`
	State        *string   `gorm:"column:state"`
	PostalCode   *string   `gorm:"column:postal_code"`
	Notes        *string   `gorm:"column:notes"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
