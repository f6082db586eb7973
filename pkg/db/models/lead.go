package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
)

// Lead is an intake record, typically handed off from the conversational
// lead service before any client record exists.
type Lead struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContractorID uuid.UUID        `gorm:"column:contractor_id;type:uuid;not null;index"`
	ClientID     *uuid.UUID       `gorm:"column:client_id;type:uuid"`
	Name         string           `gorm:"column:name;not null"`
	Email        *string          `gorm:"column:email"`
	Phone        *string          `gorm:"column:phone"`
	Source       string           `gorm:"column:source;not null;default:'manual'"`
	ProjectType  *string          `gorm:"column:project_type"`
	Description  *string          `gorm:"column:description"`
	Status       enums.LeadStatus `gorm:"column:status;not null;default:'new'"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
