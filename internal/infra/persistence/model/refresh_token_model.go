package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel mirrors the 'refresh_tokens' table. One row per open device session.
type RefreshTokenModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID     uuid.UUID `gorm:"type:uuid;not null"`
	TokenHash  string    `gorm:"type:varchar(255);unique;not null"`
	DeviceInfo string    `gorm:"type:varchar(255)"`
	FCMToken   string    `gorm:"type:varchar(512)"`
	ExpiresAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
