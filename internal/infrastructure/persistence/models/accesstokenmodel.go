package models

import (
	"time"

	"github.com/filegate-io/filegate/internal/shared/constants"
)

// AccessTokenModel represents the database persistence model for access tokens
// This is the anti-corruption layer between domain and database
type AccessTokenModel struct {
	ID         uint   `gorm:"primarykey"`
	TokenValue string `gorm:"uniqueIndex;not null;size:64"`
	ResourceID uint   `gorm:"not null;index:idx_token_resource"`
	OwnerID    uint   `gorm:"default:0"`
	OwnerEmail *string `gorm:"size:255"`
	OwnerIP    *string `gorm:"size:45"` // IPv6 max length
	CreatedAt  time.Time
	ExpiresAt  *time.Time `gorm:"index:idx_token_expires_at"`
	UseCount   uint       `gorm:"default:0"`
	MaxUses    uint       `gorm:"default:0"`
	LastUsedAt *time.Time `gorm:"index:idx_token_last_used"`
	Status     string     `gorm:"not null;size:20;default:active;index:idx_token_status"`
}

// TableName specifies the table name for GORM
func (AccessTokenModel) TableName() string {
	return constants.TableAccessTokens
}
