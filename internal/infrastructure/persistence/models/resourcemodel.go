package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/filegate-io/filegate/internal/shared/constants"
)

// ResourceModel represents the database persistence model for gated files.
// The four list fields are JSON arrays; bot_policy is empty for "inherit".
type ResourceModel struct {
	ID          uint    `gorm:"primarykey"`
	Path        string  `gorm:"uniqueIndex;not null;size:512"`
	IsProtected bool    `gorm:"default:false;index:idx_resource_protected"`
	RedirectURL *string `gorm:"size:2048"`
	BotPolicy   string  `gorm:"size:10;default:''"`

	UserAllowList datatypes.JSON `gorm:"type:json"`
	UserDenyList  datatypes.JSON `gorm:"type:json"`
	RoleAllowList datatypes.JSON `gorm:"type:json"`
	RoleDenyList  datatypes.JSON `gorm:"type:json"`

	TokenExpirySeconds *int64
	TokenMaxUses       *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (ResourceModel) TableName() string {
	return constants.TableResources
}
