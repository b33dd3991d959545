package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/filegate-io/filegate/internal/shared/constants"
)

// AccountModel mirrors the host application's account table. The gate reads
// it; it never writes. Capabilities and the session registry are serialized
// JSON maps maintained by the host.
type AccountModel struct {
	ID       uint   `gorm:"primarykey"`
	Login    string `gorm:"uniqueIndex;not null;size:60"`
	PassHash string `gorm:"column:pass_hash;not null;size:255"`

	Capabilities    datatypes.JSON `gorm:"type:json"`
	SessionRegistry datatypes.JSON `gorm:"type:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (AccountModel) TableName() string {
	return constants.TableAccounts
}
