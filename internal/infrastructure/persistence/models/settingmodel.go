package models

import (
	"time"

	"github.com/filegate-io/filegate/internal/shared/constants"
)

// SettingModel is one named global setting value. List-valued settings are
// stored as JSON text in Value.
type SettingModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;not null;size:100"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (SettingModel) TableName() string {
	return constants.TableSettings
}
