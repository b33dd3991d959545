package migration

import (
	"github.com/filegate-io/filegate/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the tables this service owns. The host account
// table is deliberately absent: it belongs to the host application and is
// only ever read.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ResourceModel{},
		&models.AccessTokenModel{},
		&models.SettingModel{},
	}
}
