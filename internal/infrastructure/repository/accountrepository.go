package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/filegate-io/filegate/internal/domain/identity"
	"github.com/filegate-io/filegate/internal/infrastructure/persistence/models"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

// AccountRepositoryImpl reads the host application's account table. The gate
// never writes to it; every method is a plain SELECT.
type AccountRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAccountRepository(db *gorm.DB, logger logger.Interface) identity.AccountRepository {
	return &AccountRepositoryImpl{db: db, logger: logger}
}

func (r *AccountRepositoryImpl) GetByLogin(ctx context.Context, login string) (*identity.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get account by login", "error", err)
		return nil, fmt.Errorf("failed to get account by login: %w", err)
	}

	return &identity.Account{
		ID:       model.ID,
		Login:    model.Login,
		PassHash: model.PassHash,
	}, nil
}

func (r *AccountRepositoryImpl) GetSessionRegistry(ctx context.Context, accountID uint) (map[string]identity.SessionEntry, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Select("session_registry").First(&model, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get session registry", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("failed to get session registry: %w", err)
	}

	if len(model.SessionRegistry) == 0 {
		return nil, nil
	}

	registry := make(map[string]identity.SessionEntry)
	if err := json.Unmarshal(model.SessionRegistry, &registry); err != nil {
		r.logger.Warnw("malformed session registry", "error", err, "account_id", accountID)
		return nil, nil
	}
	return registry, nil
}

func (r *AccountRepositoryImpl) GetCapabilities(ctx context.Context, accountID uint) (map[string]bool, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Select("capabilities").First(&model, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get capabilities", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("failed to get capabilities: %w", err)
	}

	if len(model.Capabilities) == 0 {
		return nil, nil
	}

	caps := make(map[string]bool)
	if err := json.Unmarshal(model.Capabilities, &caps); err != nil {
		r.logger.Warnw("malformed capability map", "error", err, "account_id", accountID)
		return nil, nil
	}
	return caps, nil
}
