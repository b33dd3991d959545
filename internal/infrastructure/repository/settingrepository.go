package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/filegate-io/filegate/internal/domain/setting"
	"github.com/filegate-io/filegate/internal/infrastructure/persistence/models"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

// Setting row names. List values are JSON arrays in the value column.
const (
	settingDefaultRedirectURL     = "default_redirect_url"
	settingUnmanagedFilePolicy    = "unmanaged_file_policy"
	settingAllowBots              = "allow_bots"
	settingBotSignatures          = "bot_signatures"
	settingVerifiedBotDomains     = "verified_bot_domains"
	settingDNSCacheTTLSeconds     = "dns_cache_ttl_seconds"
	settingDefaultTokenExpirySecs = "default_token_expiry_seconds"
	settingDefaultTokenMaxUses    = "default_token_max_uses"
	settingCleanupDeleteOld       = "cleanup_delete_old"
	settingCleanupDeleteAgeMonths = "cleanup_delete_age_months"
	settingGlobalUserAllowList    = "global_user_allow_list"
	settingGlobalUserDenyList     = "global_user_deny_list"
	settingGlobalRoleAllowList    = "global_role_allow_list"
	settingGlobalRoleDenyList     = "global_role_deny_list"
)

type SettingRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSettingRepository(db *gorm.DB, logger logger.Interface) setting.Repository {
	return &SettingRepositoryImpl{db: db, logger: logger}
}

// Load reads every stored row and merges it over Defaults. Unknown names are
// ignored so old rows survive upgrades; malformed values fall back to the
// default with a warning.
func (r *SettingRepositoryImpl) Load(ctx context.Context) (*setting.Settings, error) {
	var rows []models.SettingModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to load settings", "error", err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := setting.Defaults()
	for _, row := range rows {
		r.apply(cfg, row.Name, row.Value)
	}
	return cfg, nil
}

func (r *SettingRepositoryImpl) Set(ctx context.Context, name string, value string) error {
	row := models.SettingModel{Name: name, Value: value, UpdatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		r.logger.Errorw("failed to set setting", "error", err, "name", name)
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

func (r *SettingRepositoryImpl) apply(cfg *setting.Settings, name, value string) {
	switch name {
	case settingDefaultRedirectURL:
		cfg.DefaultRedirectURL = value
	case settingUnmanagedFilePolicy:
		switch setting.UnmanagedFilePolicy(value) {
		case setting.UnmanagedServePublicly, setting.UnmanagedDeny:
			cfg.UnmanagedFilePolicy = setting.UnmanagedFilePolicy(value)
		default:
			r.logger.Warnw("unknown unmanaged file policy", "value", value)
		}
	case settingAllowBots:
		cfg.AllowBots = parseBool(value, cfg.AllowBots)
	case settingBotSignatures:
		r.applyStringList(&cfg.BotSignatures, name, value)
	case settingVerifiedBotDomains:
		r.applyStringList(&cfg.VerifiedBotDomains, name, value)
	case settingDNSCacheTTLSeconds:
		if secs, err := strconv.ParseInt(value, 10, 64); err == nil && secs > 0 {
			cfg.DNSCacheTTL = time.Duration(secs) * time.Second
		}
	case settingDefaultTokenExpirySecs:
		if secs, err := strconv.ParseInt(value, 10, 64); err == nil && secs >= 0 {
			cfg.DefaultTokenExpiry = time.Duration(secs) * time.Second
		}
	case settingDefaultTokenMaxUses:
		if n, err := strconv.ParseUint(value, 10, 32); err == nil {
			cfg.DefaultTokenMaxUses = uint(n)
		}
	case settingCleanupDeleteOld:
		cfg.CleanupDeleteOld = parseBool(value, cfg.CleanupDeleteOld)
	case settingCleanupDeleteAgeMonths:
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			cfg.CleanupDeleteAgeMonths = n
		}
	case settingGlobalUserAllowList:
		r.applyUintList(&cfg.GlobalUserAllowList, name, value)
	case settingGlobalUserDenyList:
		r.applyUintList(&cfg.GlobalUserDenyList, name, value)
	case settingGlobalRoleAllowList:
		r.applyStringList(&cfg.GlobalRoleAllowList, name, value)
	case settingGlobalRoleDenyList:
		r.applyStringList(&cfg.GlobalRoleDenyList, name, value)
	}
}

func (r *SettingRepositoryImpl) applyStringList(dst *[]string, name, value string) {
	var list []string
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		r.logger.Warnw("malformed list setting", "name", name, "error", err)
		return
	}
	*dst = list
}

func (r *SettingRepositoryImpl) applyUintList(dst *[]uint, name, value string) {
	var list []uint
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		r.logger.Warnw("malformed list setting", "name", name, "error", err)
		return
	}
	*dst = list
}

func parseBool(value string, fallback bool) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
