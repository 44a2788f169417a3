package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/service"
)

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) service.SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context, key string) (string, error) {
	var s domain.Setting
	if err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("setting %q not found", key)
		}
		return "", err
	}
	return s.Value, nil
}

func (r *settingsRepo) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.Assignments(map[string]any{"setting_value": value}),
	}).Create(&domain.Setting{Key: key, Value: value}).Error
}

func (r *settingsRepo) All(ctx context.Context) ([]*domain.Setting, error) {
	var settings []*domain.Setting
	if err := r.db.WithContext(ctx).Order("setting_key").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
