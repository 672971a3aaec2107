package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrSettingNotFound     = errors.New("setting not found")
	ErrInvalidSettingValue = errors.New("setting value must be valid JSON")
)

type SettingsService interface {
	GetSettings() ([]model.SiteSetting, error)
	GetSetting(key string) (*model.SiteSetting, error)
	UpdateSetting(key, value string) (*model.SiteSetting, error)
}

type settingsService struct {
	settingRepo repository.SiteSettingRepository
}

func NewSettingsService(settingRepo repository.SiteSettingRepository) SettingsService {
	return &settingsService{settingRepo: settingRepo}
}

func (s *settingsService) GetSettings() ([]model.SiteSetting, error) {
	settings, err := s.settingRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list site settings", err, nil)
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) GetSetting(key string) (*model.SiteSetting, error) {
	setting, err := s.settingRepo.FindByKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		logger.Error("Failed to fetch site setting", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}
	return setting, nil
}

// UpdateSetting upserts a key. Values are stored as JSON documents so a
// setting can hold a string, a number, or a structured blob.
func (s *settingsService) UpdateSetting(key, value string) (*model.SiteSetting, error) {
	if !json.Valid([]byte(value)) {
		logger.Warn("Setting update rejected: value is not JSON", map[string]interface{}{
			"key": key,
		})
		return nil, ErrInvalidSettingValue
	}

	setting := &model.SiteSetting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	if err := s.settingRepo.Upsert(setting); err != nil {
		logger.Error("Failed to upsert site setting", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}

	logger.Info("Site setting updated", map[string]interface{}{
		"key": key,
	})
	return s.settingRepo.FindByKey(key)
}
