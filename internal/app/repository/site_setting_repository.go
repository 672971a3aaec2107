package repository

import (
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SiteSettingRepository interface {
	FindAll() ([]model.SiteSetting, error)
	FindByKey(key string) (*model.SiteSetting, error)
	Upsert(setting *model.SiteSetting) error
}

type siteSettingRepository struct {
	db *gorm.DB
}

func NewSiteSettingRepository(db *gorm.DB) SiteSettingRepository {
	return &siteSettingRepository{db: db}
}

func (r *siteSettingRepository) FindAll() ([]model.SiteSetting, error) {
	var settings []model.SiteSetting
	if err := r.db.Order("key ASC").Find(&settings).Error; err != nil {
		logger.Error("Failed to list site settings", err, nil)
		return nil, err
	}
	return settings, nil
}

func (r *siteSettingRepository) FindByKey(key string) (*model.SiteSetting, error) {
	var setting model.SiteSetting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *siteSettingRepository) Upsert(setting *model.SiteSetting) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		logger.Error("Failed to upsert site setting", err, map[string]interface{}{
			"key": setting.Key,
		})
		return err
	}
	return nil
}
