package model

import "time"

// SiteSetting is a generic key/value store for storefront configuration
// edited from the back office (hero text, contact details, banners).
type SiteSetting struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"uniqueIndex:idx_site_settings_key;not null" json:"key"`
	Value     string    `gorm:"type:jsonb" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SiteSetting) TableName() string {
	return "site_settings"
}
