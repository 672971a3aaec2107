package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tuffwear/tuff-backend/internal/app/service"
	apperrors "github.com/tuffwear/tuff-backend/internal/errors"
	"github.com/tuffwear/tuff-backend/internal/middleware"
)

type SettingsController struct {
	settingsService service.SettingsService
}

func NewSettingsController(settingsService service.SettingsService) *SettingsController {
	return &SettingsController{
		settingsService: settingsService,
	}
}

type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// GetSettings returns all site settings. Public so the storefront can
// render branding without auth.
// GET /api/v1/settings
func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	settings, err := ctrl.settingsService.GetSettings()
	if err != nil {
		log.Error("Failed to list settings", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// GetSetting returns one setting by key
// GET /api/v1/settings/:key
func (ctrl *SettingsController) GetSetting(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	setting, err := ctrl.settingsService.GetSetting(c.Param("key"))
	if err != nil {
		if errors.Is(err, service.ErrSettingNotFound) {
			apperrors.NotFound(c, apperrors.SettingNotFound, "Setting not found")
			return
		}
		log.Error("Failed to fetch setting", err, map[string]interface{}{
			"key": c.Param("key"),
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get setting")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"setting": setting,
	})
}

// UpdateSetting upserts a setting value
// PUT /api/v1/admin/settings/:key
func (ctrl *SettingsController) UpdateSetting(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the information you entered")
		return
	}

	setting, err := ctrl.settingsService.UpdateSetting(c.Param("key"), req.Value)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSettingValue) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Setting value must be valid JSON")
			return
		}
		log.Error("Failed to update setting", err, map[string]interface{}{
			"key": c.Param("key"),
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update setting")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"setting": setting,
	})
}
