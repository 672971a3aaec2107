package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tuffwear/tuff-backend/internal/app/service"
	apperrors "github.com/tuffwear/tuff-backend/internal/errors"
	"github.com/tuffwear/tuff-backend/internal/middleware"
)

type DashboardController struct {
	dashboardService service.DashboardService
	inventoryService service.InventoryService
}

func NewDashboardController(
	dashboardService service.DashboardService,
	inventoryService service.InventoryService,
) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		inventoryService: inventoryService,
	}
}

// GetStats returns the admin dashboard summary
// GET /api/v1/admin/dashboard
func (ctrl *DashboardController) GetStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.dashboardService.GetStats()
	if err != nil {
		log.Error("Failed to compute dashboard stats", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListInventoryAlerts returns unresolved low stock alerts
// GET /api/v1/admin/dashboard/alerts
func (ctrl *DashboardController) ListInventoryAlerts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	alerts, err := ctrl.inventoryService.ListAlerts()
	if err != nil {
		log.Error("Failed to list inventory alerts", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list alerts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}
