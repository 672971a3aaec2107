package service

import (
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/pkg/logger"
)

// DashboardStats is the admin landing page summary. Revenue excludes
// cancelled orders.
type DashboardStats struct {
	TotalRevenue     float64       `json:"total_revenue"`
	TotalOrders      int64         `json:"total_orders"`
	PendingOrders    int64         `json:"pending_orders"`
	TotalProducts    int64         `json:"total_products"`
	TotalCustomers   int64         `json:"total_customers"`
	UnresolvedAlerts int64         `json:"unresolved_alerts"`
	RecentOrders     []model.Order `json:"recent_orders"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
}

type dashboardService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	alertRepo   repository.InventoryAlertRepository
}

func NewDashboardService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	alertRepo repository.InventoryAlertRepository,
) DashboardService {
	return &dashboardService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		alertRepo:   alertRepo,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalRevenue, err = s.orderRepo.SumTotalAmount(); err != nil {
		logger.Error("Failed to sum revenue", err, nil)
		return nil, err
	}
	if stats.TotalOrders, err = s.orderRepo.Count(); err != nil {
		return nil, err
	}
	if stats.PendingOrders, err = s.orderRepo.CountByStatus(model.OrderStatusPending); err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = s.productRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalCustomers, err = s.userRepo.Count(); err != nil {
		return nil, err
	}
	if stats.UnresolvedAlerts, err = s.alertRepo.CountUnresolved(); err != nil {
		return nil, err
	}
	if stats.RecentOrders, err = s.orderRepo.FindRecent(5); err != nil {
		return nil, err
	}

	logger.Debug("Dashboard stats computed", map[string]interface{}{
		"total_orders":   stats.TotalOrders,
		"pending_orders": stats.PendingOrders,
		"total_revenue":  stats.TotalRevenue,
	})
	return stats, nil
}
