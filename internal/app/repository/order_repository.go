package repository

import (
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindAll(limit, offset int) ([]model.Order, error)
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindRecent(limit int) ([]model.Order, error)
	UpdateStatus(id uint, status model.OrderStatus) error
	UpdatePaymentStatus(id uint, paymentStatus string) error
	Count() (int64, error)
	CountByStatus(status model.OrderStatus) (int64, error)
	SumTotalAmount() (float64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_number": order.OrderNumber,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindAll(limit, offset int) ([]model.Order, error) {
	query := r.db.Preload("OrderItems").Preload("User").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		logger.Error("Failed to list orders", err, nil)
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("OrderItems").Preload("User").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("user_id = ?", userID).
		Preload("OrderItems").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindRecent(limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find recent orders", err, nil)
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update order status", result.Error, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) UpdatePaymentStatus(id uint, paymentStatus string) error {
	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("payment_status", paymentStatus)
	if result.Error != nil {
		logger.Error("Failed to update payment status", result.Error, map[string]interface{}{
			"order_id":       id,
			"payment_status": paymentStatus,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderRepository) CountByStatus(status model.OrderStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderRepository) SumTotalAmount() (float64, error) {
	var total float64
	err := r.db.Model(&model.Order{}).
		Where("status <> ?", model.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	if err != nil {
		logger.Error("Failed to sum order totals", err, nil)
		return 0, err
	}
	return total, nil
}
