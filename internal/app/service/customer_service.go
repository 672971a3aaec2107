package service

import (
	"errors"

	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerService interface {
	ListCustomers(limit, offset int) ([]model.User, int64, error)
	GetCustomer(id uint) (*model.User, error)
	SetVIP(id uint, vip bool) (*model.User, error)
	SetBlocked(id uint, blocked bool) (*model.User, error)
}

type customerService struct {
	userRepo repository.UserRepository
}

func NewCustomerService(userRepo repository.UserRepository) CustomerService {
	return &customerService{userRepo: userRepo}
}

func (s *customerService) ListCustomers(limit, offset int) ([]model.User, int64, error) {
	users, err := s.userRepo.FindAll(limit, offset)
	if err != nil {
		logger.Error("Failed to list customers", err, nil)
		return nil, 0, err
	}
	total, err := s.userRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *customerService) GetCustomer(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		logger.Error("Failed to fetch customer", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *customerService) SetVIP(id uint, vip bool) (*model.User, error) {
	if err := s.userRepo.SetVIP(id, vip); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		logger.Error("Failed to update VIP flag", err, map[string]interface{}{
			"user_id": id,
			"vip":     vip,
		})
		return nil, err
	}

	logger.Info("Customer VIP flag updated", map[string]interface{}{
		"user_id": id,
		"vip":     vip,
	})
	return s.GetCustomer(id)
}

func (s *customerService) SetBlocked(id uint, blocked bool) (*model.User, error) {
	if err := s.userRepo.SetBlocked(id, blocked); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		logger.Error("Failed to update blocked flag", err, map[string]interface{}{
			"user_id": id,
			"blocked": blocked,
		})
		return nil, err
	}

	logger.Info("Customer blocked flag updated", map[string]interface{}{
		"user_id": id,
		"blocked": blocked,
	})
	return s.GetCustomer(id)
}
