package repository

import (
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll(limit, offset int) ([]model.User, error)
	Count() (int64, error)
	Update(user *model.User) error
	SetVIP(id uint, vip bool) error
	SetBlocked(id uint, blocked bool) error
	FindRoles(userID uint) ([]model.UserRole, error)
	AssignRole(userID uint, role model.Role) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Roles").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(limit, offset int) ([]model.User, error) {
	logger.Debug("Listing users", map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		logger.Error("Failed to list users", err, nil)
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) SetVIP(id uint, vip bool) error {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("is_vip", vip)
	if result.Error != nil {
		logger.Error("Failed to update VIP flag", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) SetBlocked(id uint, blocked bool) error {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("is_blocked", blocked)
	if result.Error != nil {
		logger.Error("Failed to update blocked flag", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) FindRoles(userID uint) ([]model.UserRole, error) {
	var roles []model.UserRole
	if err := r.db.Where("user_id = ?", userID).Find(&roles).Error; err != nil {
		logger.Error("Failed to fetch user roles", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return roles, nil
}

func (r *userRepository) AssignRole(userID uint, role model.Role) error {
	userRole := &model.UserRole{UserID: userID, Role: role}
	if err := r.db.Create(userRole).Error; err != nil {
		logger.Error("Failed to assign role", err, map[string]interface{}{
			"user_id": userID,
			"role":    role,
		})
		return err
	}
	return nil
}
