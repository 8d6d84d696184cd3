package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-hq/inkwell/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role     string
	IsActive *bool
	Search   string
}

// UserStats aggregates account counts for the admin dashboard.
type UserStats struct {
	Total         int64 `json:"totalUsers"`
	Admins        int64 `json:"admins"`
	Users         int64 `json:"users"`
	Active        int64 `json:"active"`
	Inactive      int64 `json:"inactive"`
	NewLast30Days int64 `json:"newLast30Days"`
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// List returns a page of users sorted by creation time descending, plus
// the total count for the filter.
func (r *UserRepository) List(filter UserFilter, page, limit int) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(username) LIKE ? OR LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?",
			needle, needle, needle,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error

	return users, total, err
}

// UpdateFields applies a partial update and returns the fresh row.
func (r *UserRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) (*models.User, error) {
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *UserRepository) SetActive(id uuid.UUID, active bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", active).Error
}

// Stats computes aggregate account counts in a handful of queries.
func (r *UserRepository) Stats() (*UserStats, error) {
	stats := &UserStats{}
	users := r.db.Model(&models.User{})

	if err := users.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := users.Session(&gorm.Session{}).Where("role = ?", models.RoleAdmin).Count(&stats.Admins).Error; err != nil {
		return nil, err
	}
	stats.Users = stats.Total - stats.Admins

	if err := users.Session(&gorm.Session{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active

	since := time.Now().AddDate(0, 0, -30)
	if err := users.Session(&gorm.Session{}).Where("created_at >= ?", since).Count(&stats.NewLast30Days).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// GetNotifiable returns active users with an email set, excluding one
// user (the author of the post being announced).
func (r *UserRepository) GetNotifiable(exclude uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("is_active = ?", true).
		Where("email <> ''").
		Where("id <> ?", exclude).
		Find(&users).Error

	return users, err
}
