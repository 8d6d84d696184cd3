package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-hq/inkwell/internal/models"
	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// PostFilter narrows list queries. Search is a case-insensitive
// substring match against title or content.
type PostFilter struct {
	Category string
	Search   string
}

// ExportFilter narrows CSV export queries. Nil/zero fields are ignored;
// From/To bound createdAt inclusively.
type ExportFilter struct {
	AuthorID *uuid.UUID
	Category string
	Search   string
	From     *time.Time
	To       *time.Time
}

// authorPreload limits the joined author to public list fields.
func authorPreload(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username")
}

func (r *PostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) GetByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author", authorPreload).Where("id = ?", id).First(&post).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &post, nil
}

func applyFilter(query *gorm.DB, category, search string) *gorm.DB {
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", needle, needle)
	}
	return query
}

// List returns one page of posts plus the total count for the filter.
// sortField and sortOrder must already be validated by the caller.
func (r *PostRepository) List(filter PostFilter, page, limit int, sortField, sortOrder string) ([]models.Post, int64, error) {
	query := applyFilter(r.db.Model(&models.Post{}), filter.Category, filter.Search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := query.
		Preload("Author", authorPreload).
		Order(sortField + " " + sortOrder).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error

	return posts, total, err
}

// UpdateFields applies a partial update and returns the fresh row with
// its author populated.
func (r *PostRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) (*models.Post, error) {
	if err := r.db.Model(&models.Post{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *PostRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Post{}, "id = ?", id).Error
}

// FindForExport returns all posts matching the filter, oldest first,
// with the full author contact fields for the CSV columns.
func (r *PostRepository) FindForExport(filter ExportFilter) ([]models.Post, error) {
	query := applyFilter(r.db.Model(&models.Post{}), filter.Category, filter.Search)

	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var posts []models.Post
	err := query.
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "full_name", "email")
		}).
		Order("created_at ASC").
		Find(&posts).Error

	return posts, err
}
