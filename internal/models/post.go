package models

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryTech          Category = "tech"
	CategoryLifestyle     Category = "lifestyle"
	CategoryBusiness      Category = "business"
	CategoryEducation     Category = "education"
	CategoryHealth        Category = "health"
	CategoryEntertainment Category = "entertainment"
	CategoryOther         Category = "other"
)

var categories = map[Category]bool{
	CategoryTech:          true,
	CategoryLifestyle:     true,
	CategoryBusiness:      true,
	CategoryEducation:     true,
	CategoryHealth:        true,
	CategoryEntertainment: true,
	CategoryOther:         true,
}

// ValidCategory reports whether s is one of the known post categories.
func ValidCategory(s string) bool {
	return categories[Category(s)]
}

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  Category  `gorm:"type:varchar(20);not null;index" json:"category"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"authorId"`
	Thumbnail *string   `gorm:"type:varchar(255)" json:"thumbnail"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author Author `gorm:"foreignKey:AuthorID" json:"author"`
}
