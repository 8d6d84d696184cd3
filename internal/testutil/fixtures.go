package testutil

import (
	"github.com/google/uuid"
	"github.com/inkwell-hq/inkwell/internal/models"
	"github.com/inkwell-hq/inkwell/internal/utils"
)

// CreateTestUser creates an active user with a hashed password.
func CreateTestUser(username, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
	}, nil
}

// CreateTestUserWithEmail creates an active user with an email address,
// making them a notification recipient.
func CreateTestUserWithEmail(username, password, email string, role models.Role) (*models.User, error) {
	user, err := CreateTestUser(username, password, role)
	if err != nil {
		return nil, err
	}
	user.Email = email
	return user, nil
}

// CreateTestPost creates a post for the given author.
func CreateTestPost(authorID uuid.UUID, title, content string, category models.Category) *models.Post {
	return &models.Post{
		ID:       uuid.New(),
		Title:    title,
		Content:  content,
		Category: category,
		AuthorID: authorID,
	}
}
