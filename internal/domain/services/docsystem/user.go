package docsystem

import (
	"context"

	"docum/internal/domain/models/docsystem"
)

// UserService manages user aggregates
type UserService interface {
	// CreateUser validates and inserts a new user with an empty root folder.
	// Returns *domain.ConflictError when a uniqueness constraint is taken.
	CreateUser(ctx context.Context, req *CreateUserRequest) (*docsystem.User, error)

	// UpdateUser changes profile fields, re-checking uniqueness
	UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) (*docsystem.User, error)

	// DeleteUser soft-deletes a user; the record is kept
	DeleteUser(ctx context.Context, id string) error

	// GetUser returns a user, including soft-deleted ones
	GetUser(ctx context.Context, id string) (*docsystem.User, error)

	// ListUsers returns users in creation order
	ListUsers(ctx context.Context, includeDeleted bool) ([]*docsystem.User, error)
}

// CreateUserRequest represents a user creation request
type CreateUserRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// UpdateUserRequest represents a partial user update
type UpdateUserRequest struct {
	UserName *string `json:"user_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Surname  *string `json:"surname,omitempty"`
}
