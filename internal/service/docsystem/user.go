package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	"docum/internal/config"
	models "docum/internal/domain/models/docsystem"
	"docum/internal/domain/repositories"
	docsysRepo "docum/internal/domain/repositories/docsystem"
	docsysSvc "docum/internal/domain/services/docsystem"
)

type userService struct {
	users      docsysRepo.UserRepository
	aggregates *Aggregates
	logger     *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	users docsysRepo.UserRepository,
	aggregates *Aggregates,
	logger *slog.Logger,
) docsysSvc.UserService {
	return &userService{
		users:      users,
		aggregates: aggregates,
		logger:     logger,
	}
}

// CreateUser creates a user with an empty root folder
func (s *userService) CreateUser(ctx context.Context, req *docsysSvc.CreateUserRequest) (*models.User, error) {
	u := models.NewUser(req.UserName, req.Email, req.Name, req.Surname, config.RootFolderName, s.aggregates.now())
	if err := validate(u); err != nil {
		return nil, err
	}

	if err := s.aggregates.Insert(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		"id", u.ID,
		"user_name", u.UserName,
	)
	return u, nil
}

// UpdateUser applies the non-nil request fields. Uniqueness is checked
// against every other user, so keeping one's own values is allowed.
func (s *userService) UpdateUser(ctx context.Context, id string, req *docsysSvc.UpdateUserRequest) (*models.User, error) {
	u, err := s.aggregates.Mutate(ctx, id, func(u *models.User) error {
		if req.UserName != nil {
			u.UserName = *req.UserName
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Surname != nil {
			u.Surname = *req.Surname
		}
		return validate(u)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "id", u.ID)
	return u, nil
}

// DeleteUser soft-deletes a user
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	_, err := s.aggregates.Mutate(ctx, id, func(u *models.User) error {
		u.IsDeleted = true
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", "id", id)
	return nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.aggregates.Load(ctx, id)
}

// ListUsers returns users in creation order
func (s *userService) ListUsers(ctx context.Context, includeDeleted bool) ([]*models.User, error) {
	var filter repositories.Filter
	if !includeDeleted {
		filter = repositories.Filter{repositories.Eq("is_deleted", false)}
	}

	users, err := s.users.Find(ctx, filter, 0)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
