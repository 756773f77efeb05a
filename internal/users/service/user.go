package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	userserrors "campushub/internal/users/errors"
	"campushub/internal/users/repository"
	"campushub/internal/users/validator"
	"campushub/pkg/config"
	db_mongo "campushub/pkg/db/mongo"
	apperrors "campushub/pkg/errors"
	"campushub/pkg/model"
	"campushub/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

const mostActiveLimit = 5

type UserService interface {
	Create(ctx context.Context, user *model.User) error
	GetByUserID(ctx context.Context, userID string) (*model.User, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	UpdateRole(ctx context.Context, userID string, update *model.UserRoleUpdate) error
	MostActive(ctx context.Context) ([]model.ActiveUser, error)
	Delete(ctx context.Context, userID string) error
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	tx        db_mongo.TransactionManager
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	tx db_mongo.TransactionManager,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		tx:        tx,
		cfg:       cfg,
	}
}

func (s *userService) Create(ctx context.Context, user *model.User) error {
	user.Name = sanitizer.NormalizeName(user.Name)
	user.Email = sanitizer.NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = model.RoleStudent
	}

	if err := s.validator.Validate(user); err != nil {
		s.cfg.Log.Warn("User validation failed", "error", err)
		return apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicate) {
			return apperrors.Conflict(fmt.Sprintf("User with email %q already exists", user.Email))
		}
		s.cfg.Log.Error("Failed to create user", "email", user.Email, "error", err)
		return apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created successfully",
		"user_id", user.UserID,
		"role", user.Role,
	)
	return nil
}

func (s *userService) GetByUserID(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count users", "error", errCount)
			errCount = apperrors.Internal("Failed to count users", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		users, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list users", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve users", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return users, count, nil
}

func (s *userService) UpdateRole(ctx context.Context, userID string, update *model.UserRoleUpdate) error {
	if userID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	if err := s.validator.ValidateRoleUpdate(update); err != nil {
		s.cfg.Log.Warn("Role update validation failed", "user_id", userID, "error", err)
		return apperrors.Validation("Invalid role", map[string]any{"error": err.Error()})
	}

	if err := s.repo.UpdateRole(ctx, userID, update.Role); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", userID)
		}
		s.cfg.Log.Error("Failed to update user role", "user_id", userID, "error", err)
		return apperrors.Internal("Failed to update user role", err)
	}

	s.cfg.Log.Info("User role updated", "user_id", userID, "role", update.Role)
	return nil
}

func (s *userService) MostActive(ctx context.Context) ([]model.ActiveUser, error) {
	active, err := s.repo.MostActive(ctx, mostActiveLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to compute most active users", "error", err)
		return nil, apperrors.Internal("Failed to compute most active users", err)
	}

	return active, nil
}

func (s *userService) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	// The user document and their footprint in the other collections go
	// together or not at all.
	err := s.tx.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, userID); err != nil {
			return err
		}
		return s.repo.Scrub(sessCtx, userID)
	})
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", userID)
		}
		s.cfg.Log.Error("Failed to delete user", "user_id", userID, "error", err)
		return apperrors.Internal("Failed to delete user", err)
	}

	s.cfg.Log.Info("User deleted successfully", "user_id", userID)
	return nil
}
