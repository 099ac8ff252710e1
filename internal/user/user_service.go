package user

import (
	"context"
	"time"

	"go-timesheet/internal/shared/contextutil"
	usererrors "go-timesheet/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	GetAll(ctx context.Context, activeOnly bool) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Upsert(ctx context.Context, id string, req UpsertUserRequest) (UserResponse, error)
	ToggleStatus(ctx context.Context, id string, isActive bool) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context, activeOnly bool) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("failed to list users", zap.Error(err))
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

// Upsert registers or refreshes the directory entry keyed by the identity id.
func (s *service) Upsert(ctx context.Context, id string, req UpsertUserRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	userUUID, err := uuid.Parse(id)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	switch req.Role {
	case "admin", "employee", "user":
	default:
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	u := &User{
		ID:        userUUID,
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Upsert(ctx, u); err != nil {
		l.Error("failed to upsert user", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	saved, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	l.Info("user upserted", zap.String("user_id", id), zap.String("role", req.Role))
	return mapToResponse(*saved), nil
}

func (s *service) ToggleStatus(ctx context.Context, id string, isActive bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}

	updated, err := s.repo.UpdateStatus(ctx, id, isActive)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("failed to update user status", zap.Error(err))
		return err
	}
	if !updated {
		return usererrors.ErrUserNotFound
	}
	return nil
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
