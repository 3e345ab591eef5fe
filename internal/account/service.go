// Package account implements the account directory: registration, login,
// password changes and self-service removal.
package account

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"restaurant-queue-backend/internal/auth"
	"restaurant-queue-backend/internal/model"
	"restaurant-queue-backend/internal/store"
)

// ErrInvalidCredentials is returned when a password check fails.
var ErrInvalidCredentials = errors.New("invalid name or password")

// Service is the account directory.
type Service struct {
	store  store.Store
	jwt    *auth.JWTService
	logger *zap.Logger
}

// NewService creates an account service.
func NewService(s store.Store, jwt *auth.JWTService, logger *zap.Logger) *Service {
	return &Service{store: s, jwt: jwt, logger: logger}
}

// Add creates an account directly with approved status. Registration with
// the full approval flow goes through Register.
func (s *Service) Add(ctx context.Context, name, password, role string) (*model.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:     name,
		Password: hash,
		Role:     role,
		Status:   model.StatusApproved,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates an account with role-dependent approval status: managers
// start pending and get an approval request, administrator registrations are
// rejected outright, everyone else is an approved customer.
func (s *Service) Register(ctx context.Context, name, password, role string) (*model.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Name: name, Password: hash, Role: role}
	switch role {
	case model.RoleManager:
		user.Status = model.StatusPending
	case model.RoleAdministrator:
		user.Status = model.StatusRejected
	default:
		user.Role = model.RoleCustomer
		user.Status = model.StatusApproved
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if user.Role == model.RoleManager {
		request := &model.ApprovalRequest{ApplicantID: user.ID}
		if err := s.store.CreateApproval(ctx, request); err != nil {
			return nil, err
		}
		s.logger.Info("approval request opened",
			zap.Int64("request_id", request.ID),
			zap.Int64("applicant_id", user.ID))
	}
	return user, nil
}

// Login verifies the credential and issues a signed token.
func (s *Service) Login(ctx context.Context, name, password string) (string, *model.User, error) {
	user, err := s.store.UserByName(ctx, name)
	if err != nil {
		return "", nil, err
	}
	if !auth.CheckPassword(password, user.Password) {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwt.Generate(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ChangePassword verifies the old credential and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) error {
	user, err := s.store.UserByName(ctx, name)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(oldPassword, user.Password) {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	return s.store.SaveUser(ctx, user)
}

// DeleteAccount verifies the credential and removes the account together
// with the records it owns.
func (s *Service) DeleteAccount(ctx context.Context, name, password string) error {
	user, err := s.store.UserByName(ctx, name)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(password, user.Password) {
		return ErrInvalidCredentials
	}
	return s.store.DeleteUserCascade(ctx, user.ID)
}

// GetByName looks up an account by its display name.
func (s *Service) GetByName(ctx context.Context, name string) (*model.User, error) {
	return s.store.UserByName(ctx, name)
}
