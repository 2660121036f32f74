package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
	"github.com/mmeshcher/restaurant-backoffice/internal/repository"
	"github.com/mmeshcher/restaurant-backoffice/internal/validation"
)

// AuthenticateAdmin проверяет логин и пароль администратора.
func (s *Service) AuthenticateAdmin(ctx context.Context, username, password string) (*model.Admin, error) {
	if missing := credentialFields(username, password); len(missing) > 0 {
		return nil, validation.NewError("Missing credentials", missing...)
	}

	a, err := s.repo.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return a, nil
}

// CreateAdmin создаёт администратора с bcrypt-хешем пароля.
func (s *Service) CreateAdmin(ctx context.Context, username, password string) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	if missing := credentialFields(username, password); len(missing) > 0 {
		return nil, validation.NewError("Missing credentials", missing...)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	a := &model.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateAdmin(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("admin created", zap.String("admin_id", a.ID), zap.String("username", a.Username))
	return a, nil
}

// UpdateAdminCredentials меняет логин и/или пароль администратора. Пустое значение не меняется.
func (s *Service) UpdateAdminCredentials(ctx context.Context, adminID, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" && password == "" {
		return validation.NewError("Nothing to update",
			validation.FieldError{Field: "username", Message: "username or password is required"})
	}

	a, err := s.repo.GetAdminByID(ctx, adminID)
	if err != nil {
		return err
	}

	if username == "" {
		username = a.Username
	}

	hash := a.PasswordHash
	if password != "" {
		if hash, err = hashPassword(password); err != nil {
			return err
		}
	}

	if err := s.repo.UpdateAdminCredentials(ctx, a.ID, username, hash); err != nil {
		return err
	}

	s.logger.Info("admin credentials updated", zap.String("admin_id", a.ID))
	return nil
}

func credentialFields(username, password string) []validation.FieldError {
	var missing []validation.FieldError
	if username == "" {
		missing = append(missing, validation.FieldError{Field: "username", Message: "is required"})
	}
	if password == "" {
		missing = append(missing, validation.FieldError{Field: "password", Message: "is required"})
	}
	return missing
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
