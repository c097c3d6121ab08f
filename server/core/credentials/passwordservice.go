package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/kvstore"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashKey is the key-value store key of the admin password hash
const PasswordHashKey = "admin_password_hash"

const MinPasswordLength = 8

type PasswordService interface {
	// IsConfigured reports whether an admin password was set up
	IsConfigured(ctx context.Context) (bool, error)
	// CreatePassword sets the initial admin password. Fails if one exists.
	CreatePassword(ctx context.Context, password string) error
	// SetPassword overwrites the admin password without checking the old one
	SetPassword(ctx context.Context, password string) error
	// ChangePassword replaces the admin password after verifying the current one
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	// Verify checks a login attempt
	Verify(ctx context.Context, password string) error
}

type passwordService struct {
	logger logging.Logger
	store  kvstore.Store
	cost   int
}

func NewPasswordService(logger logging.Logger, store kvstore.Store) *passwordService {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &passwordService{
		logger: logger,
		store:  store,
		cost:   bcrypt.DefaultCost,
	}
}

func (s *passwordService) IsConfigured(ctx context.Context) (bool, error) {
	_, ok, err := s.store.Get(ctx, PasswordHashKey)
	if err != nil {
		s.logger.Error("Failed to check for admin password", "error", err)
		return false, fmt.Errorf("failed to read admin password: %w", err)
	}
	return ok, nil
}

func (s *passwordService) CreatePassword(ctx context.Context, password string) error {
	configured, err := s.IsConfigured(ctx)
	if err != nil {
		return err
	}
	if configured {
		s.logger.Warn("Admin password already exists, refusing to overwrite")
		return NewPasswordAlreadySetError()
	}

	if err := s.savePassword(ctx, password); err != nil {
		return err
	}
	s.logger.Info("Admin password created")
	return nil
}

func (s *passwordService) SetPassword(ctx context.Context, password string) error {
	if err := s.savePassword(ctx, password); err != nil {
		return err
	}
	s.logger.Info("Admin password set")
	return nil
}

func (s *passwordService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if err := s.Verify(ctx, oldPassword); err != nil {
		return err
	}
	if err := s.savePassword(ctx, newPassword); err != nil {
		return err
	}
	s.logger.Info("Admin password changed")
	return nil
}

func (s *passwordService) Verify(ctx context.Context, password string) error {
	hash, ok, err := s.store.Get(ctx, PasswordHashKey)
	if err != nil {
		s.logger.Error("Failed to read admin password", "error", err)
		return fmt.Errorf("failed to read admin password: %w", err)
	}
	if !ok {
		return NewPasswordNotSetError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return NewInvalidPasswordError()
		}
		s.logger.Error("Stored admin password hash is unusable", "error", err)
		return fmt.Errorf("failed to verify admin password: %w", err)
	}
	return nil
}

func (s *passwordService) savePassword(ctx context.Context, password string) error {
	if len(password) < MinPasswordLength {
		return NewWeakPasswordError(MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		s.logger.Error("Failed to hash admin password", "error", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.store.Set(ctx, PasswordHashKey, string(hash)); err != nil {
		s.logger.Error("Failed to store admin password", "error", err)
		return fmt.Errorf("failed to store password: %w", err)
	}
	return nil
}
