package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"github.com/yukikurage/dropoff-point-api/internal/repository"
	"github.com/yukikurage/dropoff-point-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidEmail     = errors.New("email address is invalid")
	ErrEmailTaken       = errors.New("an account with this email already exists")
	ErrCannotDeleteSelf = errors.New("superusers are not allowed to delete themselves")
	ErrInvalidFullName  = errors.New("full name is too long")
)

// AccountService provides business logic for account operations.
type AccountService struct {
	store *repository.Store
	options
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *repository.Store, opts ...Option) *AccountService {
	return &AccountService{
		store:   store,
		options: newOptions(opts),
	}
}

// SignupInput represents parameters to register a new account.
type SignupInput struct {
	Email          string
	FullName       *string
	IsOrganization bool
}

// UpdateAccountInput holds the fields to change; nil leaves a field as is.
type UpdateAccountInput struct {
	Email          *string
	FullName       *string
	IsOrganization *bool
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || len(email) > 255 {
		return ErrInvalidEmail
	}
	return nil
}

func validateFullName(name *string) error {
	if name != nil && len(*name) > 255 {
		return ErrInvalidFullName
	}
	return nil
}

// Signup registers an active, non-superuser account.
func (s *AccountService) Signup(ctx context.Context, input SignupInput) (*models.Account, error) {
	email := NormalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateFullName(input.FullName); err != nil {
		return nil, err
	}

	account := &models.Account{
		Email:          email,
		FullName:       input.FullName,
		IsActive:       true,
		IsOrganization: input.IsOrganization,
	}

	err := s.store.RunInTx(ctx, func(store *repository.Store) error {
		if _, err := store.Accounts.FindByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up email: %w", err)
		}

		if err := store.Accounts.Create(ctx, account); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account created", "id", account.ID, "organization", account.IsOrganization)
	return account, nil
}

// Get returns an account by ID.
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	account, err := s.store.Accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// List returns a page of accounts and the total number of accounts.
func (s *AccountService) List(ctx context.Context, page utils.PaginationParams) ([]models.Account, int64, error) {
	accounts, total, err := s.store.Accounts.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, total, nil
}

// Update changes the profile of account.
func (s *AccountService) Update(ctx context.Context, account *models.Account, input UpdateAccountInput) (*models.Account, error) {
	if err := validateFullName(input.FullName); err != nil {
		return nil, err
	}

	updated := *account
	if input.FullName != nil {
		updated.FullName = input.FullName
	}
	if input.IsOrganization != nil {
		updated.IsOrganization = *input.IsOrganization
	}

	err := s.store.RunInTx(ctx, func(store *repository.Store) error {
		if input.Email != nil {
			email := NormalizeEmail(*input.Email)
			if err := validateEmail(email); err != nil {
				return err
			}
			existing, err := store.Accounts.FindByEmail(ctx, email)
			if err == nil && existing.ID != account.ID {
				return ErrEmailTaken
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up email: %w", err)
			}
			updated.Email = email
		}

		if err := store.Accounts.Update(ctx, &updated); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("failed to update account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete removes the account with id together with its memberships and
// drop-off points. Only the account itself or a superuser may do so, and a
// superuser may not delete its own account.
func (s *AccountService) Delete(ctx context.Context, actor *models.Account, id uuid.UUID) error {
	if actor.ID == id && actor.IsSuperuser {
		return ErrCannotDeleteSelf
	}
	if actor.ID != id && !actor.IsSuperuser {
		return ErrPermissionDenied
	}

	if err := s.store.Accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.logger.Info("account deleted", "id", id, "by", actor.ID)
	return nil
}
