package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"clinic-api/internal/auth"
	"clinic-api/internal/logging"
	"clinic-api/internal/model"
	"clinic-api/internal/store"
)

// Accounts is the credential lifecycle exposed to transports.
type Accounts interface {
	Register(ctx context.Context, in RegisterInput) (string, error)
	Login(ctx context.Context, in LoginInput) (string, error)
	ResetPassword(ctx context.Context, in ResetInput) error
	ListAccounts(ctx context.Context) ([]model.Account, error)
}

// AccountStore is the slice of the store the account service needs.
type AccountStore interface {
	CreateAccount(ctx context.Context, a *model.Account) error
	AccountByEmail(ctx context.Context, email string) (*model.Account, error)
	UpdatePassword(ctx context.Context, email, hash string) error
	ListAccounts(ctx context.Context) ([]model.Account, error)
}

type TokenIssuer interface {
	MakeToken(accountID, role string) (string, error)
}

type RegisterInput struct {
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

type ResetInput struct {
	Email       string
	NewPassword string
}

type AccountService struct {
	store  AccountStore
	tokens TokenIssuer
	cost   int
	log    logging.Logger
}

var _ Accounts = (*AccountService)(nil)

func NewAccountService(st AccountStore, tokens TokenIssuer, bcryptCost int, log logging.Logger) *AccountService {
	if log == nil {
		log = logging.Nop()
	}
	return &AccountService{store: st, tokens: tokens, cost: bcryptCost, log: log.With("component", "accounts")}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if in.Email == "" || in.Password == "" || in.Role == "" {
		return "", fmt.Errorf("%w: email, password, and role are required", ErrValidation)
	}

	hash, err := auth.HashPassword(in.Password, s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	a := &model.Account{
		ID:       uuid.New().String(),
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
	}
	if err := s.store.CreateAccount(ctx, a); err != nil {
		s.log.Error(ctx, "create account failed", "err", err)
		return "", fmt.Errorf("%w: create account: %w", ErrStorage, err)
	}

	s.log.Info(ctx, "account registered", "account_id", a.ID, "role", a.Role)
	return a.ID, nil
}

func (s *AccountService) Login(ctx context.Context, in LoginInput) (string, error) {
	if in.Email == "" || in.Password == "" {
		return "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	a, err := s.store.AccountByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		s.log.Error(ctx, "lookup account failed", "err", err)
		return "", fmt.Errorf("%w: lookup account: %w", ErrStorage, err)
	}

	if !auth.CheckPassword(a.Password, in.Password) {
		s.log.Warn(ctx, "password mismatch", "account_id", a.ID)
		return "", ErrInvalidCredentials
	}

	tok, err := s.tokens.MakeToken(a.ID, a.Role)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %w", ErrStorage, err)
	}
	return tok, nil
}

// ResetPassword rotates the stored hash. Tokens issued earlier stay valid
// until they expire.
func (s *AccountService) ResetPassword(ctx context.Context, in ResetInput) error {
	if in.Email == "" || in.NewPassword == "" {
		return fmt.Errorf("%w: email and new password are required", ErrValidation)
	}

	hash, err := auth.HashPassword(in.NewPassword, s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.store.UpdatePassword(ctx, in.Email, hash)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		s.log.Error(ctx, "update password failed", "err", err)
		return fmt.Errorf("%w: update password: %w", ErrStorage, err)
	}
	return nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]model.Account, error) {
	list, err := s.store.ListAccounts(ctx)
	if err != nil {
		s.log.Error(ctx, "list accounts failed", "err", err)
		return nil, fmt.Errorf("%w: list accounts: %w", ErrStorage, err)
	}
	for i := range list {
		list[i].Password = ""
	}
	return list, nil
}
