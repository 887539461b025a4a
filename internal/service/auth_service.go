package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cashtrackr/internal/auth"
	"cashtrackr/internal/domain"
	"cashtrackr/internal/mailer"
	"cashtrackr/internal/repository"
)

var (
	// ErrEmailTaken is returned when registering (or updating a profile to)
	// an email that already belongs to another account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken indicates that no pending flow matches the supplied
	// confirmation/reset code.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserNotFound indicates no account exists for the given email or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotConfirmed blocks login until the account has been confirmed.
	ErrNotConfirmed = errors.New("account not confirmed")
	// ErrInvalidPassword indicates a password check failed.
	ErrInvalidPassword = errors.New("invalid password")
)

// AuthService orchestrates the account lifecycle: registration, email
// confirmation, login, password recovery and profile updates.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) error
	ConfirmAccount(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ValidateToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, password string) error
	UpdatePassword(ctx context.Context, userID int64, currentPassword, password string) error
	CheckPassword(ctx context.Context, userID int64, password string) error
	UpdateProfile(ctx context.Context, userID int64, name, email string) error
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	mail   mailer.Mailer

	// tokenObserver, when set, sees every freshly generated confirmation or
	// reset code. Wired only by tests.
	tokenObserver func(token string)
}

// AuthServiceOption customizes an AuthService.
type AuthServiceOption func(*authService)

// WithTokenObserver exposes generated confirmation/reset codes to an
// out-of-band observer. This is a test seam, never set in production wiring.
func WithTokenObserver(fn func(token string)) AuthServiceOption {
	return func(s *authService) { s.tokenObserver = fn }
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, mail mailer.Mailer, opts ...AuthServiceOption) AuthService {
	s := &authService{
		users:  users,
		tokens: tokens,
		mail:   mail,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *authService) Register(ctx context.Context, name, email, password string) error {
	email = strings.TrimSpace(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	token := auth.GenerateToken()
	if s.tokenObserver != nil {
		s.tokenObserver(token)
	}

	user := &domain.User{
		Name:     name,
		Password: hash,
		Email:    email,
		Token:    &token,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return err
	}

	if err := s.mail.SendAccountConfirmation(ctx, user.Name, user.Email, token); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

func (s *authService) ConfirmAccount(ctx context.Context, token string) error {
	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	user.Confirmed = true
	user.Token = nil
	return s.users.Update(ctx, user)
}

// Login checks existence, then confirmation, then the password, in that
// order, and returns a signed session token.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !user.Confirmed {
		return "", ErrNotConfirmed
	}

	if !auth.CheckPassword(password, user.Password) {
		return "", ErrInvalidPassword
	}

	return s.tokens.Issue(user.ID)
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token := auth.GenerateToken()
	if s.tokenObserver != nil {
		s.tokenObserver(token)
	}

	user.Token = &token
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mail.SendPasswordReset(ctx, user.Name, user.Email, token); err != nil {
		return fmt.Errorf("send password reset email: %w", err)
	}
	return nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) error {
	if _, err := s.users.GetByToken(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user.Password = hash
	user.Token = nil
	return s.users.Update(ctx, user)
}

func (s *authService) UpdatePassword(ctx context.Context, userID int64, currentPassword, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(currentPassword, user.Password) {
		return ErrInvalidPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user.Password = hash
	return s.users.Update(ctx, user)
}

func (s *authService) CheckPassword(ctx context.Context, userID int64, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(password, user.Password) {
		return ErrInvalidPassword
	}
	return nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID int64, name, email string) error {
	email = strings.TrimSpace(email)

	taken, err := s.users.EmailInUseByOther(ctx, email, userID)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Name = name
	user.Email = email
	return s.users.Update(ctx, user)
}

func (s *authService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
