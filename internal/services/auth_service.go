package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vyns/internal/logging"
	"vyns/internal/models"
	"vyns/internal/repositories"
	"vyns/internal/wallet"

	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordHashCost is the bcrypt cost for email identities.
	PasswordHashCost  = 12
	MinPasswordLength = 6
)

// SignatureVerifier checks that a signature proves control of a wallet.
type SignatureVerifier interface {
	Verify(chain wallet.Chain, address, message, signature string) (bool, error)
}

// Session is the outcome of a successful authentication.
type Session struct {
	Token     string
	User      *models.User
	IsNewUser bool
}

// AuthService handles business logic for authentication and sessions.
type AuthService struct {
	users    repositories.UserRepository
	tokens   *TokenService
	verifier SignatureVerifier
	events   EventPublisher
	log      logging.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users repositories.UserRepository,
	tokens *TokenService,
	verifier SignatureVerifier,
	events EventPublisher,
	log logging.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		events:   events,
		log:      log,
	}
}

// Signup creates an email identity with a bcrypt password hash.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, &repositories.DuplicateIdentityError{Field: "email"}
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        models.StringPtr(email),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "email identity created", "user", user.ID)
	return user, nil
}

// Login authenticates an email identity. Unknown email and wrong password
// fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(user, false)
}

// VerifyWallet logs a wallet in by signature, provisioning its identity on
// first use.
func (s *AuthService) VerifyWallet(ctx context.Context, chain wallet.Chain, address, message, signature string) (*Session, error) {
	ok, err := s.verifier.Verify(chain, address, message, signature)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidSignature
	}

	user, created, err := s.users.UpsertByWallet(ctx, address)
	if err != nil {
		return nil, err
	}

	if created {
		s.log.Info(ctx, "wallet identity created", "user", user.ID, "chain", chain)
		publishEvent(ctx, s.events, s.log, Event{
			Type:   EventIdentityCreated,
			Wallet: address,
			UserID: user.ID,
		})
	}
	return s.startSession(user, created)
}

// ResolveSession returns the identity a token belongs to.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, claims.UserID)
}

// CheckWallet returns the identity registered for address, or nil when none is.
func (s *AuthService) CheckWallet(ctx context.Context, address string) (*models.User, error) {
	user, err := s.users.GetByWallet(ctx, address)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) startSession(user *models.User, created bool) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, models.Deref(user.Wallet), models.Deref(user.Email))
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user, IsNewUser: created}, nil
}
