package services

import (
	"fmt"
	"time"

	"vyns/internal/common"

	"github.com/dgrijalva/jwt-go"
)

// SessionTTL is the fixed lifetime of a session token.
const SessionTTL = 7 * 24 * time.Hour

// ErrInvalidToken covers corrupt, forged and expired tokens alike: the remedy
// is always to authenticate again.
var ErrInvalidToken = common.NewError(common.KindAuthentication, "Invalid or expired token")

// SessionClaims is what a session token asserts about its bearer.
type SessionClaims struct {
	UserID string `json:"userId"`
	Wallet string `json:"wallet,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.StandardClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for the given identity, valid for SessionTTL.
func (s *TokenService) Issue(userID, wallet, email string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		UserID: userID,
		Wallet: wallet,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(SessionTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature and expiry and returns the claims.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	parser := &jwt.Parser{
		ValidMethods: []string{jwt.SigningMethodHS256.Alg()},
		// Expiry is checked below against the injected clock.
		SkipClaimsValidation: true,
	}

	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	now := s.now().Unix()
	if !claims.VerifyExpiresAt(now, true) || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
