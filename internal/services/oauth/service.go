package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/iraycd/sway-backend/internal/config"
)

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// Identity is a verified external identity: who the provider says the
// caller is.
type Identity struct {
	Provider string
	Subject  string
	Email    string
}

// IdentityVerifier checks a provider-issued id_token and returns the
// identity it asserts.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// Service issues and validates backend access tokens and dispatches
// provider id_token verification.
type Service struct {
	secret    []byte
	ttl       time.Duration
	verifiers map[string]IdentityVerifier
}

func NewService(cfg *config.Config) *Service {
	verifiers := make(map[string]IdentityVerifier)
	if cfg.GoogleClientID != "" {
		verifiers["google"] = NewGoogleVerifier(cfg.GoogleClientID)
	}
	if cfg.AppleClientID != "" {
		verifiers["apple"] = NewAppleVerifier(cfg.AppleClientID)
	}
	return &Service{
		secret:    cfg.JWTSecret,
		ttl:       cfg.AccessTokenTTL,
		verifiers: verifiers,
	}
}

// RegisterVerifier adds or replaces the verifier for a provider name.
func (s *Service) RegisterVerifier(provider string, verifier IdentityVerifier) {
	s.verifiers[provider] = verifier
}

// VerifyProviderToken validates an id_token with the named provider's
// published keys.
func (s *Service) VerifyProviderToken(ctx context.Context, provider, idToken string) (*Identity, error) {
	verifier, ok := s.verifiers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	identity, err := verifier.Verify(ctx, idToken)
	if err != nil {
		log.Warn().
			Err(err).
			Str("provider", provider).
			Msg("Provider id_token verification failed")
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identity, nil
}

type accessClaims struct {
	jwt.RegisteredClaims
}

// IssueAccessToken signs an HS256 access token for the user. The
// subject claim carries the user id.
func (s *Service) IssueAccessToken(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses an access token and returns the user id it was
// issued to.
func (s *Service) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return userID, nil
}

// ExtractToken pulls the bearer token out of the Authorization header,
// returning "" when the header is missing or malformed.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		log.Warn().Msg("Malformed Authorization header")
		return ""
	}
	return parts[1]
}
