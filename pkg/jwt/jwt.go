package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Matheus-Bassini/viralcut/internal/domain"
)

var (
	ErrInvalidSigningMethod = errors.New("unexpected signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token has expired")
	ErrWrongTokenType       = errors.New("wrong token type")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenService issues and verifies the two token kinds. Access and refresh
// tokens are signed with separate HS256 secrets loaded once at startup;
// rotating either secret invalidates all outstanding tokens of that kind.
type TokenService struct {
	accessSecret     []byte
	refreshSecret    []byte
	accessExpiry     time.Duration
	refreshExpiry    time.Duration
	rememberMeExpiry time.Duration
	issuer           string
}

func NewTokenService(accessSecret, refreshSecret string, accessExpiry, refreshExpiry, rememberMeExpiry time.Duration, issuer string) *TokenService {
	return &TokenService{
		accessSecret:     []byte(accessSecret),
		refreshSecret:    []byte(refreshSecret),
		accessExpiry:     accessExpiry,
		refreshExpiry:    refreshExpiry,
		rememberMeExpiry: rememberMeExpiry,
		issuer:           issuer,
	}
}

// AccessExpiry returns the configured access token lifetime.
func (s *TokenService) AccessExpiry() time.Duration {
	return s.accessExpiry
}

// RefreshExpiry returns the refresh token lifetime for the session kind.
func (s *TokenService) RefreshExpiry(rememberMe bool) time.Duration {
	if rememberMe {
		return s.rememberMeExpiry
	}
	return s.refreshExpiry
}

// GenerateAccessToken mints a short-lived token carrying the identity and
// subscription plan used to authorize API calls.
func (s *TokenService) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		UserID:           user.ID,
		Email:            user.Email,
		SubscriptionPlan: user.SubscriptionPlan,
		TokenType:        TokenTypeAccess,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.accessSecret)
}

// GenerateRefreshToken mints a refresh token carrying only the subject id.
func (s *TokenService) GenerateRefreshToken(user *domain.User, rememberMe bool) (string, error) {
	now := time.Now()
	claims := domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.RefreshExpiry(rememberMe))),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		UserID:    user.ID,
		TokenType: TokenTypeRefresh,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.refreshSecret)
}

// ValidateAccessToken verifies signature, expiry and token type.
func (s *TokenService) ValidateAccessToken(tokenString string) (*domain.Claims, error) {
	return s.validate(tokenString, s.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken verifies signature, expiry and token type.
func (s *TokenService) ValidateRefreshToken(tokenString string) (*domain.Claims, error) {
	return s.validate(tokenString, s.refreshSecret, TokenTypeRefresh)
}

func (s *TokenService) validate(tokenString string, secret []byte, wantType string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}
