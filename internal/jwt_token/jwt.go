package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
)

var (
	ErrTokenExpired     = dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	ErrInvalidToken     = dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	ErrInvalidPrincipal = dErrors.New(dErrors.CodeUnauthorized, "token subject is not an address")
)

// Claims are the access token claims. The subject carries the caller's
// principal address in hex.
type Claims struct {
	jwt.RegisteredClaims
}

// Principal parses the subject claim.
func (c *Claims) Principal() (domain.Address, error) {
	addr, err := domain.ParseAddress(c.Subject)
	if err != nil || addr.IsZero() {
		return domain.ZeroAddress, ErrInvalidPrincipal
	}
	return addr, nil
}

// JWTService signs and validates HS256 access tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
}

// GenerateAccessToken issues a token for principal that expires after expiresIn.
func (s *JWTService) GenerateAccessToken(principal domain.Address, expiresIn time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
