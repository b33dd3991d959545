package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/filegate-io/filegate/internal/shared/biztime"
)

// Claims carries the administrative API identity. The subject is the admin
// login that authenticated against the host account table.
type Claims struct {
	Subject string `json:"sub_login"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies bearer tokens for the administrative API.
type JWTService struct {
	secret     []byte
	expMinutes int
}

func NewJWTService(secret string, expMinutes int) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		expMinutes: expMinutes,
	}
}

func (s *JWTService) Generate(subject string) (string, error) {
	now := biztime.NowUTC()
	claims := &Claims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
