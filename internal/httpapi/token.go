package httpapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// RoleCompany marks recruiter tokens, RoleUser candidate tokens.
	RoleCompany = "company"
	RoleUser    = "user"

	tokenTTL = 30 * 24 * time.Hour
)

// Claims is the verified content of a bearer token
type Claims struct {
	Subject string
	Role    string
}

// TokenIssuer mints and verifies HMAC-signed bearer tokens
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer builds a TokenIssuer from the shared secret
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token issuer: secret is required")
	}
	return &TokenIssuer{secret: []byte(secret)}, nil
}

// Issue mints a token for subject with the given role
func (t *TokenIssuer) Issue(subject, role string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its claims
func (t *TokenIssuer) Parse(raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return Claims{}, fmt.Errorf("token missing subject or role")
	}

	return Claims{Subject: sub, Role: role}, nil
}
