package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleEditor = "editor"
	RoleAdmin  = "admin"

	issuer   = "beginnings"
	tokenTTL = 12 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// Signer issues and verifies admin session tokens.
type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// Claims identify the signed-in admin.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Hash & check
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}
func CheckPassword(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func (s *Signer) IssueToken(adminID, role string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("jwt secret not set")
	}
	now := s.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *Signer) ParseToken(tok string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, errors.New("jwt secret not set")
	}
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tok, &claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, errors.New("no sub")
	}
	return &claims, nil
}

// Allows reports whether role satisfies the required role. Admins can do
// everything editors can.
func Allows(role, required string) bool {
	switch required {
	case RoleEditor:
		return role == RoleEditor || role == RoleAdmin
	case RoleAdmin:
		return role == RoleAdmin
	}
	return false
}
