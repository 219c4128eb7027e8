// Package jwt verifies access tokens issued by the identity provider. Tokens are never minted
// here.
package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	UserID uuid.UUID `json:"-"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role,omitempty"`

	jwtlib.RegisteredClaims
}

type Verifier interface {
	ValidateToken(tokenString string) (Claims, error)
}

type HMACVerifier struct {
	secret   []byte
	issuer   string
	audience string

	now func() time.Time
}

func NewHMACVerifier(secret, issuer, audience string) *HMACVerifier {
	return &HMACVerifier{
		secret:   []byte(secret),
		issuer:   strings.TrimSpace(issuer),
		audience: strings.TrimSpace(audience),
		now:      time.Now,
	}
}

func (v *HMACVerifier) ValidateToken(tokenString string) (Claims, error) {
	if len(v.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}

	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwtlib.WithAudience(v.audience))
	}
	p := jwtlib.NewParser(opts...)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(*jwtlib.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Claims{}, ErrTokenInvalid
	}
	c.UserID = id
	return c, nil
}
