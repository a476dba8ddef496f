package fakeapi

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"id"`
	Role   string `json:"role"`
}

var errNoToken = errors.New("missing bearer token")

// IssueToken signs a token for u valid for ttl from the server clock. A
// non-positive ttl yields an already expired token.
func (s *Server) IssueToken(u User, ttl time.Duration) string {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: u.ID,
		Role:   "USER",
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		// HS256 with a byte key cannot fail
		panic(err)
	}
	return signed
}

func (s *Server) parseBearer(header string) (*Claims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, errNoToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// SignClaims signs arbitrary claims with the server secret, for tokens the
// regular issuing path would never produce.
func (s *Server) SignClaims(claims jwt.Claims) string {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}
