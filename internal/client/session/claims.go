package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("malformed session token")

// Claims is what the client reads out of a session token. The signature is
// never verified here; the backend stays authoritative.
type Claims struct {
	UserID    int64
	Username  string
	Role      string
	ExpiresAt time.Time
	HasExpiry bool
}

// Valid reports whether the token has not expired at now. A token without an
// exp claim never expires client-side.
func (c Claims) Valid(now time.Time) bool {
	return !c.HasExpiry || now.Before(c.ExpiresAt)
}

// Decode is the single token-parsing policy of the client. It fails with
// ErrMalformedToken when the token is not three dot-separated segments, when
// the payload is not base64url-encoded JSON, or when it has no usable id.
//
// The header is checked too: it must be base64url JSON naming an alg. A
// token that only gets the payload right is still malformed here.
func Decode(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser(jwt.WithJSONNumber()).ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	id, ok := intClaim(mc["id"])
	if !ok {
		return Claims{}, fmt.Errorf("%w: missing id claim", ErrMalformedToken)
	}

	c := Claims{UserID: id}
	c.Username, _ = mc["sub"].(string)
	c.Role, _ = mc["role"].(string)

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp != nil {
		c.HasExpiry = true
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

func intClaim(v any) (int64, bool) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
		f, err := x.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	}
	return 0, false
}
