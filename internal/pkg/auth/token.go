package auth

import (
	"fmt"
	"time"

	"github.com/airenas/scribe/internal/pkg/roles"
	"github.com/airenas/scribe/internal/pkg/utils"
	"github.com/golang-jwt/jwt"
	"github.com/spf13/viper"
)

// Identity is the resolved caller of a request
type Identity struct {
	ID   string
	Role roles.Role
}

type tokenUser struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type claims struct {
	User tokenUser `json:"user"`
	jwt.StandardClaims
}

// TokenMaker mints and verifies bearer credentials
type TokenMaker struct {
	secret    []byte
	expiresIn time.Duration
}

// NewTokenMaker initializes token maker from config
func NewTokenMaker(c *viper.Viper) (*TokenMaker, error) {
	res := TokenMaker{}
	res.secret = []byte(c.GetString("auth.secret"))
	if len(res.secret) == 0 {
		return nil, fmt.Errorf("no auth.secret")
	}
	res.expiresIn = c.GetDuration("auth.expiresIn")
	if res.expiresIn <= 0 {
		res.expiresIn = time.Hour
	}
	return &res, nil
}

// Mint issues a signed credential embedding {id, role}
func (tm *TokenMaker) Mint(id string, role roles.Role) (string, error) {
	now := time.Now()
	cl := &claims{User: tokenUser{ID: id, Role: role.String()},
		StandardClaims: jwt.StandardClaims{IssuedAt: now.Unix(), ExpiresAt: now.Add(tm.expiresIn).Unix()}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	res, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("can't sign token: %w", err)
	}
	return res, nil
}

// Verify validates a credential and extracts the caller identity.
// No store lookup - pure check against the signed claims.
func (tm *TokenMaker) Verify(token string) (*Identity, error) {
	cl := &claims{}
	_, err := jwt.ParseWithClaims(token, cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't parse token: %v: %w", err, utils.ErrUnauthorized)
	}
	role := roles.From(cl.User.Role)
	if cl.User.ID == "" || role == 0 {
		return nil, fmt.Errorf("no id or role in token: %w", utils.ErrUnauthorized)
	}
	return &Identity{ID: cl.User.ID, Role: role}, nil
}
