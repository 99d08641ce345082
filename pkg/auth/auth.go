// Package auth carries the pre-validated caller identity through the request
// context. The ledger itself never reads session state: the boundary layer
// (JWT middleware) resolves (userID, role) once and everything below trusts it.
package auth

import (
	"context"
	"os"

	"github.com/golang-jwt/jwt/v4"
)

type Role string

const (
	RoleGuest Role = "GUEST"
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type Identity struct {
	UserID int64
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
	Role   Role  `json:"role"`
}

var JWTKey = jwtKey()

func jwtKey() []byte {
	if k := os.Getenv("JWT_SECRET"); k != "" {
		return []byte(k)
	}
	return []byte("change-me")
}

type identityKey struct{}

func SetAuthContext(ctx context.Context, userID int64, role Role) context.Context {
	return context.WithValue(ctx, identityKey{}, Identity{UserID: userID, Role: role})
}

func FromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(Identity)
	return ident, ok
}
