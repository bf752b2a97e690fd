package auth

import (
	"context"
	"os"

	"github.com/golang-jwt/jwt/v4"
)

const (
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"
)

const (
	RoleReader    = "READER"
	RoleLibrarian = "LIBRARIAN"
	RoleAdmin     = "ADMIN"
)

var JWTKey = []byte(jwtKeyFromEnv())

func jwtKeyFromEnv() string {
	if key := os.Getenv("JWT_KEY"); key != "" {
		return key
	}
	return "lending-secret"
}

type Claims struct {
	Profile struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"profile"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type ctxKey int

const authKey ctxKey = 0

type Identity struct {
	Username string
	Role     string
}

func (i Identity) IsStaff() bool {
	return i.Role == RoleLibrarian || i.Role == RoleAdmin
}

func SetAuthContext(ctx context.Context, username, role string) context.Context {
	return context.WithValue(ctx, authKey, Identity{Username: username, Role: role})
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(authKey).(Identity)
	return id, ok
}
