// Package identity resolves the caller of a request. Command services receive
// the resolved Identity explicitly and never read transport details.
package identity

import (
	"context"
	"errors"
)

// ErrNoIdentity is returned when a request carries no usable identity
var ErrNoIdentity = errors.New("no identity")

// Identity is the authenticated caller
type Identity struct {
	UserID string
	// Source names the resolver that produced the identity
	Source string
}

// Authenticated reports whether the identity names a user
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// Carrier exposes the request attributes resolvers read. *fiber.Ctx satisfies it.
type Carrier interface {
	Get(key string, defaultValue ...string) string
	Cookies(key string, defaultValue ...string) string
	Protocol() string
	Hostname() string
}

// Resolver produces the identity for a request
type Resolver interface {
	Resolve(ctx context.Context, c Carrier) (Identity, error)
}
