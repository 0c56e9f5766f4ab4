package identity

import (
	"context"
	"strings"

	fiberutils "github.com/gofiber/fiber/v2/utils"
)

// DefaultHeader carries the caller id when no Authorizer is configured
const DefaultHeader = "X-User-Id"

// HeaderResolver takes the caller id verbatim from a request header
type HeaderResolver struct {
	Header string
}

// NewHeaderResolver creates a resolver for header, or DefaultHeader when empty
func NewHeaderResolver(header string) *HeaderResolver {
	if strings.TrimSpace(header) == "" {
		header = DefaultHeader
	}
	return &HeaderResolver{Header: header}
}

func (r *HeaderResolver) Resolve(_ context.Context, c Carrier) (Identity, error) {
	// Header values alias the request buffer, which is reused by later requests
	userID := fiberutils.CopyString(strings.TrimSpace(c.Get(r.Header)))
	if userID == "" {
		return Identity{}, ErrNoIdentity
	}
	return Identity{UserID: userID, Source: "header"}, nil
}
