// authorizer.go
//
// A multi-tenant shopping list data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-shoplist.
// jam-build-shoplist is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-shoplist is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-shoplist.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package identity

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/authorizerdev/authorizer-go"
	"github.com/localnerve/jam-build-shoplist/internal/utils"
)

// SessionCookie is the cookie Authorizer issues for a logged in user
const SessionCookie = "cookie_session"

// AuthorizerResolver resolves identities from Authorizer session cookies.
// The client is created lazily on the first request, since the redirect URL
// depends on how the service is reached. A failed creation is retried on the
// next request.
type AuthorizerResolver struct {
	URL      string
	ClientID string
	Roles    []string

	mu     sync.Mutex
	client *authorizer.AuthorizerClient
}

// NewAuthorizerResolver creates a resolver that accepts sessions holding any of roles
func NewAuthorizerResolver(url, clientID string, roles ...string) *AuthorizerResolver {
	if len(roles) == 0 {
		roles = []string{"user"}
	}
	return &AuthorizerResolver{URL: url, ClientID: clientID, Roles: roles}
}

func (r *AuthorizerResolver) authorizerClient(ctx context.Context, requestProtocol, requestHost string) (*authorizer.AuthorizerClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}

	if err := utils.PingAuthorizer(ctx, r.URL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}

	redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
	log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s, redirectURL=%s",
		r.URL, r.ClientID, redirectURL)

	client, err := authorizer.NewAuthorizerClient(r.ClientID, r.URL, redirectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}
	r.client = client
	return client, nil
}

func (r *AuthorizerResolver) Resolve(ctx context.Context, c Carrier) (Identity, error) {
	session := c.Cookies(SessionCookie)
	if session == "" {
		return Identity{}, ErrNoIdentity
	}

	client, err := r.authorizerClient(ctx, c.Protocol(), c.Hostname())
	if err != nil {
		return Identity{}, err
	}

	roles := make([]*string, len(r.Roles))
	for i := range r.Roles {
		roles[i] = &r.Roles[i]
	}

	res, err := client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: session,
		Roles:  roles,
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: session validation failed: %v", ErrNoIdentity, err)
	}
	if res == nil || !res.IsValid || res.User == nil || res.User.ID == "" {
		return Identity{}, fmt.Errorf("%w: session is not valid", ErrNoIdentity)
	}

	return Identity{UserID: res.User.ID, Source: "authorizer"}, nil
}
