// Package authz decides whether a caller may act on a shopping list. Access is
// granted only through a membership row; there is no global role.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/localnerve/jam-build-shoplist/internal/models"
	"github.com/localnerve/jam-build-shoplist/internal/repository"
)

var (
	// ErrListNotFound is returned when the shopping list does not exist
	ErrListNotFound = errors.New("shopping list not found")
	// ErrForbidden is returned when the caller holds none of the required roles
	ErrForbidden = errors.New("forbidden")
)

// Lookup is the slice of the store the guard reads
type Lookup interface {
	GetShoppingList(ctx context.Context, id string) (*models.ShoppingList, error)
	FindMembership(ctx context.Context, shoppingListID, memberID string) (*models.Membership, error)
}

// Decision is a passed authorization: the list and the caller's membership
type Decision struct {
	List       *models.ShoppingList
	Membership *models.Membership
}

// Guard authorizes callers against shopping list memberships
type Guard struct {
	lookup Lookup
}

// NewGuard creates a Guard reading from lookup
func NewGuard(lookup Lookup) *Guard {
	return &Guard{lookup: lookup}
}

// Authorize loads the list, then the caller's membership, and requires the
// membership role to be one of roles. The list lookup runs first so a missing
// list is reported as such rather than as a denial.
func (g *Guard) Authorize(ctx context.Context, shoppingListID, callerID string, roles ...models.Role) (*Decision, error) {
	list, err := g.lookup.GetShoppingList(ctx, shoppingListID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to load shopping list %s: %w", shoppingListID, err)
	}

	membership, err := g.lookup.FindMembership(ctx, shoppingListID, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	if !membership.HasRole(roles...) {
		return nil, ErrForbidden
	}

	return &Decision{List: list, Membership: membership}, nil
}

// CanMarkDone reports whether the member may toggle item done-state. Owners
// always may; members only when the list allows it.
func CanMarkDone(list *models.ShoppingList, membership *models.Membership) bool {
	if membership.HasRole(models.RoleOwner) {
		return true
	}
	return list != nil && list.CanMarkItemsDoneByAll && membership.HasRole(models.RoleMember)
}
