// Package repository is the persistence adapter for shopping lists,
// memberships and items. Command services depend only on Store; the backend is
// selected at process start.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/localnerve/jam-build-shoplist/internal/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist
	ErrNotFound = errors.New("not found")
	// ErrNotDeleted is returned when a delete affected zero rows
	ErrNotDeleted = errors.New("not deleted")
	// ErrDuplicateKey is returned when an insert reuses an existing id
	ErrDuplicateKey = errors.New("duplicated key")
)

// ShoppingListPatch carries the fields to overwrite; nil fields keep their value
type ShoppingListPatch struct {
	Name                  *string
	Description           *string
	State                 *models.ShoppingListState
	CanMarkItemsDoneByAll *bool
}

// ItemPatch carries the fields to overwrite; nil fields keep their value
type ItemPatch struct {
	Name     *string
	Quantity *string
	Note     *string
}

// ItemFilter narrows an item listing; a nil Done matches every item
type ItemFilter struct {
	Done *bool
}

// ShoppingListStore persists shopping lists
type ShoppingListStore interface {
	// CreateShoppingList inserts the list and its owner membership as one unit
	CreateShoppingList(ctx context.Context, list *models.ShoppingList, owner *models.Membership) error
	GetShoppingList(ctx context.Context, id string) (*models.ShoppingList, error)
	UpdateShoppingList(ctx context.Context, id string, patch ShoppingListPatch, at time.Time) (*models.ShoppingList, error)
	// DeleteShoppingList removes the list together with its items and memberships
	DeleteShoppingList(ctx context.Context, id string) error
	// ListShoppingListsByMember returns the lists memberID belongs to. An empty
	// state matches every state.
	ListShoppingListsByMember(ctx context.Context, memberID string, state models.ShoppingListState) ([]models.ShoppingList, error)
}

// MembershipStore persists memberships
type MembershipStore interface {
	FindMembership(ctx context.Context, shoppingListID, memberID string) (*models.Membership, error)
	// AddMembership inserts m unless a membership for the same pair exists, in
	// which case the existing row is returned with created=false
	AddMembership(ctx context.Context, m *models.Membership) (membership *models.Membership, created bool, err error)
	RemoveMembership(ctx context.Context, shoppingListID, memberID string) (bool, error)
	ListMemberships(ctx context.Context, shoppingListID string) ([]models.Membership, error)
	CountOwners(ctx context.Context, shoppingListID string) (int64, error)
}

// ItemStore persists items
type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id string) (*models.Item, error)
	UpdateItem(ctx context.Context, id string, patch ItemPatch, at time.Time) (*models.Item, error)
	// SetItemDone writes done, doneBy and doneAt as a tuple; doneBy and doneAt
	// are cleared when done is false
	SetItemDone(ctx context.Context, id string, done bool, by string, at time.Time) (*models.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, shoppingListID string, filter ItemFilter) ([]models.Item, error)
}

// Store is the full persistence surface
type Store interface {
	ShoppingListStore
	MembershipStore
	ItemStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// doneTuple returns the doneBy/doneAt pair for a done flag
func doneTuple(done bool, by string, at time.Time) (*string, *time.Time) {
	if !done {
		return nil, nil
	}
	return &by, &at
}
