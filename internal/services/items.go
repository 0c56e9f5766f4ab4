package services

import (
	"context"
	"errors"

	"github.com/localnerve/jam-build-shoplist/internal/authz"
	"github.com/localnerve/jam-build-shoplist/internal/identity"
	"github.com/localnerve/jam-build-shoplist/internal/models"
	"github.com/localnerve/jam-build-shoplist/internal/repository"
	"github.com/localnerve/jam-build-shoplist/internal/types"
)

// CreateItemInput holds the fields of a new item
type CreateItemInput struct {
	ShoppingListID string
	Name           string
	Quantity       string
	Note           string
}

// ListItemsInput filters and pages the items of a list. A nil Done matches
// every item.
type ListItemsInput struct {
	ShoppingListID string
	Done           *bool
	Page           PageRequest
}

// UpdateItemInput carries the fields to change; nil fields are kept
type UpdateItemInput struct {
	ItemID   string
	Name     *string
	Quantity *string
	Note     *string
}

// ItemPage is one window of a list's items
type ItemPage struct {
	Items    []models.Item `json:"items"`
	PageInfo PageInfo      `json:"pageInfo"`
}

// Items implements the item commands
type Items struct {
	deps
}

// NewItems creates the item command service over store
func NewItems(store repository.Store, opts ...Option) *Items {
	return &Items{deps: newDeps(store, opts)}
}

// Create adds an item to a list the caller belongs to
func (s *Items) Create(ctx context.Context, caller identity.Identity, in CreateItemInput) (*models.Item, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	if _, err := s.guard.Authorize(ctx, in.ShoppingListID, caller.UserID, models.RoleOwner, models.RoleMember); err != nil {
		return nil, guardError(err, "shoppingListNotFound", in.ShoppingListID)
	}

	now := s.timestamp()
	item := &models.Item{
		ID:             s.newID(),
		ShoppingListID: in.ShoppingListID,
		Name:           in.Name,
		Quantity:       in.Quantity,
		Note:           in.Note,
		CreatedBy:      caller.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, types.NotFound("shoppingListNotFound", "Shopping list does not exist.",
				map[string]any{"shoppingListId": in.ShoppingListID})
		}
		return nil, types.SystemError(err)
	}
	return item, nil
}

// List returns one window of the items of a list the caller belongs to
func (s *Items) List(ctx context.Context, caller identity.Identity, in ListItemsInput) (*ItemPage, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	if _, err := s.guard.Authorize(ctx, in.ShoppingListID, caller.UserID, models.RoleOwner, models.RoleMember); err != nil {
		return nil, guardError(err, "shoppingListNotFound", in.ShoppingListID)
	}

	items, err := s.store.ListItems(ctx, in.ShoppingListID, repository.ItemFilter{Done: in.Done})
	if err != nil {
		return nil, types.SystemError(err)
	}

	window, info := Paginate(items, in.Page)
	return &ItemPage{Items: window, PageInfo: info}, nil
}

// Update overwrites the provided fields of an item
func (s *Items) Update(ctx context.Context, caller identity.Identity, in UpdateItemInput) (*models.Item, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	if _, _, err := s.authorizeItem(ctx, caller, in.ItemID); err != nil {
		return nil, err
	}

	item, err := s.store.UpdateItem(ctx, in.ItemID, repository.ItemPatch{
		Name:     in.Name,
		Quantity: in.Quantity,
		Note:     in.Note,
	}, s.timestamp())
	if err != nil {
		return nil, itemStoreError(err, in.ItemID)
	}
	return item, nil
}

// MarkDone sets the done flag of an item. Members need the list to allow it.
func (s *Items) MarkDone(ctx context.Context, caller identity.Identity, itemID string, done bool) (*models.Item, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	item, decision, err := s.authorizeItem(ctx, caller, itemID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMarkDone(decision.List, decision.Membership) {
		return nil, types.NotAuthorized("Only owners can mark items done on this shopping list.",
			map[string]any{"shoppingListId": item.ShoppingListID, "itemId": itemID})
	}

	updated, err := s.store.SetItemDone(ctx, itemID, done, caller.UserID, s.timestamp())
	if err != nil {
		return nil, itemStoreError(err, itemID)
	}
	return updated, nil
}

// Delete removes an item
func (s *Items) Delete(ctx context.Context, caller identity.Identity, itemID string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	if _, _, err := s.authorizeItem(ctx, caller, itemID); err != nil {
		return err
	}

	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrNotDeleted) {
			return types.Conflict("notDeleted", "Item was not deleted.", map[string]any{"itemId": itemID})
		}
		return types.SystemError(err)
	}
	return nil
}

// authorizeItem resolves the item, then authorizes the caller on its list
func (s *Items) authorizeItem(ctx context.Context, caller identity.Identity, itemID string) (*models.Item, *authz.Decision, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, nil, itemStoreError(err, itemID)
	}

	decision, err := s.guard.Authorize(ctx, item.ShoppingListID, caller.UserID, models.RoleOwner, models.RoleMember)
	if err != nil {
		return nil, nil, guardError(err, "shoppingListNotFound", item.ShoppingListID)
	}
	return item, decision, nil
}

func itemStoreError(err error, itemID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return types.NotFound("itemNotFound", "Item does not exist.", map[string]any{"itemId": itemID})
	}
	return types.SystemError(err)
}
