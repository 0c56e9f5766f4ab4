// shopping_lists.go
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

package services

import (
	"context"
	"errors"

	"github.com/localnerve/jam-build-shoplist/internal/identity"
	"github.com/localnerve/jam-build-shoplist/internal/models"
	"github.com/localnerve/jam-build-shoplist/internal/repository"
	"github.com/localnerve/jam-build-shoplist/internal/types"
)

// Warning codes reported by membership commands
const (
	WarningMembershipAlreadyExists = "membershipAlreadyExists"
	WarningMembershipNotFound      = "membershipNotFound"
)

// CreateShoppingListInput holds the fields of a new list
type CreateShoppingListInput struct {
	Name                  string
	Description           string
	CanMarkItemsDoneByAll bool
}

// ListMineInput filters and pages the caller's lists. An empty State matches
// every state.
type ListMineInput struct {
	State models.ShoppingListState
	Page  PageRequest
}

// ListMembersInput selects a page of a list's memberships
type ListMembersInput struct {
	ShoppingListID string
	Page           PageRequest
}

// UpdateShoppingListInput carries the fields to change; nil fields are kept
type UpdateShoppingListInput struct {
	ShoppingListID        string
	Name                  *string
	Description           *string
	State                 *models.ShoppingListState
	CanMarkItemsDoneByAll *bool
}

// AddMemberInput names the user to add and the role to grant
type AddMemberInput struct {
	ShoppingListID string
	UserID         string
	Role           models.Role
}

// ShoppingListResult is a list together with the caller's membership
type ShoppingListResult struct {
	ShoppingList *models.ShoppingList `json:"shoppingList"`
	Membership   *models.Membership   `json:"membership"`
}

// ShoppingListPage is one window of the caller's lists
type ShoppingListPage struct {
	ShoppingLists []models.ShoppingList `json:"shoppingLists"`
	PageInfo      PageInfo              `json:"pageInfo"`
}

// MembershipPage is one window of a list's memberships
type MembershipPage struct {
	Memberships []models.Membership `json:"memberships"`
	PageInfo    PageInfo            `json:"pageInfo"`
}

// ShoppingLists implements the shoppingList commands
type ShoppingLists struct {
	deps
}

// NewShoppingLists creates the shoppingList command service over store
func NewShoppingLists(store repository.Store, opts ...Option) *ShoppingLists {
	return &ShoppingLists{deps: newDeps(store, opts)}
}

// Create persists a new active list with the caller as its only owner
func (s *ShoppingLists) Create(ctx context.Context, caller identity.Identity, in CreateShoppingListInput) (*ShoppingListResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	now := s.timestamp()
	list := &models.ShoppingList{
		ID:                    s.newID(),
		Name:                  in.Name,
		Description:           in.Description,
		State:                 models.StateActive,
		CanMarkItemsDoneByAll: in.CanMarkItemsDoneByAll,
		CreatedBy:             caller.UserID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	owner := &models.Membership{
		ID:             s.newID(),
		ShoppingListID: list.ID,
		MemberID:       caller.UserID,
		Role:           models.RoleOwner,
		CreatedAt:      now,
		CreatedBy:      caller.UserID,
	}

	if err := s.store.CreateShoppingList(ctx, list, owner); err != nil {
		return nil, types.SystemError(err)
	}
	return &ShoppingListResult{ShoppingList: list, Membership: owner}, nil
}

// ListMine returns the lists the caller is a member of, ordered by creation
func (s *ShoppingLists) ListMine(ctx context.Context, caller identity.Identity, in ListMineInput) (*ShoppingListPage, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	lists, err := s.store.ListShoppingListsByMember(ctx, caller.UserID, in.State)
	if err != nil {
		return nil, types.SystemError(err)
	}

	window, info := Paginate(lists, in.Page)
	return &ShoppingListPage{ShoppingLists: window, PageInfo: info}, nil
}

// Get returns a list the caller is a member of
func (s *ShoppingLists) Get(ctx context.Context, caller identity.Identity, shoppingListID string) (*ShoppingListResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	decision, err := s.guard.Authorize(ctx, shoppingListID, caller.UserID, models.RoleOwner, models.RoleMember)
	if err != nil {
		return nil, guardError(err, "notFound", shoppingListID)
	}
	return &ShoppingListResult{ShoppingList: decision.List, Membership: decision.Membership}, nil
}

// Update overwrites the provided fields of a list the caller owns
func (s *ShoppingLists) Update(ctx context.Context, caller identity.Identity, in UpdateShoppingListInput) (*models.ShoppingList, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	if _, err := s.guard.Authorize(ctx, in.ShoppingListID, caller.UserID, models.RoleOwner); err != nil {
		return nil, guardError(err, "notFound", in.ShoppingListID)
	}

	list, err := s.store.UpdateShoppingList(ctx, in.ShoppingListID, repository.ShoppingListPatch{
		Name:                  in.Name,
		Description:           in.Description,
		State:                 in.State,
		CanMarkItemsDoneByAll: in.CanMarkItemsDoneByAll,
	}, s.timestamp())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, types.NotFound("notFound", "Shopping list does not exist.",
				map[string]any{"shoppingListId": in.ShoppingListID})
		}
		return nil, types.SystemError(err)
	}
	return list, nil
}

// Delete removes a list the caller owns along with its items and memberships
func (s *ShoppingLists) Delete(ctx context.Context, caller identity.Identity, shoppingListID string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	if _, err := s.guard.Authorize(ctx, shoppingListID, caller.UserID, models.RoleOwner); err != nil {
		return guardError(err, "notFound", shoppingListID)
	}

	if err := s.store.DeleteShoppingList(ctx, shoppingListID); err != nil {
		if errors.Is(err, repository.ErrNotDeleted) {
			return types.Conflict("notDeleted", "Shopping list was not deleted.",
				map[string]any{"shoppingListId": shoppingListID})
		}
		return types.SystemError(err)
	}
	return nil
}

// AddMember grants a user a role on a list the caller owns. Adding an existing
// member returns the existing membership unchanged with a warning.
func (s *ShoppingLists) AddMember(ctx context.Context, caller identity.Identity, in AddMemberInput) (*models.Membership, []types.Warning, error) {
	if err := requireCaller(caller); err != nil {
		return nil, nil, err
	}

	if _, err := s.guard.Authorize(ctx, in.ShoppingListID, caller.UserID, models.RoleOwner); err != nil {
		return nil, nil, guardError(err, "notFound", in.ShoppingListID)
	}

	role := in.Role
	if role == "" {
		role = models.RoleMember
	}
	membership, created, err := s.store.AddMembership(ctx, &models.Membership{
		ID:             s.newID(),
		ShoppingListID: in.ShoppingListID,
		MemberID:       in.UserID,
		Role:           role,
		CreatedAt:      s.timestamp(),
		CreatedBy:      caller.UserID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, types.NotFound("notFound", "Shopping list does not exist.",
				map[string]any{"shoppingListId": in.ShoppingListID})
		}
		return nil, nil, types.SystemError(err)
	}

	if !created {
		return membership, []types.Warning{{
			Code:    WarningMembershipAlreadyExists,
			Message: "User is already a member of the shopping list.",
			ParamMap: map[string]any{
				"shoppingListId": in.ShoppingListID,
				"userId":         in.UserID,
				"role":           membership.Role,
			},
		}}, nil
	}
	return membership, nil, nil
}

// RemoveMember revokes a user's membership on a list the caller owns. The last
// owner of a list cannot be removed.
func (s *ShoppingLists) RemoveMember(ctx context.Context, caller identity.Identity, shoppingListID, userID string) (bool, []types.Warning, error) {
	if err := requireCaller(caller); err != nil {
		return false, nil, err
	}

	if _, err := s.guard.Authorize(ctx, shoppingListID, caller.UserID, models.RoleOwner); err != nil {
		return false, nil, guardError(err, "notFound", shoppingListID)
	}

	params := map[string]any{"shoppingListId": shoppingListID, "userId": userID}
	notMember := []types.Warning{{
		Code:     WarningMembershipNotFound,
		Message:  "User is not a member of the shopping list.",
		ParamMap: params,
	}}

	target, err := s.store.FindMembership(ctx, shoppingListID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, notMember, nil
		}
		return false, nil, types.SystemError(err)
	}

	if target.Role == models.RoleOwner {
		owners, err := s.store.CountOwners(ctx, shoppingListID)
		if err != nil {
			return false, nil, types.SystemError(err)
		}
		if owners <= 1 {
			return false, nil, types.Conflict("lastOwnerRemoval", "The last owner of a shopping list cannot be removed.", params)
		}
	}

	removed, err := s.store.RemoveMembership(ctx, shoppingListID, userID)
	if err != nil {
		return false, nil, types.SystemError(err)
	}
	if !removed {
		return false, notMember, nil
	}
	return true, nil, nil
}

// ListMembers returns a page of the memberships of a list the caller belongs to
func (s *ShoppingLists) ListMembers(ctx context.Context, caller identity.Identity, in ListMembersInput) (*MembershipPage, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	if _, err := s.guard.Authorize(ctx, in.ShoppingListID, caller.UserID, models.RoleOwner, models.RoleMember); err != nil {
		return nil, guardError(err, "notFound", in.ShoppingListID)
	}

	memberships, err := s.store.ListMemberships(ctx, in.ShoppingListID)
	if err != nil {
		return nil, types.SystemError(err)
	}

	window, info := Paginate(memberships, in.Page)
	return &MembershipPage{Memberships: window, PageInfo: info}, nil
}
