package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/localnerve/jam-build-shoplist/internal/identity"
	"github.com/localnerve/jam-build-shoplist/internal/models"
	"github.com/localnerve/jam-build-shoplist/internal/repository"
	"github.com/localnerve/jam-build-shoplist/internal/services"
	"github.com/localnerve/jam-build-shoplist/internal/types"
)

var (
	alice = identity.Identity{UserID: "alice", Source: "test"}
	bob   = identity.Identity{UserID: "bob", Source: "test"}
	carol = identity.Identity{UserID: "carol", Source: "test"}
)

// tickingClock returns a clock that advances one millisecond per call
func tickingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Millisecond)
		return now
	}
}

type fixture struct {
	store repository.Store
	lists *services.ShoppingLists
	items *services.Items
}

func newFixture() *fixture {
	store := repository.NewMemory()
	clock := services.WithClock(tickingClock())
	return &fixture{
		store: store,
		lists: services.NewShoppingLists(store, clock),
		items: services.NewItems(store, clock),
	}
}

func (f *fixture) createList(t *testing.T, caller identity.Identity, name string, doneByAll bool) *models.ShoppingList {
	t.Helper()
	result, err := f.lists.Create(context.Background(), caller, services.CreateShoppingListInput{
		Name:                  name,
		CanMarkItemsDoneByAll: doneByAll,
	})
	if err != nil {
		t.Fatalf("Failed to create shopping list: %v", err)
	}
	return result.ShoppingList
}

func (f *fixture) addMember(t *testing.T, listID, userID string) {
	t.Helper()
	if _, _, err := f.lists.AddMember(context.Background(), alice, services.AddMemberInput{
		ShoppingListID: listID,
		UserID:         userID,
	}); err != nil {
		t.Fatalf("Failed to add member %s: %v", userID, err)
	}
}

func (f *fixture) createItem(t *testing.T, caller identity.Identity, listID, name string) *models.Item {
	t.Helper()
	item, err := f.items.Create(context.Background(), caller, services.CreateItemInput{
		ShoppingListID: listID,
		Name:           name,
	})
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	return item
}

// expectAppError asserts err is an AppError of kind with code
func expectAppError(t *testing.T, err error, kind types.Kind, code string) {
	t.Helper()
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected an AppError %s/%s, got %v", kind, code, err)
	}
	if appErr.Kind != kind || appErr.Code != code {
		t.Errorf("Expected %s/%s, got %s/%s", kind, code, appErr.Kind, appErr.Code)
	}
}

func TestCreateInsertsExactlyOneOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.lists.Create(ctx, alice, services.CreateShoppingListInput{Name: "Groceries", Description: "weekly"})
	if err != nil {
		t.Fatalf("Failed to create: %v", err)
	}
	list := result.ShoppingList
	if list.State != models.StateActive || list.CreatedBy != "alice" || list.Description != "weekly" {
		t.Errorf("Expected an active list created by alice, got %+v", list)
	}
	if !list.CreatedAt.Equal(list.UpdatedAt) {
		t.Errorf("Expected createdAt == updatedAt on create, got %v and %v", list.CreatedAt, list.UpdatedAt)
	}
	if list.CreatedAt.Location() != time.UTC || list.CreatedAt.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("Expected a UTC millisecond timestamp, got %v", list.CreatedAt)
	}

	members, err := f.store.ListMemberships(ctx, list.ID)
	if err != nil {
		t.Fatalf("Failed to list memberships: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("Expected exactly one membership, got %d", len(members))
	}
	if members[0].MemberID != "alice" || members[0].Role != models.RoleOwner {
		t.Errorf("Expected alice as owner, got %+v", members[0])
	}
	if result.Membership.ID != members[0].ID {
		t.Errorf("Expected returned membership %s, got %s", members[0].ID, result.Membership.ID)
	}
}

func TestUnauthenticatedCaller(t *testing.T) {
	f := newFixture()
	_, err := f.lists.Create(context.Background(), identity.Identity{}, services.CreateShoppingListInput{Name: "x"})
	expectAppError(t, err, types.KindAuthenticationMissing, "invalidIdentity")

	_, err = f.items.List(context.Background(), identity.Identity{}, services.ListItemsInput{ShoppingListID: "x"})
	expectAppError(t, err, types.KindAuthenticationMissing, "invalidIdentity")
}

func TestGetAuthorization(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)
	f.addMember(t, list.ID, "bob")

	result, err := f.lists.Get(ctx, bob, list.ID)
	if err != nil {
		t.Fatalf("Expected member to read the list, got %v", err)
	}
	if result.Membership.Role != models.RoleMember {
		t.Errorf("Expected bob's membership role member, got %s", result.Membership.Role)
	}

	_, err = f.lists.Get(ctx, carol, list.ID)
	expectAppError(t, err, types.KindAuthorizationDenied, "notAuthorized")

	_, err = f.lists.Get(ctx, alice, "missing")
	expectAppError(t, err, types.KindNotFound, "notFound")
}

func TestUpdateIsOwnerOnlyAndPartial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)
	f.addMember(t, list.ID, "bob")

	name := "Weekend"
	_, err := f.lists.Update(ctx, bob, services.UpdateShoppingListInput{ShoppingListID: list.ID, Name: &name})
	expectAppError(t, err, types.KindAuthorizationDenied, "notAuthorized")

	archived := models.StateArchived
	updated, err := f.lists.Update(ctx, alice, services.UpdateShoppingListInput{ShoppingListID: list.ID, State: &archived})
	if err != nil {
		t.Fatalf("Failed to update: %v", err)
	}
	if updated.Name != "Groceries" || updated.State != models.StateArchived {
		t.Errorf("Expected only state to change, got %+v", updated)
	}
	if !updated.UpdatedAt.After(list.UpdatedAt) {
		t.Errorf("Expected updatedAt to advance past %v, got %v", list.UpdatedAt, updated.UpdatedAt)
	}
}

func TestListMinePagination(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var ids []string
	for i := range 5 {
		ids = append(ids, f.createList(t, alice, fmt.Sprintf("List %d", i), false).ID)
	}
	f.createList(t, bob, "Not mine", false)

	page, err := f.lists.ListMine(ctx, alice, services.ListMineInput{Page: services.PageRequest{PageIndex: 1, PageSize: 2}})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if page.PageInfo != (services.PageInfo{PageIndex: 1, PageSize: 2, Total: 5}) {
		t.Errorf("Expected pageInfo {1 2 5}, got %+v", page.PageInfo)
	}
	if len(page.ShoppingLists) != 2 || page.ShoppingLists[0].ID != ids[2] || page.ShoppingLists[1].ID != ids[3] {
		t.Errorf("Expected lists 2 and 3, got %+v", page.ShoppingLists)
	}

	past, err := f.lists.ListMine(ctx, alice, services.ListMineInput{Page: services.PageRequest{PageIndex: 9, PageSize: 2}})
	if err != nil {
		t.Fatalf("Failed to list past the end: %v", err)
	}
	if len(past.ShoppingLists) != 0 || past.PageInfo.Total != 5 {
		t.Errorf("Expected an empty window with total 5, got %+v", past)
	}

	archived := models.StateArchived
	if _, err := f.lists.Update(ctx, alice, services.UpdateShoppingListInput{ShoppingListID: ids[0], State: &archived}); err != nil {
		t.Fatalf("Failed to archive: %v", err)
	}
	active, err := f.lists.ListMine(ctx, alice, services.ListMineInput{State: models.StateActive})
	if err != nil {
		t.Fatalf("Failed to list active: %v", err)
	}
	if active.PageInfo.Total != 4 || active.PageInfo.PageSize != services.DefaultPageSize {
		t.Errorf("Expected 4 active lists at the default page size, got %+v", active.PageInfo)
	}
}

func TestAddMemberIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)

	first, warnings, err := f.lists.AddMember(ctx, alice, services.AddMemberInput{ShoppingListID: list.ID, UserID: "bob"})
	if err != nil {
		t.Fatalf("Failed to add member: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings on first add, got %v", warnings)
	}
	if first.Role != models.RoleMember {
		t.Errorf("Expected default role member, got %s", first.Role)
	}

	second, warnings, err := f.lists.AddMember(ctx, alice, services.AddMemberInput{ShoppingListID: list.ID, UserID: "bob", Role: models.RoleOwner})
	if err != nil {
		t.Fatalf("Failed to re-add member: %v", err)
	}
	if second.ID != first.ID || second.Role != models.RoleMember {
		t.Errorf("Expected the existing membership unchanged, got %+v", second)
	}
	if len(warnings) != 1 || warnings[0].Code != services.WarningMembershipAlreadyExists {
		t.Errorf("Expected membershipAlreadyExists warning, got %v", warnings)
	}

	members, _ := f.store.ListMemberships(ctx, list.ID)
	if len(members) != 2 {
		t.Errorf("Expected 2 memberships, got %d", len(members))
	}

	_, _, err = f.lists.AddMember(ctx, bob, services.AddMemberInput{ShoppingListID: list.ID, UserID: "carol"})
	expectAppError(t, err, types.KindAuthorizationDenied, "notAuthorized")
}

func TestRemoveMember(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)
	f.addMember(t, list.ID, "bob")

	removed, warnings, err := f.lists.RemoveMember(ctx, alice, list.ID, "bob")
	if err != nil || !removed || len(warnings) != 0 {
		t.Fatalf("Expected bob removed without warnings, got %v %v %v", removed, warnings, err)
	}

	removed, warnings, err = f.lists.RemoveMember(ctx, alice, list.ID, "bob")
	if err != nil {
		t.Fatalf("Expected no error removing a non-member, got %v", err)
	}
	if removed {
		t.Error("Expected removed=false for a non-member")
	}
	if len(warnings) != 1 || warnings[0].Code != services.WarningMembershipNotFound {
		t.Errorf("Expected membershipNotFound warning, got %v", warnings)
	}

	_, _, err = f.lists.RemoveMember(ctx, alice, list.ID, "alice")
	expectAppError(t, err, types.KindStateConflict, "lastOwnerRemoval")

	if _, _, err := f.lists.AddMember(ctx, alice, services.AddMemberInput{ShoppingListID: list.ID, UserID: "carol", Role: models.RoleOwner}); err != nil {
		t.Fatalf("Failed to add second owner: %v", err)
	}
	removed, _, err = f.lists.RemoveMember(ctx, carol, list.ID, "alice")
	if err != nil || !removed {
		t.Errorf("Expected an owner to be removable while another remains, got %v %v", removed, err)
	}
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)
	f.addMember(t, list.ID, "bob")
	milk := f.createItem(t, bob, list.ID, "Milk")

	err := f.lists.Delete(ctx, bob, list.ID)
	expectAppError(t, err, types.KindAuthorizationDenied, "notAuthorized")

	if err := f.lists.Delete(ctx, alice, list.ID); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}

	_, err = f.lists.Get(ctx, alice, list.ID)
	expectAppError(t, err, types.KindNotFound, "notFound")

	if _, err := f.store.GetItem(ctx, milk.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected item to be deleted with its list, got %v", err)
	}
	if _, err := f.store.FindMembership(ctx, list.ID, "bob"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected membership to be deleted with its list, got %v", err)
	}

	mine, _ := f.lists.ListMine(ctx, bob, services.ListMineInput{})
	if mine.PageInfo.Total != 0 {
		t.Errorf("Expected bob to have no lists, got %d", mine.PageInfo.Total)
	}
}

func TestListMembers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)
	f.addMember(t, list.ID, "bob")

	page, err := f.lists.ListMembers(ctx, bob, services.ListMembersInput{ShoppingListID: list.ID})
	if err != nil {
		t.Fatalf("Failed to list members: %v", err)
	}
	members := page.Memberships
	if len(members) != 2 || members[0].MemberID != "alice" || members[1].MemberID != "bob" {
		t.Errorf("Expected [alice bob], got %+v", members)
	}
	if page.PageInfo.Total != 2 || page.PageInfo.PageSize != services.DefaultPageSize {
		t.Errorf("Expected total 2 with the default page size, got %+v", page.PageInfo)
	}

	second, err := f.lists.ListMembers(ctx, alice, services.ListMembersInput{
		ShoppingListID: list.ID,
		Page:           services.PageRequest{PageIndex: 1, PageSize: 1},
	})
	if err != nil {
		t.Fatalf("Failed to list members: %v", err)
	}
	if len(second.Memberships) != 1 || second.Memberships[0].MemberID != "bob" || second.PageInfo.Total != 2 {
		t.Errorf("Expected the second page to hold bob, got %+v", second)
	}

	_, err = f.lists.ListMembers(ctx, carol, services.ListMembersInput{ShoppingListID: list.ID})
	expectAppError(t, err, types.KindAuthorizationDenied, "notAuthorized")
}

// vanishingStore loses every delete to a concurrent writer
type vanishingStore struct {
	*repository.Memory
}

func (vanishingStore) DeleteShoppingList(context.Context, string) error {
	return repository.ErrNotDeleted
}

func (vanishingStore) DeleteItem(context.Context, string) error {
	return repository.ErrNotDeleted
}

func TestDeleteAffectingNoRowsIsConflict(t *testing.T) {
	store := vanishingStore{repository.NewMemory()}
	clock := services.WithClock(tickingClock())
	f := &fixture{
		store: store,
		lists: services.NewShoppingLists(store, clock),
		items: services.NewItems(store, clock),
	}
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)
	item := f.createItem(t, alice, list.ID, "Milk")

	err := f.items.Delete(ctx, alice, item.ID)
	expectAppError(t, err, types.KindStateConflict, "notDeleted")
	if types.AsAppError(err).Status() != 409 {
		t.Errorf("Expected status 409, got %d", types.AsAppError(err).Status())
	}

	err = f.lists.Delete(ctx, alice, list.ID)
	expectAppError(t, err, types.KindStateConflict, "notDeleted")
}
