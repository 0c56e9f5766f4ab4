package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/localnerve/jam-build-shoplist/internal/models"
)

type pairKey struct {
	shoppingListID string
	memberID       string
}

// Memory is an arena-indexed in-process Store. Rows live in append-only slices;
// deletes leave a nil slot so indexes into the arena stay stable. Every method
// returns copies, never pointers into the arena.
type Memory struct {
	mu sync.RWMutex

	lists     []*models.ShoppingList
	listIndex map[string]int

	memberships     []*models.Membership
	membershipIndex map[pairKey]int

	items     []*models.Item
	itemIndex map[string]int
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		listIndex:       make(map[string]int),
		membershipIndex: make(map[pairKey]int),
		itemIndex:       make(map[string]int),
	}
}

func (s *Memory) Ping(context.Context) error  { return nil }
func (s *Memory) Close(context.Context) error { return nil }

// CreateShoppingList inserts both rows inside one critical section
func (s *Memory) CreateShoppingList(_ context.Context, list *models.ShoppingList, owner *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listIndex[list.ID]; ok {
		return fmt.Errorf("failed to insert shopping list: %w", ErrDuplicateKey)
	}
	if _, ok := s.membershipIndex[pairKey{owner.ShoppingListID, owner.MemberID}]; ok || s.hasMembershipID(owner.ID) {
		return fmt.Errorf("failed to insert owner membership: %w", ErrDuplicateKey)
	}

	l := *list
	s.listIndex[l.ID] = len(s.lists)
	s.lists = append(s.lists, &l)

	m := *owner
	s.membershipIndex[pairKey{m.ShoppingListID, m.MemberID}] = len(s.memberships)
	s.memberships = append(s.memberships, &m)
	return nil
}

func (s *Memory) hasMembershipID(id string) bool {
	for _, m := range s.memberships {
		if m != nil && m.ID == id {
			return true
		}
	}
	return false
}

func (s *Memory) GetShoppingList(_ context.Context, id string) (*models.ShoppingList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.list(id)
	if l == nil {
		return nil, ErrNotFound
	}
	out := *l
	return &out, nil
}

func (s *Memory) UpdateShoppingList(_ context.Context, id string, patch ShoppingListPatch, at time.Time) (*models.ShoppingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.list(id)
	if l == nil {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		l.Name = *patch.Name
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	if patch.State != nil {
		l.State = *patch.State
	}
	if patch.CanMarkItemsDoneByAll != nil {
		l.CanMarkItemsDoneByAll = *patch.CanMarkItemsDoneByAll
	}
	l.UpdatedAt = at

	out := *l
	return &out, nil
}

func (s *Memory) DeleteShoppingList(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.listIndex[id]
	if !ok {
		return ErrNotDeleted
	}

	for i, item := range s.items {
		if item != nil && item.ShoppingListID == id {
			delete(s.itemIndex, item.ID)
			s.items[i] = nil
		}
	}
	for i, m := range s.memberships {
		if m != nil && m.ShoppingListID == id {
			delete(s.membershipIndex, pairKey{m.ShoppingListID, m.MemberID})
			s.memberships[i] = nil
		}
	}
	delete(s.listIndex, id)
	s.lists[slot] = nil
	return nil
}

func (s *Memory) ListShoppingListsByMember(_ context.Context, memberID string, state models.ShoppingListState) ([]models.ShoppingList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ShoppingList{}
	for _, m := range s.memberships {
		if m == nil || m.MemberID != memberID {
			continue
		}
		l := s.list(m.ShoppingListID)
		if l == nil || (state != "" && l.State != state) {
			continue
		}
		out = append(out, *l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Memory) FindMembership(_ context.Context, shoppingListID, memberID string) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.membershipIndex[pairKey{shoppingListID, memberID}]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s.memberships[slot]
	return &out, nil
}

func (s *Memory) AddMembership(_ context.Context, m *models.Membership) (*models.Membership, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{m.ShoppingListID, m.MemberID}
	if slot, ok := s.membershipIndex[key]; ok {
		out := *s.memberships[slot]
		return &out, false, nil
	}
	if s.list(m.ShoppingListID) == nil {
		return nil, false, ErrNotFound
	}

	row := *m
	s.membershipIndex[key] = len(s.memberships)
	s.memberships = append(s.memberships, &row)

	out := row
	return &out, true, nil
}

func (s *Memory) RemoveMembership(_ context.Context, shoppingListID, memberID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{shoppingListID, memberID}
	slot, ok := s.membershipIndex[key]
	if !ok {
		return false, nil
	}
	delete(s.membershipIndex, key)
	s.memberships[slot] = nil
	return true, nil
}

func (s *Memory) ListMemberships(_ context.Context, shoppingListID string) ([]models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Membership{}
	for _, m := range s.memberships {
		if m != nil && m.ShoppingListID == shoppingListID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *Memory) CountOwners(_ context.Context, shoppingListID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, m := range s.memberships {
		if m != nil && m.ShoppingListID == shoppingListID && m.Role == models.RoleOwner {
			n++
		}
	}
	return n, nil
}

func (s *Memory) CreateItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.list(item.ShoppingListID) == nil {
		return ErrNotFound
	}
	row := cloneItem(item)
	s.itemIndex[row.ID] = len(s.items)
	s.items = append(s.items, row)
	return nil
}

func (s *Memory) GetItem(_ context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item := s.item(id)
	if item == nil {
		return nil, ErrNotFound
	}
	return cloneItem(item), nil
}

func (s *Memory) UpdateItem(_ context.Context, id string, patch ItemPatch, at time.Time) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.item(id)
	if item == nil {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Note != nil {
		item.Note = *patch.Note
	}
	item.UpdatedAt = at
	return cloneItem(item), nil
}

func (s *Memory) SetItemDone(_ context.Context, id string, done bool, by string, at time.Time) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.item(id)
	if item == nil {
		return nil, ErrNotFound
	}
	item.Done = done
	item.DoneBy, item.DoneAt = doneTuple(done, by, at)
	item.UpdatedAt = at
	return cloneItem(item), nil
}

func (s *Memory) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.itemIndex[id]
	if !ok {
		return ErrNotDeleted
	}
	delete(s.itemIndex, id)
	s.items[slot] = nil
	return nil
}

func (s *Memory) ListItems(_ context.Context, shoppingListID string, filter ItemFilter) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Item{}
	for _, item := range s.items {
		if item == nil || item.ShoppingListID != shoppingListID {
			continue
		}
		if filter.Done != nil && item.Done != *filter.Done {
			continue
		}
		out = append(out, *cloneItem(item))
	}
	return out, nil
}

// list returns the arena row for id; callers hold the lock
func (s *Memory) list(id string) *models.ShoppingList {
	slot, ok := s.listIndex[id]
	if !ok {
		return nil
	}
	return s.lists[slot]
}

// item returns the arena row for id; callers hold the lock
func (s *Memory) item(id string) *models.Item {
	slot, ok := s.itemIndex[id]
	if !ok {
		return nil
	}
	return s.items[slot]
}

func cloneItem(item *models.Item) *models.Item {
	out := *item
	if item.DoneBy != nil {
		by := *item.DoneBy
		out.DoneBy = &by
	}
	if item.DoneAt != nil {
		at := *item.DoneAt
		out.DoneAt = &at
	}
	return &out
}
