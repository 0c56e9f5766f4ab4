package services_test

import (
	"context"
	"testing"

	"github.com/localnerve/jam-build-shoplist/internal/services"
	"github.com/localnerve/jam-build-shoplist/internal/types"
)

func TestCreateItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)
	f.addMember(t, list.ID, "bob")

	item, err := f.items.Create(ctx, bob, services.CreateItemInput{ShoppingListID: list.ID, Name: "Milk", Quantity: "1 l"})
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	if item.Done || item.DoneBy != nil || item.DoneAt != nil {
		t.Errorf("Expected a new item to be open, got %+v", item)
	}
	if item.CreatedBy != "bob" || item.ShoppingListID != list.ID {
		t.Errorf("Expected item created by bob on %s, got %+v", list.ID, item)
	}

	_, err = f.items.Create(ctx, carol, services.CreateItemInput{ShoppingListID: list.ID, Name: "Eggs"})
	expectAppError(t, err, types.KindAuthorizationDenied, "notAuthorized")

	_, err = f.items.Create(ctx, alice, services.CreateItemInput{ShoppingListID: "missing", Name: "Eggs"})
	expectAppError(t, err, types.KindNotFound, "shoppingListNotFound")
}

func TestUpdateItemIsPartial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)
	item, err := f.items.Create(ctx, alice, services.CreateItemInput{
		ShoppingListID: list.ID,
		Name:           "Milk",
		Quantity:       "1 l",
		Note:           "oat",
	})
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	quantity := "2 l"
	updated, err := f.items.Update(ctx, alice, services.UpdateItemInput{ItemID: item.ID, Quantity: &quantity})
	if err != nil {
		t.Fatalf("Failed to update item: %v", err)
	}
	if updated.Name != "Milk" || updated.Note != "oat" || updated.Quantity != "2 l" {
		t.Errorf("Expected only quantity to change, got %+v", updated)
	}
	if !updated.UpdatedAt.After(item.UpdatedAt) {
		t.Errorf("Expected updatedAt to advance, got %v", updated.UpdatedAt)
	}

	_, err = f.items.Update(ctx, alice, services.UpdateItemInput{ItemID: "missing", Quantity: &quantity})
	expectAppError(t, err, types.KindNotFound, "itemNotFound")

	_, err = f.items.Update(ctx, carol, services.UpdateItemInput{ItemID: item.ID, Quantity: &quantity})
	expectAppError(t, err, types.KindAuthorizationDenied, "notAuthorized")
}

func TestMarkDoneTuple(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)
	item := f.createItem(t, alice, list.ID, "Milk")

	done, err := f.items.MarkDone(ctx, alice, item.ID, true)
	if err != nil {
		t.Fatalf("Failed to mark done: %v", err)
	}
	if !done.Done || done.DoneBy == nil || *done.DoneBy != "alice" || done.DoneAt == nil {
		t.Fatalf("Expected done tuple set by alice, got %+v", done)
	}
	if !done.DoneAt.Equal(done.UpdatedAt) {
		t.Errorf("Expected doneAt == updatedAt, got %v and %v", done.DoneAt, done.UpdatedAt)
	}

	reopened, err := f.items.MarkDone(ctx, alice, item.ID, false)
	if err != nil {
		t.Fatalf("Failed to reopen: %v", err)
	}
	if reopened.Done || reopened.DoneBy != nil || reopened.DoneAt != nil {
		t.Errorf("Expected done tuple to be reset, got %+v", reopened)
	}
}

func TestMarkDoneGate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	restricted := f.createList(t, alice, "Restricted", false)
	f.addMember(t, restricted.ID, "bob")
	restrictedItem := f.createItem(t, bob, restricted.ID, "Milk")

	_, err := f.items.MarkDone(ctx, bob, restrictedItem.ID, true)
	expectAppError(t, err, types.KindAuthorizationDenied, "notAuthorized")

	stored, err := f.store.GetItem(ctx, restrictedItem.ID)
	if err != nil {
		t.Fatalf("Failed to reload item: %v", err)
	}
	if stored.Done {
		t.Error("Expected a refused markDone to leave the item open")
	}

	open := f.createList(t, alice, "Open", true)
	f.addMember(t, open.ID, "bob")
	openItem := f.createItem(t, alice, open.ID, "Bread")

	done, err := f.items.MarkDone(ctx, bob, openItem.ID, true)
	if err != nil {
		t.Fatalf("Expected member to mark done when allowed, got %v", err)
	}
	if *done.DoneBy != "bob" {
		t.Errorf("Expected doneBy bob, got %s", *done.DoneBy)
	}

	_, err = f.items.MarkDone(ctx, carol, openItem.ID, true)
	expectAppError(t, err, types.KindAuthorizationDenied, "notAuthorized")
}

func TestListItems(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)
	milk := f.createItem(t, alice, list.ID, "Milk")
	bread := f.createItem(t, alice, list.ID, "Bread")
	eggs := f.createItem(t, alice, list.ID, "Eggs")
	if _, err := f.items.MarkDone(ctx, alice, bread.ID, true); err != nil {
		t.Fatalf("Failed to mark done: %v", err)
	}

	page, err := f.items.List(ctx, alice, services.ListItemsInput{ShoppingListID: list.ID})
	if err != nil {
		t.Fatalf("Failed to list items: %v", err)
	}
	if page.PageInfo.Total != 3 || len(page.Items) != 3 {
		t.Fatalf("Expected 3 items, got %+v", page.PageInfo)
	}
	for i, id := range []string{milk.ID, bread.ID, eggs.ID} {
		if page.Items[i].ID != id {
			t.Errorf("Expected item %d to be %s, got %s", i, id, page.Items[i].ID)
		}
	}

	open := false
	openPage, err := f.items.List(ctx, alice, services.ListItemsInput{ShoppingListID: list.ID, Done: &open, Page: services.PageRequest{PageSize: 1}})
	if err != nil {
		t.Fatalf("Failed to list open items: %v", err)
	}
	if openPage.PageInfo.Total != 2 || len(openPage.Items) != 1 || openPage.Items[0].ID != milk.ID {
		t.Errorf("Expected first of 2 open items to be Milk, got %+v", openPage)
	}

	_, err = f.items.List(ctx, alice, services.ListItemsInput{ShoppingListID: "missing"})
	expectAppError(t, err, types.KindNotFound, "shoppingListNotFound")
}

func TestDeleteItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	list := f.createList(t, alice, "Groceries", false)
	f.addMember(t, list.ID, "bob")
	item := f.createItem(t, alice, list.ID, "Milk")

	err := f.items.Delete(ctx, carol, item.ID)
	expectAppError(t, err, types.KindAuthorizationDenied, "notAuthorized")

	if err := f.items.Delete(ctx, bob, item.ID); err != nil {
		t.Fatalf("Expected member to delete, got %v", err)
	}

	err = f.items.Delete(ctx, bob, item.ID)
	expectAppError(t, err, types.KindNotFound, "itemNotFound")
}
