package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/jam-build-shoplist/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names in the document store
const (
	CollectionShoppingLists = "shoppingLists"
	CollectionMemberships   = "memberships"
	CollectionItems         = "items"
)

var createdOrder = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

// Mongo is a Store backed by MongoDB. Every operation is a single-document
// round trip; compound writes use compensation instead of transactions so the
// store also works against standalone servers.
type Mongo struct {
	client      *mongo.Client
	lists       *mongo.Collection
	memberships *mongo.Collection
	items       *mongo.Collection
}

// NewMongo creates a Store over the named database
func NewMongo(client *mongo.Client, database string) *Mongo {
	db := client.Database(database)
	return &Mongo{
		client:      client,
		lists:       db.Collection(CollectionShoppingLists),
		memberships: db.Collection(CollectionMemberships),
		items:       db.Collection(CollectionItems),
	}
}

// EnsureIndexes creates the secondary indexes the queries rely on
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := s.memberships.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shoppingListId", Value: 1}, {Key: "memberId", Value: 1}},
			Options: options.Index().SetName("idx_memberships_list_member").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}},
			Options: options.Index().SetName("idx_memberships_member"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create membership indexes: %w", err)
	}

	_, err = s.items.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shoppingListId", Value: 1}},
			Options: options.Index().SetName("idx_items_list"),
		},
		{
			Keys:    bson.D{{Key: "shoppingListId", Value: 1}, {Key: "done", Value: 1}},
			Options: options.Index().SetName(models.ItemsListDoneIndex),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create item indexes: %w", err)
	}
	return nil
}

func (s *Mongo) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// CreateShoppingList inserts the list, then the owner membership. If the
// membership insert fails the list is removed again.
func (s *Mongo) CreateShoppingList(ctx context.Context, list *models.ShoppingList, owner *models.Membership) error {
	if _, err := s.lists.InsertOne(ctx, list); err != nil {
		return fmt.Errorf("failed to insert shopping list: %w", err)
	}
	if _, err := s.memberships.InsertOne(ctx, owner); err != nil {
		insertErr := fmt.Errorf("failed to insert owner membership: %w", err)
		if _, rollbackErr := s.lists.DeleteOne(ctx, bson.M{"_id": list.ID}); rollbackErr != nil {
			return errors.Join(insertErr, fmt.Errorf("failed to roll back shopping list %s: %w", list.ID, rollbackErr))
		}
		return insertErr
	}
	return nil
}

func (s *Mongo) GetShoppingList(ctx context.Context, id string) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := s.lists.FindOne(ctx, bson.M{"_id": id}).Decode(&list); err != nil {
		return nil, notFound(err)
	}
	return &list, nil
}

func (s *Mongo) UpdateShoppingList(ctx context.Context, id string, patch ShoppingListPatch, at time.Time) (*models.ShoppingList, error) {
	set := bson.M{"updatedAt": at}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.State != nil {
		set["state"] = *patch.State
	}
	if patch.CanMarkItemsDoneByAll != nil {
		set["canMarkItemsDoneByAll"] = *patch.CanMarkItemsDoneByAll
	}

	var list models.ShoppingList
	err := s.lists.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&list)
	if err != nil {
		return nil, notFound(err)
	}
	return &list, nil
}

// DeleteShoppingList removes children first so a failure never leaves
// orphaned items behind a deleted list
func (s *Mongo) DeleteShoppingList(ctx context.Context, id string) error {
	if _, err := s.items.DeleteMany(ctx, bson.M{"shoppingListId": id}); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	if _, err := s.memberships.DeleteMany(ctx, bson.M{"shoppingListId": id}); err != nil {
		return fmt.Errorf("failed to delete memberships: %w", err)
	}
	result, err := s.lists.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotDeleted
	}
	return nil
}

func (s *Mongo) ListShoppingListsByMember(ctx context.Context, memberID string, state models.ShoppingListState) ([]models.ShoppingList, error) {
	cursor, err := s.memberships.Find(ctx, bson.M{"memberId": memberID},
		options.Find().SetProjection(bson.M{"shoppingListId": 1}))
	if err != nil {
		return nil, err
	}
	var refs []struct {
		ShoppingListID string `bson:"shoppingListId"`
	}
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, err
	}

	lists := []models.ShoppingList{}
	if len(refs) == 0 {
		return lists, nil
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ShoppingListID)
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}
	if state != "" {
		filter["state"] = state
	}

	cursor, err = s.lists.Find(ctx, filter, options.Find().SetSort(createdOrder))
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (s *Mongo) FindMembership(ctx context.Context, shoppingListID, memberID string) (*models.Membership, error) {
	var m models.Membership
	err := s.memberships.FindOne(ctx, bson.M{"shoppingListId": shoppingListID, "memberId": memberID}).Decode(&m)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (s *Mongo) AddMembership(ctx context.Context, m *models.Membership) (*models.Membership, bool, error) {
	existing, err := s.FindMembership(ctx, m.ShoppingListID, m.MemberID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	if _, err := s.GetShoppingList(ctx, m.ShoppingListID); err != nil {
		return nil, false, err
	}

	row := *m
	if _, err := s.memberships.InsertOne(ctx, &row); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, findErr := s.FindMembership(ctx, m.ShoppingListID, m.MemberID)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return &row, true, nil
}

func (s *Mongo) RemoveMembership(ctx context.Context, shoppingListID, memberID string) (bool, error) {
	result, err := s.memberships.DeleteOne(ctx, bson.M{"shoppingListId": shoppingListID, "memberId": memberID})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (s *Mongo) ListMemberships(ctx context.Context, shoppingListID string) ([]models.Membership, error) {
	cursor, err := s.memberships.Find(ctx, bson.M{"shoppingListId": shoppingListID}, options.Find().SetSort(createdOrder))
	if err != nil {
		return nil, err
	}
	memberships := []models.Membership{}
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

func (s *Mongo) CountOwners(ctx context.Context, shoppingListID string) (int64, error) {
	return s.memberships.CountDocuments(ctx, bson.M{"shoppingListId": shoppingListID, "role": models.RoleOwner})
}

func (s *Mongo) CreateItem(ctx context.Context, item *models.Item) error {
	if _, err := s.GetShoppingList(ctx, item.ShoppingListID); err != nil {
		return err
	}
	if _, err := s.items.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (s *Mongo) GetItem(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := s.items.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (s *Mongo) UpdateItem(ctx context.Context, id string, patch ItemPatch, at time.Time) (*models.Item, error) {
	set := bson.M{"updatedAt": at}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}
	if patch.Note != nil {
		set["note"] = *patch.Note
	}
	return s.updateItem(ctx, id, set)
}

func (s *Mongo) SetItemDone(ctx context.Context, id string, done bool, by string, at time.Time) (*models.Item, error) {
	doneBy, doneAt := doneTuple(done, by, at)
	return s.updateItem(ctx, id, bson.M{
		"done":      done,
		"doneBy":    doneBy,
		"doneAt":    doneAt,
		"updatedAt": at,
	})
}

func (s *Mongo) updateItem(ctx context.Context, id string, set bson.M) (*models.Item, error) {
	var item models.Item
	err := s.items.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&item)
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (s *Mongo) DeleteItem(ctx context.Context, id string) error {
	result, err := s.items.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotDeleted
	}
	return nil
}

func (s *Mongo) ListItems(ctx context.Context, shoppingListID string, filter ItemFilter) ([]models.Item, error) {
	query := bson.M{"shoppingListId": shoppingListID}
	if filter.Done != nil {
		query["done"] = *filter.Done
	}
	cursor, err := s.items.Find(ctx, query, options.Find().SetSort(createdOrder))
	if err != nil {
		return nil, err
	}
	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
