package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/jam-build-shoplist/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// Gorm is a Store backed by any GORM dialect
type Gorm struct {
	db *gorm.DB
}

// NewGorm creates a Store over an open GORM connection
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// quiet returns a session that does not log expected not-found lookups
func (s *Gorm) quiet(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Session(&gorm.Session{Logger: s.db.Logger.LogMode(logger.Silent)})
}

func (s *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *Gorm) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateShoppingList inserts the list and the owner membership in one transaction
func (s *Gorm) CreateShoppingList(ctx context.Context, list *models.ShoppingList, owner *models.Membership) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(list).Error; err != nil {
			return fmt.Errorf("failed to insert shopping list: %w", err)
		}
		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("failed to insert owner membership: %w", err)
		}
		return nil
	})
}

func (s *Gorm) GetShoppingList(ctx context.Context, id string) (*models.ShoppingList, error) {
	return firstShoppingList(s.quiet(ctx), id)
}

func firstShoppingList(db *gorm.DB, id string) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := db.Where("id = ?", id).First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

func (s *Gorm) UpdateShoppingList(ctx context.Context, id string, patch ShoppingListPatch, at time.Time) (*models.ShoppingList, error) {
	updates := map[string]any{"updated_at": at}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.State != nil {
		updates["state"] = string(*patch.State)
	}
	if patch.CanMarkItemsDoneByAll != nil {
		updates["can_mark_items_done_by_all"] = *patch.CanMarkItemsDoneByAll
	}

	var updated *models.ShoppingList
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ShoppingList{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		var err error
		updated, err = firstShoppingList(tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}), id)
		return err
	})
	return updated, err
}

// DeleteShoppingList cascades to items and memberships in one transaction
func (s *Gorm) DeleteShoppingList(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shopping_list_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shopping_list_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.ShoppingList{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotDeleted
		}
		return nil
	})
}

func (s *Gorm) ListShoppingListsByMember(ctx context.Context, memberID string, state models.ShoppingListState) ([]models.ShoppingList, error) {
	db := s.db.WithContext(ctx)
	memberOf := db.Model(&models.Membership{}).Select("shopping_list_id").Where("member_id = ?", memberID)

	query := db.Where("id IN (?)", memberOf)
	if state != "" {
		query = query.Where("state = ?", string(state))
	}

	lists := []models.ShoppingList{}
	if err := query.Order("created_at ASC").Order("id ASC").Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (s *Gorm) FindMembership(ctx context.Context, shoppingListID, memberID string) (*models.Membership, error) {
	return firstMembership(s.quiet(ctx), shoppingListID, memberID)
}

func firstMembership(db *gorm.DB, shoppingListID, memberID string) (*models.Membership, error) {
	var m models.Membership
	err := db.Where("shopping_list_id = ? AND member_id = ?", shoppingListID, memberID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *Gorm) AddMembership(ctx context.Context, m *models.Membership) (*models.Membership, bool, error) {
	var (
		out     *models.Membership
		created bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quiet := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)})

		existing, err := firstMembership(quiet, m.ShoppingListID, m.MemberID)
		if err == nil {
			out = existing
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		if _, err := firstShoppingList(quiet, m.ShoppingListID); err != nil {
			return err
		}

		row := *m
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		out, created = &row, true
		return nil
	})

	// A concurrent insert of the same pair loses on the unique index
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, findErr := s.FindMembership(ctx, m.ShoppingListID, m.MemberID)
		if findErr != nil {
			return nil, false, findErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

func (s *Gorm) RemoveMembership(ctx context.Context, shoppingListID, memberID string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("shopping_list_id = ? AND member_id = ?", shoppingListID, memberID).
		Delete(&models.Membership{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Gorm) ListMemberships(ctx context.Context, shoppingListID string) ([]models.Membership, error) {
	memberships := []models.Membership{}
	err := s.db.WithContext(ctx).
		Where("shopping_list_id = ?", shoppingListID).
		Order("created_at ASC").Order("id ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (s *Gorm) CountOwners(ctx context.Context, shoppingListID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Where("shopping_list_id = ? AND role = ?", shoppingListID, string(models.RoleOwner)).
		Count(&count).Error
	return count, err
}

func (s *Gorm) CreateItem(ctx context.Context, item *models.Item) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quiet := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)})
		if _, err := firstShoppingList(quiet, item.ShoppingListID); err != nil {
			return err
		}
		return tx.Create(item).Error
	})
}

func (s *Gorm) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return firstItem(s.quiet(ctx), id)
}

func firstItem(db *gorm.DB, id string) (*models.Item, error) {
	var item models.Item
	if err := db.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *Gorm) UpdateItem(ctx context.Context, id string, patch ItemPatch, at time.Time) (*models.Item, error) {
	updates := map[string]any{"updated_at": at}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Quantity != nil {
		updates["quantity"] = *patch.Quantity
	}
	if patch.Note != nil {
		updates["note"] = *patch.Note
	}
	return s.updateItem(ctx, id, updates)
}

func (s *Gorm) SetItemDone(ctx context.Context, id string, done bool, by string, at time.Time) (*models.Item, error) {
	doneBy, doneAt := doneTuple(done, by, at)
	updates := map[string]any{
		"done":       done,
		"done_by":    doneBy,
		"done_at":    doneAt,
		"updated_at": at,
	}
	return s.updateItem(ctx, id, updates)
}

func (s *Gorm) updateItem(ctx context.Context, id string, updates map[string]any) (*models.Item, error) {
	var updated *models.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		var err error
		updated, err = firstItem(tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}), id)
		return err
	})
	return updated, err
}

func (s *Gorm) DeleteItem(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotDeleted
	}
	return nil
}

func (s *Gorm) ListItems(ctx context.Context, shoppingListID string, filter ItemFilter) ([]models.Item, error) {
	query := s.db.WithContext(ctx).Where("shopping_list_id = ?", shoppingListID)
	if filter.Done != nil {
		query = query.Where("done = ?", *filter.Done)
		// MySQL may otherwise pick the single-column list index
		if s.db.Dialector.Name() == "mysql" {
			query = query.Clauses(hints.UseIndex(models.ItemsListDoneIndex))
		}
	}

	items := []models.Item{}
	if err := query.Order("created_at ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
