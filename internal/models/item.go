package models

import (
	"time"
)

// Item is a single entry on a shopping list.
// DoneBy and DoneAt are nil whenever Done is false.
type Item struct {
	ID             string     `gorm:"primaryKey;size:36" bson:"_id" json:"itemId"`
	ShoppingListID string     `gorm:"size:36;not null;index:idx_items_list;index:idx_items_list_done,priority:1" bson:"shoppingListId" json:"shoppingListId"`
	Name           string     `gorm:"size:255;not null" bson:"name" json:"name"`
	Quantity       string     `gorm:"size:255;not null;default:''" bson:"quantity" json:"quantity"`
	Note           string     `gorm:"type:text" bson:"note" json:"note"`
	Done           bool       `gorm:"not null;default:false;index:idx_items_list_done,priority:2" bson:"done" json:"done"`
	CreatedBy      string     `gorm:"size:255;not null" bson:"createdBy" json:"createdBy"`
	DoneBy         *string    `gorm:"size:255" bson:"doneBy" json:"doneBy"`
	DoneAt         *time.Time `bson:"doneAt" json:"doneAt"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// TableName overrides the table name for Item
func (Item) TableName() string {
	return "items"
}

// ItemsListDoneIndex is the compound index used to filter items by done-state
const ItemsListDoneIndex = "idx_items_list_done"
