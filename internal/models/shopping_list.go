package models

import (
	"time"
)

// ShoppingListState is the lifecycle state of a shopping list
type ShoppingListState string

const (
	StateActive   ShoppingListState = "active"
	StateArchived ShoppingListState = "archived"
)

// ShoppingListStates lists every accepted state value
var ShoppingListStates = []string{string(StateActive), string(StateArchived)}

// ShoppingList represents a list owned through its memberships
type ShoppingList struct {
	ID                    string            `gorm:"primaryKey;size:36" bson:"_id" json:"shoppingListId"`
	Name                  string            `gorm:"size:255;not null" bson:"name" json:"name"`
	Description           string            `gorm:"type:text" bson:"description" json:"description"`
	State                 ShoppingListState `gorm:"size:16;not null;default:active" bson:"state" json:"state"`
	CanMarkItemsDoneByAll bool              `gorm:"not null;default:false" bson:"canMarkItemsDoneByAll" json:"canMarkItemsDoneByAll"`
	CreatedBy             string            `gorm:"size:255;not null" bson:"createdBy" json:"createdBy"`
	CreatedAt             time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// TableName overrides the table name for ShoppingList
func (ShoppingList) TableName() string {
	return "shopping_lists"
}
