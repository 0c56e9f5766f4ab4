package models

import (
	"slices"
	"time"
)

// Role is the relationship a member holds on a shopping list
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Roles lists every accepted role value
var Roles = []string{string(RoleOwner), string(RoleMember)}

// Membership is the sole access-control edge between a user and a shopping list.
// Exactly one row per (shopping_list_id, member_id).
type Membership struct {
	ID             string    `gorm:"primaryKey;size:36" bson:"_id" json:"membershipId"`
	ShoppingListID string    `gorm:"size:36;not null;index:idx_memberships_list_member,unique,priority:1" bson:"shoppingListId" json:"shoppingListId"`
	MemberID       string    `gorm:"size:255;not null;index:idx_memberships_list_member,unique,priority:2;index:idx_memberships_member" bson:"memberId" json:"memberId"`
	Role           Role      `gorm:"size:16;not null;default:member" bson:"role" json:"role"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	CreatedBy      string    `gorm:"size:255;not null" bson:"createdBy" json:"createdBy"`
}

// TableName overrides the table name for Membership
func (Membership) TableName() string {
	return "memberships"
}

// HasRole reports whether the membership role is one of roles
func (m *Membership) HasRole(roles ...Role) bool {
	return m != nil && slices.Contains(roles, m.Role)
}
