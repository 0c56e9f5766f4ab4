package handlers

import (
	"github.com/localnerve/jam-build-shoplist/internal/models"
	"github.com/localnerve/jam-build-shoplist/internal/services"
	"github.com/localnerve/jam-build-shoplist/internal/validation"
)

// Bounds shared by the dtoIn shapes
const (
	maxIDLength          = 255
	maxNameLength        = 255
	maxQuantityLength    = 255
	maxDescriptionLength = 4000
)

func shoppingListID() validation.Field {
	return validation.String("shoppingListId").Required().Length(1, maxIDLength)
}

func itemID() validation.Field {
	return validation.String("itemId").Required().Length(1, maxIDLength)
}

func pageInfo() validation.Field {
	return validation.Object("pageInfo",
		validation.Integer("pageIndex").NonNegative().Default(0),
		validation.Integer("pageSize").Positive().Default(services.DefaultPageSize),
	)
}

var (
	createShoppingListShape = validation.Shape{
		validation.String("name").Required().Length(1, maxNameLength),
		validation.String("description").Length(0, maxDescriptionLength).Default(""),
		validation.Boolean("canMarkItemsDoneByAll").Default(false),
	}

	listMineShape = validation.Shape{
		validation.String("state").OneOf(models.ShoppingListStates...),
		pageInfo(),
	}

	shoppingListIDShape = validation.Shape{
		shoppingListID(),
	}

	listMembersShape = validation.Shape{
		shoppingListID(),
		pageInfo(),
	}

	updateShoppingListShape = validation.Shape{
		shoppingListID(),
		validation.String("name").Length(1, maxNameLength),
		validation.String("description").Length(0, maxDescriptionLength),
		validation.Boolean("canMarkItemsDoneByAll"),
		validation.String("state").OneOf(models.ShoppingListStates...),
	}

	addMemberShape = validation.Shape{
		shoppingListID(),
		validation.String("userId").Required().Length(1, maxIDLength),
		validation.String("role").OneOf(models.Roles...).Default(string(models.RoleMember)),
	}

	removeMemberShape = validation.Shape{
		shoppingListID(),
		validation.String("userId").Required().Length(1, maxIDLength),
	}

	createItemShape = validation.Shape{
		shoppingListID(),
		validation.String("name").Required().Length(1, maxNameLength),
		validation.String("quantity").Length(0, maxQuantityLength).Default(""),
		validation.String("note").Length(0, maxDescriptionLength).Default(""),
	}

	listItemsShape = validation.Shape{
		shoppingListID(),
		validation.Boolean("done"),
		pageInfo(),
	}

	updateItemShape = validation.Shape{
		itemID(),
		validation.String("name").Length(1, maxNameLength),
		validation.String("quantity").Length(0, maxQuantityLength),
		validation.String("note").Length(0, maxDescriptionLength),
	}

	markDoneShape = validation.Shape{
		itemID(),
		validation.Boolean("done").Required(),
	}

	itemIDShape = validation.Shape{
		itemID(),
	}
)
