package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts every command on router behind auth. Read commands
// accept GET with query parameters, deletes accept DELETE, and every command
// accepts POST. Paths no command serves never reach auth.
func RegisterRoutes(router fiber.Router, auth fiber.Handler, lists *ShoppingListHandler, items *ItemHandler) {
	shoppingList := router.Group("/shoppingList")
	shoppingList.Post("/create", auth, lists.Create)
	shoppingList.Get("/listMine", auth, lists.ListMine)
	shoppingList.Post("/listMine", auth, lists.ListMine)
	shoppingList.Get("/get", auth, lists.Get)
	shoppingList.Post("/get", auth, lists.Get)
	shoppingList.Post("/update", auth, lists.Update)
	shoppingList.Patch("/update", auth, lists.Update)
	shoppingList.Delete("/delete", auth, lists.Delete)
	shoppingList.Post("/delete", auth, lists.Delete)
	shoppingList.Post("/addMember", auth, lists.AddMember)
	shoppingList.Delete("/removeMember", auth, lists.RemoveMember)
	shoppingList.Post("/removeMember", auth, lists.RemoveMember)
	shoppingList.Get("/listMembers", auth, lists.ListMembers)
	shoppingList.Post("/listMembers", auth, lists.ListMembers)

	item := router.Group("/item")
	item.Post("/create", auth, items.Create)
	item.Get("/list", auth, items.List)
	item.Post("/list", auth, items.List)
	item.Post("/update", auth, items.Update)
	item.Patch("/update", auth, items.Update)
	item.Post("/markDone", auth, items.MarkDone)
	item.Delete("/delete", auth, items.Delete)
	item.Post("/delete", auth, items.Delete)
}
