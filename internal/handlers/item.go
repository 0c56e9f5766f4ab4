package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoplist/internal/services"
	"github.com/localnerve/jam-build-shoplist/internal/utils"
)

// ItemHandler handles the item/* commands
type ItemHandler struct {
	Service *services.Items
}

// Create handles POST /api/item/create
// @Summary Create an item
// @Tags Item
// @Accept json
// @Produce json
// @Param body body object true "shoppingListId, name, quantity, note"
// @Success 200 {object} map[string]interface{} "item, uuAppErrorMap"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /item/create [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	const command = "item/create"

	values, errorMap, err := parseDtoIn(c, command, createItemShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	item, err := h.Service.Create(c.UserContext(), callerOf(c), services.CreateItemInput{
		ShoppingListID: values.String("shoppingListId"),
		Name:           values.String("name"),
		Quantity:       values.String("quantity"),
		Note:           values.String("note"),
	})
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	return utils.CommandResponse(c, fiber.Map{"item": item}, errorMap)
}

// List handles GET|POST /api/item/list
// @Summary List the items of a shopping list
// @Tags Item
// @Accept json
// @Produce json
// @Param shoppingListId query string true "Shopping list ID"
// @Param done query bool false "Filter by done state"
// @Param pageInfo.pageIndex query int false "Zero based page index"
// @Param pageInfo.pageSize query int false "Page size"
// @Success 200 {object} map[string]interface{} "items, pageInfo, uuAppErrorMap"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /item/list [get]
// @Router /item/list [post]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	const command = "item/list"

	values, errorMap, err := parseDtoIn(c, command, listItemsShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	page, err := h.Service.List(c.UserContext(), callerOf(c), services.ListItemsInput{
		ShoppingListID: values.String("shoppingListId"),
		Done:           values.BoolPtr("done"),
		Page:           pageRequest(values),
	})
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	return utils.CommandResponse(c, fiber.Map{
		"items":    page.Items,
		"pageInfo": page.PageInfo,
	}, errorMap)
}

// Update handles POST|PATCH /api/item/update
// @Summary Update an item
// @Description Overwrites only the provided fields
// @Tags Item
// @Accept json
// @Produce json
// @Param body body object true "itemId, name, quantity, note"
// @Success 200 {object} map[string]interface{} "item, uuAppErrorMap"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /item/update [post]
// @Router /item/update [patch]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	const command = "item/update"

	values, errorMap, err := parseDtoIn(c, command, updateItemShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	item, err := h.Service.Update(c.UserContext(), callerOf(c), services.UpdateItemInput{
		ItemID:   values.String("itemId"),
		Name:     values.StringPtr("name"),
		Quantity: values.StringPtr("quantity"),
		Note:     values.StringPtr("note"),
	})
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	return utils.CommandResponse(c, fiber.Map{"item": item}, errorMap)
}

// MarkDone handles POST /api/item/markDone
// @Summary Mark an item done or not done
// @Description Members need the list's canMarkItemsDoneByAll flag
// @Tags Item
// @Accept json
// @Produce json
// @Param body body object true "itemId, done"
// @Success 200 {object} map[string]interface{} "item, uuAppErrorMap"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /item/markDone [post]
func (h *ItemHandler) MarkDone(c *fiber.Ctx) error {
	const command = "item/markDone"

	values, errorMap, err := parseDtoIn(c, command, markDoneShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	item, err := h.Service.MarkDone(c.UserContext(), callerOf(c), values.String("itemId"), values.Bool("done"))
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	return utils.CommandResponse(c, fiber.Map{"item": item}, errorMap)
}

// Delete handles DELETE|POST /api/item/delete
// @Summary Delete an item
// @Tags Item
// @Accept json
// @Produce json
// @Param itemId query string true "Item ID"
// @Success 200 {object} map[string]interface{} "itemId, deleted, uuAppErrorMap"
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /item/delete [delete]
// @Router /item/delete [post]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	const command = "item/delete"

	values, errorMap, err := parseDtoIn(c, command, itemIDShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	id := values.String("itemId")
	if err := h.Service.Delete(c.UserContext(), callerOf(c), id); err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	return utils.CommandResponse(c, fiber.Map{"itemId": id, "deleted": true}, errorMap)
}
