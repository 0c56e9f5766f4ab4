package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoplist/internal/models"
	"github.com/localnerve/jam-build-shoplist/internal/services"
	"github.com/localnerve/jam-build-shoplist/internal/utils"
)

// ShoppingListHandler handles the shoppingList/* commands
type ShoppingListHandler struct {
	Service *services.ShoppingLists
}

// Create handles POST /api/shoppingList/create
// @Summary Create a shopping list
// @Description Create a list owned by the caller
// @Tags ShoppingList
// @Accept json
// @Produce json
// @Param body body object true "name, description, canMarkItemsDoneByAll"
// @Success 200 {object} map[string]interface{} "shoppingList, membership, uuAppErrorMap"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shoppingList/create [post]
func (h *ShoppingListHandler) Create(c *fiber.Ctx) error {
	const command = "shoppingList/create"

	values, errorMap, err := parseDtoIn(c, command, createShoppingListShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	result, err := h.Service.Create(c.UserContext(), callerOf(c), services.CreateShoppingListInput{
		Name:                  values.String("name"),
		Description:           values.String("description"),
		CanMarkItemsDoneByAll: values.Bool("canMarkItemsDoneByAll"),
	})
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	return utils.CommandResponse(c, fiber.Map{
		"shoppingList": result.ShoppingList,
		"membership":   result.Membership,
	}, errorMap)
}

// ListMine handles GET|POST /api/shoppingList/listMine
// @Summary List the caller's shopping lists
// @Description Lists the caller is a member of, ordered by creation and paged
// @Tags ShoppingList
// @Accept json
// @Produce json
// @Param state query string false "active or archived"
// @Param pageInfo.pageIndex query int false "Zero based page index"
// @Param pageInfo.pageSize query int false "Page size"
// @Success 200 {object} map[string]interface{} "shoppingLists, pageInfo, uuAppErrorMap"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /shoppingList/listMine [get]
// @Router /shoppingList/listMine [post]
func (h *ShoppingListHandler) ListMine(c *fiber.Ctx) error {
	const command = "shoppingList/listMine"

	values, errorMap, err := parseDtoIn(c, command, listMineShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	page, err := h.Service.ListMine(c.UserContext(), callerOf(c), services.ListMineInput{
		State: models.ShoppingListState(values.String("state")),
		Page:  pageRequest(values),
	})
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	return utils.CommandResponse(c, fiber.Map{
		"shoppingLists": page.ShoppingLists,
		"pageInfo":      page.PageInfo,
	}, errorMap)
}

// Get handles GET|POST /api/shoppingList/get
// @Summary Get a shopping list
// @Tags ShoppingList
// @Accept json
// @Produce json
// @Param shoppingListId query string true "Shopping list ID"
// @Success 200 {object} map[string]interface{} "shoppingList, membership, uuAppErrorMap"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppingList/get [get]
// @Router /shoppingList/get [post]
func (h *ShoppingListHandler) Get(c *fiber.Ctx) error {
	const command = "shoppingList/get"

	values, errorMap, err := parseDtoIn(c, command, shoppingListIDShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	result, err := h.Service.Get(c.UserContext(), callerOf(c), values.String("shoppingListId"))
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	return utils.CommandResponse(c, fiber.Map{
		"shoppingList": result.ShoppingList,
		"membership":   result.Membership,
	}, errorMap)
}

// Update handles POST|PATCH /api/shoppingList/update
// @Summary Update a shopping list
// @Description Overwrites only the provided fields. Owner only.
// @Tags ShoppingList
// @Accept json
// @Produce json
// @Param body body object true "shoppingListId, name, description, canMarkItemsDoneByAll, state"
// @Success 200 {object} map[string]interface{} "shoppingList, uuAppErrorMap"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppingList/update [post]
// @Router /shoppingList/update [patch]
func (h *ShoppingListHandler) Update(c *fiber.Ctx) error {
	const command = "shoppingList/update"

	values, errorMap, err := parseDtoIn(c, command, updateShoppingListShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	in := services.UpdateShoppingListInput{
		ShoppingListID:        values.String("shoppingListId"),
		Name:                  values.StringPtr("name"),
		Description:           values.StringPtr("description"),
		CanMarkItemsDoneByAll: values.BoolPtr("canMarkItemsDoneByAll"),
	}
	if state := values.StringPtr("state"); state != nil {
		s := models.ShoppingListState(*state)
		in.State = &s
	}

	list, err := h.Service.Update(c.UserContext(), callerOf(c), in)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	return utils.CommandResponse(c, fiber.Map{"shoppingList": list}, errorMap)
}

// Delete handles DELETE|POST /api/shoppingList/delete
// @Summary Delete a shopping list
// @Description Deletes the list with its items and memberships. Owner only.
// @Tags ShoppingList
// @Accept json
// @Produce json
// @Param shoppingListId query string true "Shopping list ID"
// @Success 200 {object} map[string]interface{} "shoppingListId, deleted, uuAppErrorMap"
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /shoppingList/delete [delete]
// @Router /shoppingList/delete [post]
func (h *ShoppingListHandler) Delete(c *fiber.Ctx) error {
	const command = "shoppingList/delete"

	values, errorMap, err := parseDtoIn(c, command, shoppingListIDShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	id := values.String("shoppingListId")
	if err := h.Service.Delete(c.UserContext(), callerOf(c), id); err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	return utils.CommandResponse(c, fiber.Map{"shoppingListId": id, "deleted": true}, errorMap)
}

// AddMember handles POST /api/shoppingList/addMember
// @Summary Add a member to a shopping list
// @Description Idempotent; an existing membership is returned with a warning. Owner only.
// @Tags ShoppingList
// @Accept json
// @Produce json
// @Param body body object true "shoppingListId, userId, role"
// @Success 200 {object} map[string]interface{} "membership, uuAppErrorMap"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppingList/addMember [post]
func (h *ShoppingListHandler) AddMember(c *fiber.Ctx) error {
	const command = "shoppingList/addMember"

	values, errorMap, err := parseDtoIn(c, command, addMemberShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	membership, warnings, err := h.Service.AddMember(c.UserContext(), callerOf(c), services.AddMemberInput{
		ShoppingListID: values.String("shoppingListId"),
		UserID:         values.String("userId"),
		Role:           models.Role(values.String("role")),
	})
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	errorMap.AddWarnings(command, warnings)
	return utils.CommandResponse(c, fiber.Map{"membership": membership}, errorMap)
}

// RemoveMember handles DELETE|POST /api/shoppingList/removeMember
// @Summary Remove a member from a shopping list
// @Description Removing a non-member reports removed=false with a warning. The last owner cannot be removed.
// @Tags ShoppingList
// @Accept json
// @Produce json
// @Param shoppingListId query string true "Shopping list ID"
// @Param userId query string true "Member user ID"
// @Success 200 {object} map[string]interface{} "shoppingListId, userId, removed, uuAppErrorMap"
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /shoppingList/removeMember [delete]
// @Router /shoppingList/removeMember [post]
func (h *ShoppingListHandler) RemoveMember(c *fiber.Ctx) error {
	const command = "shoppingList/removeMember"

	values, errorMap, err := parseDtoIn(c, command, removeMemberShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	listID, userID := values.String("shoppingListId"), values.String("userId")
	removed, warnings, err := h.Service.RemoveMember(c.UserContext(), callerOf(c), listID, userID)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	errorMap.AddWarnings(command, warnings)
	return utils.CommandResponse(c, fiber.Map{
		"shoppingListId": listID,
		"userId":         userID,
		"removed":        removed,
	}, errorMap)
}

// ListMembers handles GET|POST /api/shoppingList/listMembers
// @Summary List the members of a shopping list
// @Tags ShoppingList
// @Accept json
// @Produce json
// @Param shoppingListId query string true "Shopping list ID"
// @Param pageInfo.pageIndex query int false "Zero based page index"
// @Param pageInfo.pageSize query int false "Page size"
// @Success 200 {object} map[string]interface{} "memberships, pageInfo, uuAppErrorMap"
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppingList/listMembers [get]
// @Router /shoppingList/listMembers [post]
func (h *ShoppingListHandler) ListMembers(c *fiber.Ctx) error {
	const command = "shoppingList/listMembers"

	values, errorMap, err := parseDtoIn(c, command, listMembersShape)
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	page, err := h.Service.ListMembers(c.UserContext(), callerOf(c), services.ListMembersInput{
		ShoppingListID: values.String("shoppingListId"),
		Page:           pageRequest(values),
	})
	if err != nil {
		return utils.AppErrorResponse(c, command, err, errorMap)
	}

	return utils.CommandResponse(c, fiber.Map{
		"memberships": page.Memberships,
		"pageInfo":    page.PageInfo,
	}, errorMap)
}
