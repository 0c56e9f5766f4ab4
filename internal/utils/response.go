package utils

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoplist/internal/types"
)

// ErrorMapKey is the response field carrying the error map
const ErrorMapKey = "uuAppErrorMap"

// CommandResponse sends a successful dtoOut. The error map holds any warnings
// and is sent even when empty.
func CommandResponse(c *fiber.Ctx, dtoOut fiber.Map, errorMap types.ErrorMap) error {
	if dtoOut == nil {
		dtoOut = fiber.Map{}
	}
	if errorMap == nil {
		errorMap = types.ErrorMap{}
	}
	dtoOut[ErrorMapKey] = errorMap
	return c.Status(fiber.StatusOK).JSON(dtoOut)
}

// AppErrorResponse sends err as an error entry keyed under command, alongside
// any warnings already collected. System errors are logged with their cause
// and sent with an opaque message.
func AppErrorResponse(c *fiber.Ctx, command string, err error, errorMap types.ErrorMap) error {
	appErr := types.AsAppError(err)
	if appErr.Kind == types.KindSystemError {
		log.Printf("%s %s failed [%s]: %v", c.Method(), c.OriginalURL(), command, appErr.Cause)
	}
	if appErr.Kind == types.KindAuthenticationMissing {
		command = "authentication"
	}

	if errorMap == nil {
		errorMap = types.ErrorMap{}
	}
	errorMap.AddError(command, appErr.Code, appErr.Message, appErr.ParamMap)
	return c.Status(appErr.Status()).JSON(fiber.Map{ErrorMapKey: errorMap})
}

// EndpointNotFoundResponse sends the 404 for routes no command serves
func EndpointNotFoundResponse(c *fiber.Ctx) error {
	errorMap := types.ErrorMap{}
	errorMap.AddError("system", "endpointNotFound", "Requested endpoint does not exist.", map[string]any{
		"method": c.Method(),
		"url":    c.OriginalURL(),
	})
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{ErrorMapKey: errorMap})
}

// ErrorMapEntryStruct defines the schema of one uuAppErrorMap entry
type ErrorMapEntryStruct struct {
	Type     string                 `json:"type" example:"error"`
	Message  string                 `json:"message" example:"dtoIn is not valid."`
	ParamMap map[string]interface{} `json:"paramMap"`
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	UUAppErrorMap map[string]ErrorMapEntryStruct `json:"uuAppErrorMap"`
}

// StatusResponseStruct defines the schema for the root status banner
type StatusResponseStruct struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"Shopping List API is running."`
}
