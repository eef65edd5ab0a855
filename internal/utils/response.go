package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse acknowledges a mutation that returns no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// OK sends the payload as-is with status 200.
func OK(c *fiber.Ctx, payload interface{}) error {
	return JSON(c, fiber.StatusOK, payload)
}

// JSON sends the payload as-is with the given status. A nil payload becomes an empty object.
func JSON(c *fiber.Ctx, status int, payload interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	if payload == nil {
		payload = fiber.Map{}
	}
	return c.Status(status).JSON(payload)
}

// Message sends a {"message": ...} acknowledgement.
func Message(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, MessageResponse{Message: message})
}

// Fail sends a {"detail": ...} error body with the given status code.
func Fail(c *fiber.Ctx, status int, detail string) error {
	if detail == "" {
		detail = "error"
	}
	return c.Status(status).JSON(ErrorResponse{Detail: detail})
}
