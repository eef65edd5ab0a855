package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/middleware"
	"github.com/noah-isme/bioscizone-api/internal/service"
	"github.com/noah-isme/bioscizone-api/internal/utils"
)

const detailInternal = "Internal server error"

// serviceErrors maps service sentinels to their HTTP status and client-facing detail.
var serviceErrors = []struct {
	err    error
	status int
	detail string
}{
	{service.ErrBuddyNotFound, fiber.StatusNotFound, "Buddy not found"},
	{service.ErrArticleNotFound, fiber.StatusNotFound, "Article not found"},
	{service.ErrFeedbackNotFound, fiber.StatusNotFound, "Feedback not found"},
	{service.ErrAdminNotFound, fiber.StatusNotFound, "Admin not found"},
	{service.ErrSettingNotFound, fiber.StatusNotFound, "Setting not found"},
	{service.ErrSettingKeyInvalid, fiber.StatusBadRequest, "Invalid setting key"},
	{service.ErrUsernameTaken, fiber.StatusBadRequest, "Username already exists"},
	{service.ErrCannotDeleteSelf, fiber.StatusBadRequest, "Cannot delete yourself"},
	{service.ErrRegistrationDisabled, fiber.StatusBadRequest, "Registration is disabled. Please contact a system administrator."},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "Incorrect username or password"},
	{service.ErrEmptyQuery, fiber.StatusBadRequest, "Search query is required"},
	{service.ErrFeedbackSpam, fiber.StatusBadRequest, "Submission rejected"},
	{service.ErrFeedbackDuplicate, fiber.StatusTooManyRequests, "Duplicate submission, please wait before sending again"},
	{service.ErrSeedDisabled, fiber.StatusForbidden, "Seeding disabled"},
	{service.ErrSeedUnauthorized, fiber.StatusForbidden, "Invalid seed token"},
	{service.ErrUploadMissing, fiber.StatusBadRequest, "File is required"},
	{service.ErrUploadTooLarge, fiber.StatusRequestEntityTooLarge, "File exceeds maximum allowed size"},
	{service.ErrUploadTypeNotAllowed, fiber.StatusBadRequest, "File type not allowed"},
	{service.ErrUploadScanFailed, fiber.StatusBadRequest, "File scanning failed"},
	{service.ErrUploadStorageUnavailable, fiber.StatusServiceUnavailable, "File storage is not configured"},
}

// respondError writes the mapped error body; unknown errors are logged and hidden behind a 500.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error, msg string) error {
	for _, mapping := range serviceErrors {
		if errors.Is(err, mapping.err) {
			return utils.Fail(c, mapping.status, mapping.detail)
		}
	}
	if isValidationError(err) {
		return utils.Fail(c, fiber.StatusBadRequest, validationDetail(err))
	}
	requestLogger(logger, c).Error().Err(err).Msg(msg)
	return utils.Fail(c, fiber.StatusInternalServerError, detailInternal)
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Params("id")), 10, 64)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return uint(value), nil
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	username, _ := c.Locals(middleware.LocalsUsername).(string)
	role, _ := c.Locals(middleware.LocalsRole).(string)
	return service.Actor{Username: username, Role: role}
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if requestID := middleware.GetRequestID(c); requestID != "" {
			logger = base.With().Str("request_id", requestID).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// validationDetail describes the first failing field, e.g. "email: must be a valid email".
func validationDetail(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "Invalid request payload"
	}
	field := validationErrors[0]
	switch field.Tag() {
	case "required":
		return fmt.Sprintf("%s: field required", field.Field())
	case "email":
		return fmt.Sprintf("%s: must be a valid email", field.Field())
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s]", field.Field(), field.Param())
	case "max":
		return fmt.Sprintf("%s: must be at most %s characters", field.Field(), field.Param())
	case "min":
		return fmt.Sprintf("%s: must be at least %s characters", field.Field(), field.Param())
	default:
		return fmt.Sprintf("%s: invalid value", field.Field())
	}
}
