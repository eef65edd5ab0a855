package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/service"
	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// AuthHandler handles dashboard login and account bootstrap.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated admin routes. loginGuards run before the login handler.
func (h *AuthHandler) RegisterPublic(router fiber.Router, loginGuards ...fiber.Handler) {
	router.Get("/registration-status", h.registrationStatus)
	router.Post("/seed-admin", h.register)
	router.Post("/login", append(loginGuards, h.login)...)
}

// RegisterProtected wires routes requiring a valid token.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/me", h.me)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	token, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return respondError(c, h.logger, err, "login failed")
	}
	return utils.OK(c, token)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	return utils.OK(c, dto.MeResponse{Username: actor.Username, Role: actor.Role})
}

func (h *AuthHandler) registrationStatus(c *fiber.Ctx) error {
	status, err := h.service.RegistrationStatus(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to read registration status")
	}
	return utils.OK(c, status)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.QueryParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	resp, err := h.service.Register(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "admin registration failed")
	}
	return utils.OK(c, resp)
}
