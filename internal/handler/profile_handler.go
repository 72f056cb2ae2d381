package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skyframe/skyframe-api/internal/dto"
	"github.com/skyframe/skyframe-api/internal/service"
	"github.com/skyframe/skyframe-api/internal/utils"
)

// ProfileHandler wires the self-service profile endpoints.
type ProfileHandler struct {
	service service.ProfileService
	logger  zerolog.Logger
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(service service.ProfileService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger.With().Str("component", "profile_handler").Logger(),
	}
}

// Register attaches the session-guarded profile routes.
func (h *ProfileHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Put("", h.update)
	router.Delete("", h.delete)
}

// RegisterProvision attaches the provisioning hook. The route group is
// expected to carry the session guard plus the service-key guard, since
// only the auth provider's backend may call it.
func (h *ProfileHandler) RegisterProvision(router fiber.Router) {
	router.Post("", h.provision)
}

// RegisterPublic attaches routes that need no session.
func (h *ProfileHandler) RegisterPublic(router fiber.Router) {
	router.Get("/username-available", h.usernameAvailable)
}

func (h *ProfileHandler) get(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	profile, err := h.service.Get(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "profile not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch profile")
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *ProfileHandler) update(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.service.Update(c.Context(), userID, payload, requestMeta(c))
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendValidationError(c, validationDetails(err))
		case errors.Is(err, service.ErrUsernameTaken):
			return utils.SendError(c, fiber.StatusConflict, "username already taken")
		case errors.Is(err, service.ErrProfileNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "profile not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update profile")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update profile")
		}
	}

	return utils.SendSuccess(c, "profile updated", profile)
}

func (h *ProfileHandler) delete(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	if err := h.service.Delete(c.Context(), userID, requestMeta(c)); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "profile not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete profile")
	}

	return utils.SendSuccess(c, "profile deleted", nil)
}

// provision creates the profile row for a freshly registered identity; the
// identity comes from the verified token, not the body.
func (h *ProfileHandler) provision(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	profile, err := h.service.Provision(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileExists) {
			return utils.SendError(c, fiber.StatusConflict, "profile already exists")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to provision profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to provision profile")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "profile created", profile)
}

func (h *ProfileHandler) usernameAvailable(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Query("username"))
	if len(username) < 3 || len(username) > 20 {
		return utils.SendValidationError(c, map[string]string{
			"username": "must be between 3 and 20 characters",
		})
	}

	available := h.service.IsUsernameAvailable(c.Context(), username)

	return utils.SendSuccess(c, "availability checked", fiber.Map{
		"username":  username,
		"available": available,
	})
}
