package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skyframe/skyframe-api/internal/service"
	"github.com/skyframe/skyframe-api/internal/utils"
)

// UsersHandler serves the public user directory.
type UsersHandler struct {
	service service.DirectoryService
	logger  zerolog.Logger
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(service service.DirectoryService, logger zerolog.Logger) *UsersHandler {
	return &UsersHandler{
		service: service,
		logger:  logger.With().Str("component", "users_handler").Logger(),
	}
}

// Register attaches the public directory routes.
func (h *UsersHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *UsersHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	if limit == 0 {
		limit = 50
	}

	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	items, pagination, err := h.service.List(c.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPaging) {
			return utils.SendError(c, fiber.StatusBadRequest, "limit must be 1-100 and offset non-negative")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list public profiles")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return utils.SendSuccess(c, "users retrieved", fiber.Map{
		"items":      items,
		"pagination": pagination,
	})
}
