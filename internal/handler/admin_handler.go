package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skyframe/skyframe-api/internal/dto"
	"github.com/skyframe/skyframe-api/internal/repository"
	"github.com/skyframe/skyframe-api/internal/service"
	"github.com/skyframe/skyframe-api/internal/utils"
)

// AdminHandler exposes the privileged user-management endpoint. Requests
// carry an action discriminator; the matching typed payload is decoded and
// validated before anything is dispatched.
type AdminHandler struct {
	service  service.AdminService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(service service.AdminService, validate *validator.Validate, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service:  service,
		validate: validate,
		logger:   logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the admin dispatch route. The router group is expected
// to carry the session and admin-role guards already.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Post("", h.dispatch)
}

func (h *AdminHandler) dispatch(c *fiber.Ctx) error {
	var envelope dto.AdminActionEnvelope
	if err := c.BodyParser(&envelope); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	switch envelope.Action {
	case dto.AdminActionUpdateRole:
		return h.updateRole(c)
	case dto.AdminActionGetUsers:
		return h.getUsers(c)
	case dto.AdminActionGetStats:
		return h.getStats(c)
	case dto.AdminActionSearchUsers:
		return h.searchUsers(c)
	case dto.AdminActionGetActivity:
		return h.getActivity(c)
	default:
		return utils.SendError(c, fiber.StatusBadRequest, "invalid action")
	}
}

func (h *AdminHandler) updateRole(c *fiber.Ctx) error {
	var payload dto.UpdateRoleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.UpdateRole(c.Context(), actorFromContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendValidationError(c, validationDetails(err))
		case errors.Is(err, service.ErrSelfRoleChange):
			return utils.SendError(c, fiber.StatusBadRequest, "own role cannot be changed")
		case errors.Is(err, service.ErrInvalidRole):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid role")
		case errors.Is(err, service.ErrTargetNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "target user not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update role")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update role")
		}
	}

	return utils.SendSuccess(c, "role updated", result)
}

func (h *AdminHandler) getUsers(c *fiber.Ctx) error {
	var payload dto.GetUsersRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendValidationError(c, validationDetails(err))
	}

	limit := 50
	if payload.Limit != nil {
		limit = *payload.Limit
	}
	offset := 0
	if payload.Offset != nil {
		offset = *payload.Offset
	}

	result, err := h.service.ListUsers(c.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPaging) {
			return utils.SendError(c, fiber.StatusBadRequest, "limit must be 1-100 and offset non-negative")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list users")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return utils.SendSuccess(c, "users retrieved", result)
}

func (h *AdminHandler) getStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute user stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute user stats")
	}

	return utils.SendSuccess(c, "stats retrieved", stats)
}

func (h *AdminHandler) searchUsers(c *fiber.Ctx) error {
	var payload dto.SearchUsersRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendValidationError(c, validationDetails(err))
	}

	limit := 20
	if payload.Limit != nil {
		limit = *payload.Limit
	}

	items, err := h.service.SearchUsers(c.Context(), payload.Query, limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySearchTerm):
			return utils.SendError(c, fiber.StatusBadRequest, "search query must not be empty")
		case errors.Is(err, service.ErrInvalidPaging):
			return utils.SendError(c, fiber.StatusBadRequest, "limit must be 1-100")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to search users")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to search users")
		}
	}

	return utils.SendSuccess(c, "users retrieved", fiber.Map{"items": items, "count": len(items)})
}

func (h *AdminHandler) getActivity(c *fiber.Ctx) error {
	var payload dto.GetActivityRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendValidationError(c, validationDetails(err))
	}

	limit := 50
	if payload.Limit != nil {
		limit = *payload.Limit
	}
	offset := 0
	if payload.Offset != nil {
		offset = *payload.Offset
	}
	if limit < 1 || limit > 100 || offset < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "limit must be 1-100 and offset non-negative")
	}

	result, err := h.service.ListActivity(c.Context(), repository.ActivityLogFilter{
		UserID: payload.UserID,
		Action: payload.Action,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity")
	}

	return utils.SendSuccess(c, "activity retrieved", result)
}
