package server

import (
	"log/slog"

	"skillswap/internal/middleware"
	"skillswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminListUsers lists every account, including private and banned ones.
//
//	@Summary	List all users
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		limit	query		int	false	"page size, max 100"
//	@Param		offset	query		int	false	"page offset"
//	@Success	200		{array}		profileResponse
//	@Failure	403		{object}	models.ErrorResponse
//	@Router		/api/admin/users [get]
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	users, err := s.userService.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	results := make([]profileResponse, 0, len(users))
	for i := range users {
		results = append(results, toProfileResponse(&users[i]))
	}
	return c.JSON(results)
}

// AdminBanUser bans an account.
//
//	@Summary	Ban a user
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"user ID"
//	@Success	200	{object}	profileResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/admin/users/{id}/ban [put]
func (s *Server) AdminBanUser(c *fiber.Ctx) error {
	return s.setBanFlag(c, true)
}

// AdminUnbanUser lifts a ban.
//
//	@Summary	Unban a user
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"user ID"
//	@Success	200	{object}	profileResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/admin/users/{id}/unban [put]
func (s *Server) AdminUnbanUser(c *fiber.Ctx) error {
	return s.setBanFlag(c, false)
}

// AdminPromoteUser grants admin rights.
//
//	@Summary	Promote a user to admin
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"user ID"
//	@Success	200	{object}	profileResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/admin/users/{id}/promote [put]
func (s *Server) AdminPromoteUser(c *fiber.Ctx) error {
	return s.setAdminFlag(c, true)
}

// AdminDemoteUser revokes admin rights.
//
//	@Summary	Demote an admin
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"user ID"
//	@Success	200	{object}	profileResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/admin/users/{id}/demote [put]
func (s *Server) AdminDemoteUser(c *fiber.Ctx) error {
	return s.setAdminFlag(c, false)
}

func (s *Server) setBanFlag(c *fiber.Ctx, banned bool) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	callerID, _ := currentUserID(c)
	if banned && targetID == callerID {
		return models.RespondWithAppError(c, models.NewValidationError("You cannot ban yourself"))
	}

	user, err := s.userService.SetBanned(c.UserContext(), targetID, banned)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "ban flag changed",
		slog.Uint64("target_id", uint64(targetID)),
		slog.Bool("banned", banned),
		slog.Uint64("admin_id", uint64(callerID)))
	return c.JSON(toProfileResponse(user))
}

func (s *Server) setAdminFlag(c *fiber.Ctx, isAdmin bool) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	callerID, _ := currentUserID(c)
	if !isAdmin && targetID == callerID {
		return models.RespondWithAppError(c, models.NewValidationError("You cannot demote yourself"))
	}

	user, err := s.userService.SetAdmin(c.UserContext(), targetID, isAdmin)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "admin flag changed",
		slog.Uint64("target_id", uint64(targetID)),
		slog.Bool("is_admin", isAdmin),
		slog.Uint64("admin_id", uint64(callerID)))
	return c.JSON(toProfileResponse(user))
}
