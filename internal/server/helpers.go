package server

import (
	"context"
	"strconv"

	"skillswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePagination reads limit/offset query params, clamping limit to
// maxPageSize and defaulting to defaultPageSize.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", defaultPageSize)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// parseID reads a positive integer path parameter.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + param + " parameter")
	}
	return uint(id), nil
}

// currentUserID reads the authenticated user ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) (uint, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return 0, models.NewUnauthorizedError("Missing or malformed token")
	}
	return userID, nil
}

// optionalUserID reads the user ID when the request carried a valid token;
// anonymous requests get zero.
func optionalUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// isAdminByUserID checks the admin flag on the stored user record rather
// than trusting anything carried in the token.
func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}
