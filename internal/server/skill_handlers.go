package server

import (
	"skillswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListSkills returns the skill catalog sorted by name. Public; no auth.
//
//	@Summary	List the skill catalog
//	@Tags		skills
//	@Produce	json
//	@Success	200	{array}	models.Skill
//	@Router		/api/skills [get]
func (s *Server) ListSkills(c *fiber.Ctx) error {
	skills, err := s.skillRepo.List(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(skills)
}
