package server

import (
	"context"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers searches the public member directory. The "skill" parameter is
// an alias for "q" kept for older clients; "skills" may repeat and narrows
// to members offering every named skill.
//
//	@Summary	Search the member directory
//	@Tags		search
//	@Produce	json
//	@Param		q				query		string	false	"matches name, location, or skill names"
//	@Param		availability	query		string	false	"exact availability filter"
//	@Param		skills			query		[]string	false	"skills the member must offer (repeatable)"
//	@Param		limit			query		int		false	"page size, max 100"
//	@Param		offset			query		int		false	"page offset"
//	@Success	200				{array}		profileResponse
//	@Failure	400				{object}	models.ErrorResponse
//	@Router		/api/search [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		query = c.Query("skill")
	}

	availability := c.Query("availability")
	if availability == "all" {
		availability = ""
	}
	if availability != "" && !models.ValidAvailability(models.Availability(availability)) {
		return models.RespondWithAppError(c, models.NewValidationError("Unknown availability value"))
	}

	var skills []string
	if args := c.Context().QueryArgs().PeekMulti("skills"); len(args) > 0 {
		for _, arg := range args {
			if len(arg) > 0 {
				skills = append(skills, string(arg))
			}
		}
	}

	limit, offset := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	users, err := s.userService.Search(ctx, repository.SearchParams{
		Query:        query,
		Availability: models.Availability(availability),
		Skills:       skills,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	results := make([]profileResponse, 0, len(users))
	for i := range users {
		results = append(results, toProfileResponse(&users[i]))
	}
	return c.JSON(results)
}
