package server

import (
	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// profileResponse is the public shape of a user profile. Skill associations
// are flattened to name lists.
type profileResponse struct {
	ID            uint                `json:"id"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Location      string              `json:"location"`
	Availability  models.Availability `json:"availability"`
	IsPublic      bool                `json:"isPublic"`
	Rating        float64             `json:"rating"`
	IsAdmin       bool                `json:"isAdmin"`
	IsBanned      bool                `json:"isBanned"`
	SkillsOffered []string            `json:"skillsOffered"`
	SkillsWanted  []string            `json:"skillsWanted"`
}

func toProfileResponse(u *models.User) profileResponse {
	return profileResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Location:      u.Location,
		Availability:  u.Availability,
		IsPublic:      u.IsPublic,
		Rating:        u.Rating,
		IsAdmin:       u.IsAdmin,
		IsBanned:      u.IsBanned,
		SkillsOffered: skillNameList(u.SkillsOffered),
		SkillsWanted:  skillNameList(u.SkillsWanted),
	}
}

func skillNameList(skills []models.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}

type updateProfileRequest struct {
	Name          *string              `json:"name"`
	Location      *string              `json:"location"`
	Availability  *models.Availability `json:"availability"`
	IsPublic      *bool                `json:"isPublic"`
	SkillsOffered *[]string            `json:"skillsOffered"`
	SkillsWanted  *[]string            `json:"skillsWanted"`
}

// GetMyProfile returns the caller's own profile.
//
//	@Summary	Get own profile
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	profileResponse
//	@Router		/api/users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	user, err := s.userService.GetProfile(c.UserContext(), userID, userID, false)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(toProfileResponse(user))
}

// UpdateMyProfile applies a partial update to the caller's own profile.
//
//	@Summary	Update own profile
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		updateProfileRequest	true	"fields to update"
//	@Success	200		{object}	profileResponse
//	@Failure	400		{object}	models.ErrorResponse
//	@Router		/api/users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return s.applyProfileUpdate(c, userID)
}

// GetUserProfile returns another member's profile. Private profiles are only
// visible to their owner and admins.
//
//	@Summary	Get a member profile
//	@Tags		users
//	@Produce	json
//	@Param		id	path		int	true	"user ID"
//	@Success	200	{object}	profileResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	viewerID := optionalUserID(c)
	targetID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	viewerIsAdmin := false
	if viewerID != 0 {
		viewerIsAdmin, err = s.isAdminByUserID(c.Context(), viewerID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
	}

	user, err := s.userService.GetProfile(c.UserContext(), viewerID, targetID, viewerIsAdmin)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(toProfileResponse(user))
}

// UpdateUserProfile updates a member profile. Only the owner or an admin may
// do this.
//
//	@Summary	Update a member profile
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int						true	"user ID"
//	@Param		body	body		updateProfileRequest	true	"fields to update"
//	@Success	200		{object}	profileResponse
//	@Failure	403		{object}	models.ErrorResponse
//	@Router		/api/users/{id} [put]
func (s *Server) UpdateUserProfile(c *fiber.Ctx) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if callerID != targetID {
		admin, err := s.isAdminByUserID(c.Context(), callerID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		if !admin {
			return models.RespondWithAppError(c, models.NewForbiddenError("You can only edit your own profile"))
		}
	}

	return s.applyProfileUpdate(c, targetID)
}

func (s *Server) applyProfileUpdate(c *fiber.Ctx, targetID uint) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		TargetID:      targetID,
		Name:          req.Name,
		Location:      req.Location,
		Availability:  req.Availability,
		IsPublic:      req.IsPublic,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(toProfileResponse(user))
}
