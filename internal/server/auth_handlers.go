package server

import (
	"log/slog"
	"strconv"
	"time"

	"skillswap/internal/cache"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type registerRequest struct {
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Password      string              `json:"password"`
	Location      string              `json:"location"`
	Availability  models.Availability `json:"availability"`
	SkillsOffered []string            `json:"skillsOffered"`
	SkillsWanted  []string            `json:"skillsWanted"`
	IsPublic      *bool               `json:"isPublic"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string          `json:"token"`
	User  profileResponse `json:"user"`
}

// Register creates a new account and returns a token for it.
//
//	@Summary	Register a new member
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		registerRequest	true	"registration fields"
//	@Success	201		{object}	authResponse
//	@Failure	400		{object}	models.ErrorResponse
//	@Router		/api/auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Location:      req.Location,
		Availability:  req.Availability,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
		IsPublic:      req.IsPublic,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		slog.Uint64("user_id", uint64(user.ID)))
	return c.Status(fiber.StatusCreated).JSON(authResponse{
		Token: token,
		User:  toProfileResponse(user),
	})
}

// Login authenticates an existing member.
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		loginRequest	true	"credentials"
//	@Success	200		{object}	authResponse
//	@Failure	401		{object}	models.ErrorResponse
//	@Failure	403		{object}	models.ErrorResponse
//	@Router		/api/auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}

	return c.JSON(authResponse{Token: token, User: toProfileResponse(user)})
}

// Logout revokes the presented token by blacklisting its jti until the
// token would have expired anyway. Without Redis this is a no-op; the
// client still discards the token.
//
//	@Summary	Log out
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	map[string]string
//	@Router		/api/auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	jti, _ := c.Locals("jti").(string)
	exp, _ := c.Locals("tokenExp").(time.Time)

	if jti != "" {
		if rdb := cache.GetClient(); rdb != nil {
			ttl := time.Until(exp)
			if ttl <= 0 {
				ttl = time.Minute
			}
			if err := rdb.Set(c.Context(), "blacklist:"+jti, "1", ttl).Err(); err != nil {
				middleware.Logger.WarnContext(c.UserContext(), "failed to blacklist token",
					slog.String("error", err.Error()))
			}
		}
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"email": user.Email,
		"name":  user.Name,
		"iss":   tokenIssuer,
		"aud":   tokenAudience,
		"exp":   now.Add(tokenLifetime).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"jti":   uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.Config.JWTSecret))
}
