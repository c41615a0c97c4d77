package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	_ "skillswap/docs"
)

const (
	tokenIssuer   = "skillswap-api"
	tokenAudience = "skillswap-client"
	tokenLifetime = 24 * time.Hour
)

// Server wires the HTTP surface to the service layer.
type Server struct {
	App    *fiber.App
	Config *config.Config
	DB     *gorm.DB

	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo  repository.UserRepository
	skillRepo repository.SkillRepository
	swapRepo  repository.SwapRepository

	userService *service.UserService
	swapService *service.SwapService
	notifier    *notifications.Notifier
}

// NewServer builds a server from config, connecting to Postgres and Redis.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db), nil
}

// NewServerWithDeps builds a server around an existing DB handle. Tests use
// this with an in-memory sqlite handle and a miniredis client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap API",
		ErrorHandler: errorHandler,
	})

	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	notifier := notifications.NewNotifier(cache.GetClient())

	s := &Server{
		App:            app,
		Config:         cfg,
		DB:             db,
		promMiddleware: middleware.InitMetrics("skillswap"),
		userRepo:       userRepo,
		skillRepo:      skillRepo,
		swapRepo:       swapRepo,
		userService:    service.NewUserService(userRepo, skillRepo),
		swapService:    service.NewSwapService(swapRepo, userRepo, notifier),
		notifier:       notifier,
	}

	s.SetupMiddleware()
	s.SetupRoutes()
	return s
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(models.ErrorResponse{
		Error: err.Error(),
		Code:  "INTERNAL_ERROR",
	})
}

// SetupMiddleware installs the shared middleware stack. Order matters:
// recover first, then request identity, then everything that logs or counts.
func (s *Server) SetupMiddleware() {
	s.App.Use(recover.New())
	s.App.Use(requestid.New())
	s.App.Use(middleware.ContextMiddleware())
	s.App.Use(middleware.TracingMiddleware())
	if s.promMiddleware != nil {
		s.App.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}
	s.App.Use(helmet.New())
	s.App.Use(middleware.StructuredLogger())
	s.App.Use(cors.New(cors.Config{
		AllowOrigins: s.Config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	s.App.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return s.Config.Env == "test" || s.Config.Env == "development"
		},
	}))
}

// SetupRoutes registers the HTTP routes.
func (s *Server) SetupRoutes() {
	s.App.Get("/health", s.HealthCheck)
	s.App.Get("/health/live", s.LivenessCheck)
	s.App.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(s.App, "/metrics")
	}
	s.App.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "SkillSwap Backend Metrics Dashboard",
	}))
	s.App.Get("/swagger/*", swagger.HandlerDefault)

	api := s.App.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(cache.GetClient(), 10, time.Minute, "auth"), s.Register)
	auth.Post("/login", middleware.RateLimit(cache.GetClient(), 10, time.Minute, "auth"), s.Login)
	auth.Post("/logout", s.AuthRequired, s.Logout)

	api.Get("/skills", s.ListSkills)
	api.Get("/search", s.SearchUsers)

	users := api.Group("/users")
	users.Get("/me", s.AuthRequired, s.GetMyProfile)
	users.Put("/me", s.AuthRequired, s.UpdateMyProfile)
	users.Get("/:id", s.AuthOptional, s.GetUserProfile)
	users.Put("/:id", s.AuthRequired, s.UpdateUserProfile)

	swaps := api.Group("/swap-requests", s.AuthRequired)
	swaps.Post("/", s.CreateSwapRequest)
	swaps.Get("/", s.GetSwapRequests)
	swaps.Put("/:id", s.UpdateSwapRequest)

	admin := api.Group("/admin", s.AuthRequired, s.AdminRequired)
	admin.Get("/users", s.AdminListUsers)
	admin.Put("/users/:id/ban", s.AdminBanUser)
	admin.Put("/users/:id/unban", s.AdminUnbanUser)
	admin.Put("/users/:id/promote", s.AdminPromoteUser)
	admin.Put("/users/:id/demote", s.AdminDemoteUser)
}

// HealthCheck reports overall service health.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "skillswap",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// ReadinessCheck reports whether the backing stores are reachable. Redis is
// optional; the DB is not.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	checks := fiber.Map{}
	ready := true

	sqlDB, err := s.DB.DB()
	if err != nil || sqlDB.PingContext(c.Context()) != nil {
		checks["database"] = "unreachable"
		ready = false
	} else {
		checks["database"] = "ok"
	}

	if rdb := cache.GetClient(); rdb != nil {
		if err := rdb.Ping(c.Context()).Err(); err != nil {
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	status := fiber.StatusOK
	if !ready {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"ready": ready, "checks": checks})
}

// AuthRequired validates the Bearer token and stores the caller identity in
// the request locals.
func (s *Server) AuthRequired(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return models.RespondWithAppError(c, models.NewUnauthorizedError("Missing or malformed token"))
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.Config.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil || !token.Valid {
		return models.RespondWithAppError(c, models.NewUnauthorizedError("Invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.RespondWithAppError(c, models.NewUnauthorizedError("Invalid token claims"))
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return models.RespondWithAppError(c, models.NewUnauthorizedError("Invalid token subject"))
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		if rdb := cache.GetClient(); rdb != nil {
			if exists, err := rdb.Exists(c.Context(), "blacklist:"+jti).Result(); err == nil && exists > 0 {
				return models.RespondWithAppError(c, models.NewUnauthorizedError("Token has been revoked"))
			}
		}
		c.Locals("jti", jti)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.Locals("tokenExp", exp.Time)
	}

	// A token outlives a ban unless we check the account on every request.
	user, lookupErr := s.userRepo.GetByID(c.Context(), uint(userID))
	if lookupErr != nil {
		var appErr *models.AppError
		if errors.As(lookupErr, &appErr) && appErr.Code == "NOT_FOUND" {
			return models.RespondWithAppError(c, models.NewUnauthorizedError("Invalid or expired token"))
		}
		// A store failure is not an auth failure.
		return models.RespondWithAppError(c, lookupErr)
	}
	if user.IsBanned {
		return models.RespondWithAppError(c, models.NewForbiddenError("Account is banned"))
	}

	c.Locals("userID", uint(userID))
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
	c.SetUserContext(ctx)
	return c.Next()
}

// AuthOptional validates the Bearer token when one is supplied and lets
// anonymous requests through. Handlers behind it treat a missing identity
// as a stranger viewing the resource.
func (s *Server) AuthOptional(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	return s.AuthRequired(c)
}

// Shutdown releases the server's backing resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if rdb := cache.GetClient(); rdb != nil {
		if err := rdb.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AdminRequired gates admin routes. Must run after AuthRequired.
func (s *Server) AdminRequired(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return models.RespondWithAppError(c, models.NewUnauthorizedError("Missing or malformed token"))
	}
	admin, err := s.isAdminByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if !admin {
		return models.RespondWithAppError(c, models.NewForbiddenError("Admin access required"))
	}
	return c.Next()
}
