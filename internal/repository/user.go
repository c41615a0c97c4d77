// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"skillswap/internal/cache"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

// SearchParams describes a directory search over public profiles.
type SearchParams struct {
	// Query is matched case-insensitively as a substring of the name,
	// location, and every skill name in both skill sets.
	Query string
	// Availability must match the profile tag exactly; empty skips the filter.
	Availability models.Availability
	// Skills is an AND-conjunction of exact offered-skill memberships.
	Skills []string
	Limit  int
	Offset int
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	ReplaceSkills(ctx context.Context, user *models.User, offered, wanted []models.Skill) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Search(ctx context.Context, params SearchParams) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// cachedUser restores the password hash that the user's own JSON encoding
// deliberately drops. It exists only for the cache round-trip and is never
// sent to clients.
type cachedUser struct {
	models.User
	Password string `json:"password"`
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var entry cachedUser
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &entry, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("SkillsOffered").
			Preload("SkillsWanted").
			First(&entry.User, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		entry.Password = entry.User.Password
		return nil
	})

	if err != nil {
		return nil, err
	}
	user := entry.User
	user.Password = entry.Password
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("SkillsOffered").
		Preload("SkillsWanted").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User with this email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// Update persists the scalar profile columns. The password column is never
// written here: no profile operation edits the credential, and the struct
// may have lost the hash on a cache round-trip.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit("Password", "SkillsOffered", "SkillsWanted").Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) ReplaceSkills(ctx context.Context, user *models.User, offered, wanted []models.Skill) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(user).Association("SkillsOffered").Replace(offered); err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Model(user).Association("SkillsWanted").Replace(wanted); err != nil {
		return models.NewInternalError(err)
	}
	user.SkillsOffered = offered
	user.SkillsWanted = wanted
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Preload("SkillsOffered").
		Preload("SkillsWanted").
		Order("id ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// skillMatchSubquery selects user ids whose offered or wanted skills match
// the LIKE pattern. The join tables are the many2many tables GORM manages.
const skillMatchSubquery = `users.id IN (
	SELECT uso.user_id FROM user_skills_offered uso
	JOIN skills s ON s.id = uso.skill_id WHERE LOWER(s.name) LIKE ?
	UNION
	SELECT usw.user_id FROM user_skills_wanted usw
	JOIN skills s ON s.id = usw.skill_id WHERE LOWER(s.name) LIKE ?
)`

const offeredSkillSubquery = `users.id IN (
	SELECT uso.user_id FROM user_skills_offered uso
	JOIN skills s ON s.id = uso.skill_id WHERE LOWER(s.name) = ?
)`

func (r *userRepository) Search(ctx context.Context, params SearchParams) ([]models.User, error) {
	q := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("users.is_public = ?", true)

	if params.Query != "" {
		needle := "%" + strings.ToLower(params.Query) + "%"
		q = q.Where(
			"LOWER(users.name) LIKE ? OR LOWER(users.location) LIKE ? OR "+skillMatchSubquery,
			needle, needle, needle, needle,
		)
	}

	if params.Availability != "" {
		q = q.Where("users.availability = ?", params.Availability)
	}

	for _, skill := range params.Skills {
		q = q.Where(offeredSkillSubquery, strings.ToLower(skill))
	}

	var users []models.User
	if err := q.
		Preload("SkillsOffered").
		Preload("SkillsWanted").
		Order("users.rating DESC, users.id ASC").
		Limit(params.Limit).Offset(params.Offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
