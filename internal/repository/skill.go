package repository

import (
	"context"
	"strings"

	"skillswap/internal/cache"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

// SkillRepository defines persistence operations for the skill catalog.
type SkillRepository interface {
	// FindOrCreate returns the catalog entry for name, creating it lazily
	// on first declaration. Lookup is exact (case preserved).
	FindOrCreate(ctx context.Context, name string) (*models.Skill, error)
	FindOrCreateAll(ctx context.Context, names []string) ([]models.Skill, error)
	List(ctx context.Context) ([]models.Skill, error)
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository returns a new SkillRepository implementation.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) FindOrCreate(ctx context.Context, name string) (*models.Skill, error) {
	name = strings.TrimSpace(name)
	var skill models.Skill
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&skill, models.Skill{Name: name}).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateSkillsCatalog(ctx)
	return &skill, nil
}

func (r *skillRepository) FindOrCreateAll(ctx context.Context, names []string) ([]models.Skill, error) {
	skills := make([]models.Skill, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		skill, err := r.FindOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *skill)
	}
	return skills, nil
}

func (r *skillRepository) List(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	err := cache.Aside(ctx, cache.SkillsCatalogKey, &skills, cache.SkillsCatalogTTL, func() error {
		if err := r.db.WithContext(ctx).Order("name ASC").Find(&skills).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return skills, nil
}
