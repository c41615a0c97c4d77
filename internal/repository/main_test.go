package repository

import (
	"os"
	"testing"

	"skillswap/internal/database"
	"skillswap/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// newTestDB opens a fresh in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// createUser persists a user with the given offered and wanted skill names.
func createUser(t *testing.T, db *gorm.DB, user models.User, offered, wanted []string) models.User {
	t.Helper()
	if user.Password == "" {
		user.Password = "x"
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	user.SkillsOffered = findOrCreateSkills(t, db, offered)
	user.SkillsWanted = findOrCreateSkills(t, db, wanted)
	if err := db.Model(&user).Association("SkillsOffered").Replace(user.SkillsOffered); err != nil {
		t.Fatalf("failed to attach offered skills: %v", err)
	}
	if err := db.Model(&user).Association("SkillsWanted").Replace(user.SkillsWanted); err != nil {
		t.Fatalf("failed to attach wanted skills: %v", err)
	}
	return user
}

func findOrCreateSkills(t *testing.T, db *gorm.DB, names []string) []models.Skill {
	t.Helper()
	skills := make([]models.Skill, 0, len(names))
	for _, name := range names {
		var skill models.Skill
		if err := db.Where("name = ?", name).FirstOrCreate(&skill, models.Skill{Name: name}).Error; err != nil {
			t.Fatalf("failed to create skill %q: %v", name, err)
		}
		skills = append(skills, skill)
	}
	return skills
}
