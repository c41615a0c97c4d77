// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"skillswap/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// catalog is the demo skill pool. Every seeded user offers and wants a
// handful of these.
var catalog = []string{
	"JavaScript", "TypeScript", "Python", "Go", "Rust", "SQL",
	"Photography", "Video Editing", "Graphic Design", "UI Design",
	"Guitar", "Piano", "Singing", "Drums",
	"Spanish", "French", "German", "Japanese",
	"Cooking", "Baking", "Gardening", "Woodworking",
	"Yoga", "Personal Training", "Public Speaking", "Creative Writing",
}

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumSwaps    int
	ShouldClean bool
	// SkipBcrypt stores a plaintext password instead of a hash. Dev fast
	// mode only; login will not work against these users.
	SkipBcrypt bool
}

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		opts: opts,
		r:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run executes the full seeding pass: skills, users, then swap requests.
func (s *Seeder) Run(ctx context.Context) error {
	if s.opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	skills, err := s.CreateSkills(ctx)
	if err != nil {
		return fmt.Errorf("skill seeding failed: %w", err)
	}

	users, err := s.CreateUsers(ctx, s.opts.NumUsers, skills)
	if err != nil {
		return fmt.Errorf("user seeding failed: %w", err)
	}

	if err := s.CreateSwapRequests(ctx, users, s.opts.NumSwaps); err != nil {
		return fmt.Errorf("swap seeding failed: %w", err)
	}

	log.Printf("Seeded %d users and up to %d swap requests", len(users), s.opts.NumSwaps)
	return nil
}

// ClearAll truncates all seeded tables. Join tables go first so foreign keys
// do not block the deletes.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := []string{
		"swap_requests",
		"user_skills_offered",
		"user_skills_wanted",
		"skills",
		"users",
	}
	for _, table := range tables {
		if err := s.db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateSkills inserts the demo skill catalog.
func (s *Seeder) CreateSkills(ctx context.Context) ([]models.Skill, error) {
	skills := make([]models.Skill, 0, len(catalog))
	for _, name := range catalog {
		skill := models.Skill{Name: name}
		if err := s.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&skill).Error; err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, nil
}

// CreateUsers inserts count users with random skill sets. Every seeded user
// has the password "password123". Roughly one in ten profiles is private.
func (s *Seeder) CreateUsers(ctx context.Context, count int, skills []models.Skill) ([]models.User, error) {
	password := "password123"
	if !s.opts.SkipBcrypt {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		password = string(hashed)
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Name:         gofakeit.Name(),
			Email:        fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password:     password,
			Location:     gofakeit.City(),
			Availability: models.Availabilities[s.r.Intn(len(models.Availabilities))],
			IsPublic:     s.r.Intn(10) != 0,
			Rating:       float64(s.r.Intn(41)) / 10.0,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}

		offered := s.pickSkills(skills, 1+s.r.Intn(3))
		wanted := s.pickSkills(skills, 1+s.r.Intn(3))
		if err := s.db.WithContext(ctx).Model(&user).Association("SkillsOffered").Replace(offered); err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(&user).Association("SkillsWanted").Replace(wanted); err != nil {
			return nil, err
		}
		user.SkillsOffered = offered
		user.SkillsWanted = wanted
		users = append(users, user)
	}
	return users, nil
}

// CreateSwapRequests inserts up to count swap requests between random user
// pairs. Pairs where the sender has nothing to offer are skipped.
func (s *Seeder) CreateSwapRequests(ctx context.Context, users []models.User, count int) error {
	if len(users) < 2 {
		return nil
	}
	statuses := []models.SwapStatus{
		models.SwapStatusPending, models.SwapStatusPending,
		models.SwapStatusAccepted, models.SwapStatusRejected,
	}
	for i := 0; i < count; i++ {
		sender := users[s.r.Intn(len(users))]
		receiver := users[s.r.Intn(len(users))]
		if sender.ID == receiver.ID || len(sender.SkillsOffered) == 0 || len(receiver.SkillsOffered) == 0 {
			continue
		}
		swap := models.SwapRequest{
			SenderID:         sender.ID,
			ReceiverID:       receiver.ID,
			OfferedSkillID:   sender.SkillsOffered[s.r.Intn(len(sender.SkillsOffered))].ID,
			RequestedSkillID: receiver.SkillsOffered[s.r.Intn(len(receiver.SkillsOffered))].ID,
			Message:          gofakeit.Sentence(8),
			Status:           statuses[s.r.Intn(len(statuses))],
		}
		if err := s.db.WithContext(ctx).Create(&swap).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) pickSkills(skills []models.Skill, n int) []models.Skill {
	perm := s.r.Perm(len(skills))
	if n > len(skills) {
		n = len(skills)
	}
	picked := make([]models.Skill, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, skills[idx])
	}
	return picked
}
