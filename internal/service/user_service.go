package service

import (
	"context"
	"strings"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService provides user directory business logic.
type UserService struct {
	userRepo  repository.UserRepository
	skillRepo repository.SkillRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, skillRepo repository.SkillRepository) *UserService {
	return &UserService{userRepo: userRepo, skillRepo: skillRepo}
}

// RegisterInput carries the fields for a new member registration.
type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	Location      string
	Availability  models.Availability
	SkillsOffered []string
	SkillsWanted  []string
	IsPublic      *bool
}

// Register creates a new member. Declared skills are added to the catalog
// lazily. The email uniqueness race is closed by the DB unique index; a
// duplicate insert surfaces as a validation error either way.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Name, email, and password are required")
	}
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	availability := in.Availability
	if availability == "" {
		availability = models.AvailabilityFlexible
	}
	if !models.ValidAvailability(availability) {
		return nil, models.NewValidationError("Unknown availability value")
	}

	for _, name := range append(append([]string{}, in.SkillsOffered...), in.SkillsWanted...) {
		if err := validation.ValidateSkillName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("User with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Password:     string(hashed),
		Location:     in.Location,
		Availability: availability,
		IsPublic:     isPublic,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	offered, err := s.skillRepo.FindOrCreateAll(ctx, in.SkillsOffered)
	if err != nil {
		return nil, err
	}
	wanted, err := s.skillRepo.FindOrCreateAll(ctx, in.SkillsWanted)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.ReplaceSkills(ctx, user, offered, wanted); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies the credentials and returns the matching user.
// Unknown email and wrong password produce the same error message so the
// response does not reveal which one failed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if user.IsBanned {
		return nil, models.NewForbiddenError("Account is banned")
	}

	return user, nil
}

// GetProfile returns the profile visible to the viewer. Private profiles are
// indistinguishable from missing ones except to their owner and admins.
func (s *UserService) GetProfile(ctx context.Context, viewerID, targetID uint, viewerIsAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !user.IsPublic && user.ID != viewerID && !viewerIsAdmin {
		return nil, models.NewNotFoundError("User", targetID)
	}
	return user, nil
}

// UpdateProfileInput carries the editable profile fields. Nil pointers leave
// the current value untouched; skill slices are full replacements.
type UpdateProfileInput struct {
	TargetID      uint
	Name          *string
	Location      *string
	Availability  *models.Availability
	IsPublic      *bool
	SkillsOffered *[]string
	SkillsWanted  *[]string
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	// Validate every field before the first write so a rejected update
	// leaves no partial state behind.
	if in.Name != nil {
		if err := validation.ValidateName(*in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if in.Availability != nil && !models.ValidAvailability(*in.Availability) {
		return nil, models.NewValidationError("Unknown availability value")
	}

	replaceSkills := in.SkillsOffered != nil || in.SkillsWanted != nil
	offeredNames := skillNames(user.SkillsOffered)
	if in.SkillsOffered != nil {
		offeredNames = *in.SkillsOffered
	}
	wantedNames := skillNames(user.SkillsWanted)
	if in.SkillsWanted != nil {
		wantedNames = *in.SkillsWanted
	}
	if replaceSkills {
		for _, name := range append(append([]string{}, offeredNames...), wantedNames...) {
			if err := validation.ValidateSkillName(name); err != nil {
				return nil, models.NewValidationError(err.Error())
			}
		}
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Location != nil {
		user.Location = *in.Location
	}
	if in.Availability != nil {
		user.Availability = *in.Availability
	}
	if in.IsPublic != nil {
		user.IsPublic = *in.IsPublic
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if replaceSkills {
		offered, err := s.skillRepo.FindOrCreateAll(ctx, offeredNames)
		if err != nil {
			return nil, err
		}
		wanted, err := s.skillRepo.FindOrCreateAll(ctx, wantedNames)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.ReplaceSkills(ctx, user, offered, wanted); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// Search runs a directory search over public profiles.
func (s *UserService) Search(ctx context.Context, params repository.SearchParams) ([]models.User, error) {
	middleware.SearchQueries.Inc()
	return s.userRepo.Search(ctx, params)
}

// ListUsers returns every user including private and banned profiles.
// Intended for the admin surface only.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// SetBanned flips the ban flag on a user.
func (s *UserService) SetBanned(ctx context.Context, targetID uint, banned bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	user.IsBanned = banned
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAdmin flips the admin flag on a user.
func (s *UserService) SetAdmin(ctx context.Context, targetID uint, isAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func skillNames(skills []models.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}
