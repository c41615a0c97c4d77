package repository

import (
	"context"
	"errors"
	"testing"

	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &models.User{Name: "Maria", Email: "maria@example.com", Password: "x"}
	require.NoError(t, repo.Create(ctx, first))

	dup := &models.User{Name: "Other Maria", Email: "maria@example.com", Password: "x"}
	err := repo.Create(ctx, dup)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUserRepositoryGetByEmailMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUserRepositoryGetByIDPreloadsSkills(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	created := createUser(t, db, models.User{Name: "Maria", Email: "maria@example.com"},
		[]string{"Guitar"}, []string{"Spanish"})

	user, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, user.SkillsOffered, 1)
	assert.Equal(t, "Guitar", user.SkillsOffered[0].Name)
	require.Len(t, user.SkillsWanted, 1)
	assert.Equal(t, "Spanish", user.SkillsWanted[0].Name)
}

func TestUserRepositoryReplaceSkills(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, models.User{Name: "Maria", Email: "maria@example.com"},
		[]string{"Guitar"}, []string{"Spanish"})

	offered := findOrCreateSkills(t, db, []string{"Piano", "Singing"})
	wanted := findOrCreateSkills(t, db, []string{"French"})
	require.NoError(t, repo.ReplaceSkills(ctx, &user, offered, wanted))

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.SkillsOffered, 2)
	require.Len(t, reloaded.SkillsWanted, 1)
	assert.Equal(t, "French", reloaded.SkillsWanted[0].Name)
}

func TestUserRepositorySearch(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, db, models.User{
		Name: "Alice Carter", Email: "alice@example.com", Location: "Berlin",
		Availability: models.AvailabilityWeekends, Rating: 4.5, IsPublic: true,
	}, []string{"JavaScript", "Guitar"}, []string{"Spanish"})
	createUser(t, db, models.User{
		Name: "Bob Mendez", Email: "bob@example.com", Location: "Madrid",
		Availability: models.AvailabilityFlexible, Rating: 3.0, IsPublic: true,
	}, []string{"Spanish"}, []string{"JavaScript"})
	createUser(t, db, models.User{
		Name: "Carol Hidden", Email: "carol@example.com", Location: "Berlin",
		Availability: models.AvailabilityWeekends, Rating: 5.0, IsPublic: false,
	}, []string{"JavaScript"}, nil)

	t.Run("skill substring matches both skill sets", func(t *testing.T) {
		users, err := repo.Search(ctx, SearchParams{Query: "java", Limit: 20})
		require.NoError(t, err)
		// Alice offers JavaScript, Bob wants it; Carol is private.
		require.Len(t, users, 2)
	})

	t.Run("query matches name and location", func(t *testing.T) {
		users, err := repo.Search(ctx, SearchParams{Query: "madrid", Limit: 20})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Bob Mendez", users[0].Name)
	})

	t.Run("availability is an exact filter", func(t *testing.T) {
		users, err := repo.Search(ctx, SearchParams{Availability: models.AvailabilityWeekends, Limit: 20})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Alice Carter", users[0].Name)
	})

	t.Run("private profiles are never returned", func(t *testing.T) {
		users, err := repo.Search(ctx, SearchParams{Limit: 20})
		require.NoError(t, err)
		for _, u := range users {
			assert.True(t, u.IsPublic)
		}
	})

	t.Run("results ordered by rating descending", func(t *testing.T) {
		users, err := repo.Search(ctx, SearchParams{Limit: 20})
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Alice Carter", users[0].Name)
		assert.Equal(t, "Bob Mendez", users[1].Name)
	})

	t.Run("offered skill conjunction", func(t *testing.T) {
		users, err := repo.Search(ctx, SearchParams{Skills: []string{"javascript", "guitar"}, Limit: 20})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Alice Carter", users[0].Name)

		none, err := repo.Search(ctx, SearchParams{Skills: []string{"javascript", "spanish"}, Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("pagination", func(t *testing.T) {
		users, err := repo.Search(ctx, SearchParams{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Bob Mendez", users[0].Name)
	})
}
