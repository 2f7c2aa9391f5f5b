package repository

import (
	"context"
	"testing"

	"github.com/quocanhngo/hifcm/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermRepository_EnsureAndSlugs(t *testing.T) {
	repo := NewTermRepository(setupDB(t))
	ctx := context.Background()

	for _, slug := range []string{"offers", "news", "offers"} {
		require.NoError(t, repo.Ensure(ctx, &model.SubscriptionTerm{Slug: slug}))
	}

	slugs, err := repo.Slugs(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"news", "offers"}, slugs)
}

func TestUserRepository_FindByID(t *testing.T) {
	repo := NewUserRepository(setupDB(t))
	ctx := context.Background()

	user := &model.User{Email: "answer@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "answer@example.com", got.Email)

	_, err = repo.FindByID(ctx, user.ID+1)
	assert.Error(t, err)
}
