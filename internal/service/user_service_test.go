package service

import (
	"context"
	"strings"
	"testing"

	"unimarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Bio: strings.Repeat("b", 501)})
		assertValidationError(t, err)
	})

	t.Run("invalid username", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Username: "no spaces allowed"})
		assertValidationError(t, err)
	})

	t.Run("empty fields leave profile alone", func(t *testing.T) {
		t.Parallel()
		var saved models.User
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "keeper", Bio: "old bio"}, nil
		}
		users.updateFn = func(_ context.Context, u *models.User) error {
			saved = *u
			return nil
		}
		svc := NewUserService(users)

		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Avatar: "/uploads/a.png"})
		require.NoError(t, err)
		assert.Equal(t, "keeper", saved.Username)
		assert.Equal(t, "old bio", saved.Bio)
		assert.Equal(t, "/uploads/a.png", saved.Avatar)
	})
}

func TestUserService_ListUsers_ClampsPagination(t *testing.T) {
	t.Parallel()

	var gotLimit, gotOffset int
	users := noopUserRepo()
	users.listFn = func(_ context.Context, limit, offset int) ([]models.User, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}
	svc := NewUserService(users)

	_, err := svc.ListUsers(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 0, gotOffset)

	_, err = svc.ListUsers(context.Background(), 500, 10)
	require.NoError(t, err)
	assert.Equal(t, 100, gotLimit)
	assert.Equal(t, 10, gotOffset)
}
