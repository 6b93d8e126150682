package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mock-interview/internal/config"
	"github.com/jonathan/mock-interview/internal/db"
	"github.com/jonathan/mock-interview/internal/types"
)

func newTestUserService(t *testing.T) (*UserService, *mockStore) {
	t.Helper()
	store := newMockStore()
	passwords, err := config.NewPasswordConfig(10, "pepper")
	require.NoError(t, err)
	return NewUserService(store, passwords), store
}

func TestConvertDBUserToTypesUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		now := time.Now()
		dbUser := &db.User{
			ID:           uuid.New(),
			Name:         "Jane Doe",
			Email:        "jane@example.com",
			ImageURL:     "https://example.com/jane.png",
			PasswordHash: "hashed-password",
			PasswordSet:  true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		typesUser := convertDBUserToTypesUser(dbUser)
		require.NotNil(t, typesUser)
		assert.Equal(t, dbUser.ID, typesUser.ID)
		assert.Equal(t, dbUser.Name, typesUser.Name)
		assert.Equal(t, dbUser.Email, typesUser.Email)
		assert.Equal(t, dbUser.ImageURL, typesUser.ImageURL)
		assert.Equal(t, dbUser.PasswordSet, typesUser.PasswordSet)
		assert.Equal(t, dbUser.CreatedAt, typesUser.CreatedAt)
	})

	t.Run("nil user", func(t *testing.T) {
		assert.Nil(t, convertDBUserToTypesUser(nil))
	})
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, store := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, user.PasswordSet)

	stored, _ := store.GetUser(ctx, user.ID)
	assert.NotEqual(t, "password123", stored.PasswordHash)

	loggedIn, err := svc.Login(ctx, &types.LoginRequest{Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "ann@example.com", Password: "wrong"})
	assert.IsType(t, &ErrInvalidCredentials{}, err)
}

func TestUserService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()
	req := &types.CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	var exists *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &exists)
}

func TestUserService_Login_PasswordNotSet(t *testing.T) {
	svc, store := newTestUserService(t)
	ctx := context.Background()
	_, err := store.CreateUser(ctx, "NoPw", "nopw@example.com", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "nopw@example.com", Password: ""})
	assert.IsType(t, &ErrInvalidCredentials{}, err)
}

func TestUserService_UpdatePassword(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, user.ID, "wrong", "newpassword")
	assert.IsType(t, &ErrPasswordMismatch{}, err)

	require.NoError(t, svc.UpdatePassword(ctx, user.ID, "password123", "newpassword"))
	_, err = svc.Login(ctx, &types.LoginRequest{Email: "ann@example.com", Password: "newpassword"})
	assert.NoError(t, err)

	err = svc.UpdatePassword(ctx, uuid.New(), "x", "y")
	assert.IsType(t, &ErrUserNotFound{}, err)
}

func TestUserService_Profile(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{Name: "Annie"})
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.Name)

	profile, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annie", profile.Name)

	_, err = svc.Profile(ctx, uuid.New())
	assert.IsType(t, &ErrUserNotFound{}, err)

	_, err = svc.UpdateProfile(ctx, uuid.New(), &types.UpdateProfileRequest{Name: "x"})
	assert.IsType(t, &ErrUserNotFound{}, err)
}
