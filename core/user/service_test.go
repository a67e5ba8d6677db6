package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/kvstore"
	testutil "github.com/kvipin99/SarvodayaFeeManangemenetSystem/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	db := testutil.OpenDB(t)
	repo := kvstore.NewUserRepository(db)
	return user.NewService(repo, testutil.NopLogger()), repo
}

func TestService_Login(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, repo, "admin", "admin", user.RoleAdmin, nil, nil)
	require.Nil(t, usr.LastLogin)

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost", "admin")
		assert.Equal(t, user.ErrAuthenticationFailed, err)
	})

	t.Run("wrong password leaves user untouched", func(t *testing.T) {
		_, err := svc.Login(ctx, "admin", "nope")
		assert.Equal(t, user.ErrAuthenticationFailed, err)

		refreshed, err := repo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.Nil(t, refreshed.LastLogin)
	})

	t.Run("valid credentials issue a session and stamp LastLogin", func(t *testing.T) {
		sess, err := svc.Login(ctx, "admin", "admin")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.ID)
		assert.Equal(t, usr.ID, sess.User.ID)
		require.NotNil(t, sess.User.LastLogin)

		refreshed, err := repo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		require.NotNil(t, refreshed.LastLogin)

		// logging in again issues a distinct session with a later stamp
		sess2, err := svc.Login(ctx, "admin", "admin")
		require.NoError(t, err)
		assert.NotEqual(t, sess.ID, sess2.ID)
		assert.False(t, sess2.User.LastLogin.Before(*sess.User.LastLogin))
	})
}

func TestService_ChangePassword(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	class := 10
	division := "A"
	usr := testutil.CreateUser(t, repo, "class10a", "admin", user.RoleTeacher, &class, &division)

	t.Run("wrong old password leaves credential unchanged", func(t *testing.T) {
		err := svc.ChangePassword(ctx, usr.ID, "nope", "newpwd")
		assert.Equal(t, user.ErrAuthenticationFailed, err)

		_, err = svc.Login(ctx, "class10a", "admin")
		assert.NoError(t, err)
	})

	t.Run("correct old password installs the new one", func(t *testing.T) {
		err := svc.ChangePassword(ctx, usr.ID, "admin", "newpwd")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "class10a", "admin")
		assert.Equal(t, user.ErrAuthenticationFailed, err)

		_, err = svc.Login(ctx, "class10a", "newpwd")
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.ChangePassword(ctx, "nope", "admin", "newpwd")
		assert.Equal(t, user.ErrAuthenticationFailed, err)
	})
}

func TestScope(t *testing.T) {
	class := 10
	division := "A"

	admin := user.Scope{Role: user.RoleAdmin}
	teacher := user.Scope{Role: user.RoleTeacher, Class: &class, Division: &division}
	partial := user.Scope{Role: user.RoleTeacher, Class: &class} // missing division

	assert.False(t, admin.Restricted())
	assert.True(t, admin.Matches(5, "C"))

	assert.True(t, teacher.Restricted())
	assert.True(t, teacher.Matches(10, "A"))
	assert.False(t, teacher.Matches(10, "B"))
	assert.False(t, teacher.Matches(9, "A"))

	// incomplete teacher records fall back to unrestricted
	assert.False(t, partial.Restricted())
	assert.True(t, partial.Matches(1, "E"))
}
