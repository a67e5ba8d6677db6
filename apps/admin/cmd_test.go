package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/kvstore"
	testutil "github.com/kvipin99/SarvodayaFeeManangemenetSystem/tests"
)

func setup(t *testing.T) (*commandLine, user.Repository) {
	db := testutil.OpenDB(t)
	log := testutil.NopLogger()
	usrRepo := kvstore.NewUserRepository(db)

	cli := &commandLine{
		usrSvc:  user.NewService(usrRepo, log),
		stdSvc:  student.NewService(kvstore.NewStudentRepository(db), log),
		feesSvc: fees.NewService(kvstore.NewFeesRepository(db), log),
	}
	return cli, usrRepo
}

func Test_commandLine_run(t *testing.T) {
	cli, _ := setup(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "migrate without subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "migrate on local backend", args: []string{"migrate", "up"}, wantErr: errLocalBackend},
		{name: "importstudents without file", args: []string{"importstudents"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"admin"}, tt.args...)
			assert.Equal(t, tt.wantErr, cli.run(args))
		})
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, cli.seed())

	users, err := cli.usrSvc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 61) // admin + 12 classes x 5 divisions

	admin, err := cli.usrSvc.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.NoError(t, admin.CheckPassword(seedPassword))

	teacher, err := cli.usrSvc.GetByUsername(ctx, "class12e")
	require.NoError(t, err)
	require.NotNil(t, teacher.Class)
	require.NotNil(t, teacher.Division)
	assert.Equal(t, 12, *teacher.Class)
	assert.Equal(t, "E", *teacher.Division)

	configs, err := cli.feesSvc.QueryConfigurations(ctx)
	require.NoError(t, err)
	require.Len(t, configs, 12)
	assert.Equal(t, 1100, configs[0].DevelopmentFee)
	assert.Equal(t, 2200, configs[11].DevelopmentFee)

	stops, err := cli.feesSvc.QueryBusStops(ctx)
	require.NoError(t, err)
	assert.Len(t, stops, 7)

	// re-running must not duplicate anything
	require.NoError(t, cli.seed())
	users, err = cli.usrSvc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 61)
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, usrRepo := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "admin", "admin", user.RoleAdmin, nil, nil)

	origReadPassword := readPasswordFunc
	defer func() { readPasswordFunc = origReadPassword }()
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("newpwd"), nil }

	t.Run("missing username", func(t *testing.T) {
		assert.Equal(t, errHelp, cli.run([]string{"admin", "resetpassword"}))
	})

	t.Run("unknown user", func(t *testing.T) {
		err := cli.run([]string{"admin", "resetpassword", "-username", "ghost"})
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("resets the credential", func(t *testing.T) {
		require.NoError(t, cli.run([]string{"admin", "resetpassword", "-username", "admin"}))

		refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
		require.NoError(t, err)
		assert.Error(t, refreshed.CheckPassword("admin"))
		assert.NoError(t, refreshed.CheckPassword("newpwd"))
	})
}
