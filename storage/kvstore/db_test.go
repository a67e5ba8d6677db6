package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
)

func TestOpen_createsDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	_, err := Open(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// Records written by one DB handle must be visible to a fresh handle on the
// same directory; this is what makes the local fallback a persistent store
// rather than an in-memory cache.
func TestDB_persistsAcrossReopens(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := Open(dir)
	require.NoError(t, err)

	std, err := NewStudentRepository(db).CreateStudent(ctx, student.Student{
		AdmissionNumber: "1001",
		Name:            "John Doe",
		Class:           10,
		Division:        "A",
	})
	require.NoError(t, err)

	usr := user.User{Username: "admin", Role: user.RoleAdmin}
	require.NoError(t, usr.SetPassword("admin"))
	usr, err = NewUserRepository(db).CreateUser(ctx, usr)
	require.NoError(t, err)

	// reopen
	db2, err := Open(dir)
	require.NoError(t, err)

	got, err := NewStudentRepository(db2).GetStudentByID(ctx, std.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)

	gotUsr, err := NewUserRepository(db2).GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, gotUsr.ID)
	// the credential must survive the round trip
	assert.NoError(t, gotUsr.CheckPassword("admin"))
}

func TestDB_missingCollectionIsEmpty(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)

	students, err := NewStudentRepository(db).QueryAllStudents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, students)
}

func Test_newID(t *testing.T) {
	id1 := newID("student")
	id2 := newID("student")
	assert.Regexp(t, `^student_\d+$`, id1)
	assert.NotEqual(t, id1, id2)
}
