package student_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/kvstore"
	testutil "github.com/kvipin99/SarvodayaFeeManangemenetSystem/tests"
)

func setup(t *testing.T) (*student.Service, student.Repository) {
	db := testutil.OpenDB(t)
	repo := kvstore.NewStudentRepository(db)
	return student.NewService(repo, testutil.NopLogger()), repo
}

func admNos(students []student.Student) []string {
	nos := make([]string, len(students))
	for i, std := range students {
		nos[i] = std.AdmissionNumber
	}
	return nos
}

func TestService_Query_ordering(t *testing.T) {
	svc, repo := setup(t)

	// inserted out of order on purpose
	testutil.CreateStudent(t, repo, "1003", "Ravi Singh", 10, "B", "City Center")
	testutil.CreateStudent(t, repo, "1002", "Priya Patel", 2, "A", "City Center")
	testutil.CreateStudent(t, repo, "1004", "Amit Kumar", 10, "A", "Temple Road")
	testutil.CreateStudent(t, repo, "1001", "Sneha Gupta", 10, "A", "City Center")

	students, err := svc.Query(context.Background(), user.Scope{Role: user.RoleAdmin})
	require.NoError(t, err)

	// (class, division, name) ascending
	assert.Equal(t, []string{"1002", "1004", "1001", "1003"}, admNos(students))
}

func TestService_Query_scoped(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	testutil.CreateStudent(t, repo, "1001", "Rahul Sharma", 10, "A", "City Center")
	testutil.CreateStudent(t, repo, "1002", "Priya Patel", 10, "B", "City Center")
	testutil.CreateStudent(t, repo, "1003", "Kavya Reddy", 9, "A", "Bus Stand")

	t.Run("admin sees everything", func(t *testing.T) {
		students, err := svc.Query(ctx, user.Scope{Role: user.RoleAdmin})
		require.NoError(t, err)
		assert.Len(t, students, 3)
	})

	t.Run("teacher sees own class/division only", func(t *testing.T) {
		students, err := svc.Query(ctx, user.Scope{
			Role:     user.RoleTeacher,
			Class:    testutil.IntPtr(10),
			Division: testutil.StrPtr("A"),
		})
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "1001", students[0].AdmissionNumber)
	})
}

func TestService_CreateUpdateDelete(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	ns := student.NewStudent{
		AdmissionNumber: "1001",
		Name:            "John Doe",
		Mobile:          "9876543210",
		Class:           10,
		Division:        "a", // normalized to upper case
		BusStop:         "City Center",
		BusNumber:       1,
		TripNumber:      1,
	}
	require.NoError(t, ns.Validate(svc))
	assert.Equal(t, "A", ns.Division)

	std, err := svc.Create(ctx, ns)
	require.NoError(t, err)
	assert.NotEmpty(t, std.ID)

	t.Run("duplicate admission number rejected", func(t *testing.T) {
		dup := ns
		err := dup.Validate(svc)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("update keeps identity", func(t *testing.T) {
		us := student.UpdateStudent{
			AdmissionNumber: "1001",
			Name:            "John M Doe",
			Mobile:          "9876543210",
			Class:           11,
			Division:        "B",
			BusStop:         "Temple Road",
			BusNumber:       2,
			TripNumber:      1,
		}
		require.NoError(t, us.Validate(std, svc))

		updated, err := svc.Update(ctx, std.ID, us)
		require.NoError(t, err)
		assert.Equal(t, std.ID, updated.ID)
		assert.Equal(t, 11, updated.Class)
		assert.Equal(t, std.CreatedAt, updated.CreatedAt)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, std.ID))
		_, err := svc.GetByID(ctx, std.ID)
		assert.Equal(t, student.ErrNotFound, err)
	})
}
