package student_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
	testutil "github.com/kvipin99/SarvodayaFeeManangemenetSystem/tests"
)

func TestService_ImportCSV(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	csv := strings.Join([]string{
		"Admission Number,Name,Mobile,Class,Division,Bus Stop,Bus Number,Trip Number",
		"1001,John Doe,9876543210,10,A,City Center,1,1",
		"1002,Jane Doe,9876543211,10,B,Temple Road,2,1",
		"1003,Short Row,9876543212",                          // under 8 fields: skipped
		"1004,Bad Class,9876543213,ten,A,City Center,1,1",    // malformed: skipped
		"1001,John Again,9876543214,10,A,City Center,1,1",    // duplicate: reported
		"1005,No Division,9876543215,10,,City Center,1,1",    // invalid: reported
	}, "\n")

	res, err := svc.ImportCSV(ctx, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Errors, 2)

	students, err := svc.Query(ctx, user.Scope{Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, []string{"1001", "1002"}, admNos(students))
}

func TestService_ImportCSV_emptyFile(t *testing.T) {
	svc, _ := setup(t)

	res, err := svc.ImportCSV(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
	assert.Zero(t, res.Skipped)
}

func TestWriteCSV(t *testing.T) {
	svc, repo := setup(t)

	testutil.CreateStudent(t, repo, "1001", "John Doe", 10, "A", "City Center")

	students, err := svc.Query(context.Background(), user.Scope{Role: user.RoleAdmin})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, student.WriteCSV(&buf, students))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Admission Number,Name,Class,Division,Mobile,Bus Stop,Bus Number,Trip Number", lines[0])
	assert.Equal(t, "1001,John Doe,10,A,9876543210,City Center,1,1", lines[1])
}

func TestCSVTemplate(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(student.CSVTemplate()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Admission Number,Name,Mobile,Class,Division,Bus Stop,Bus Number,Trip Number", lines[0])
}
