package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func trapStudentNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *studentRepository) CheckAdmissionNumberUniqueness(ctx context.Context, admNo string, excludedStudents ...student.Student) error {
	query := `SELECT EXISTS (SELECT 1 FROM students WHERE admission_number = ?)`
	args := []interface{}{admNo}
	if len(excludedStudents) > 0 {
		ids := make([]string, 0, len(excludedStudents))
		for _, s := range excludedStudents {
			ids = append(ids, s.ID)
		}
		query = `SELECT EXISTS (SELECT 1 FROM students WHERE admission_number = ? AND id NOT IN (?))`
		var err error
		if query, args, err = sqlx.In(query, admNo, ids); err != nil {
			return errors.Wrap(err, "expanding exclusion list")
		}
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking admission number uniqueness")
	}
	if exists {
		return student.ErrAdmissionNumberExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	const query = `
		INSERT INTO students (id, admission_number, name, mobile, class, division,
		                      bus_stop, bus_number, trip_number, created_at, updated_at)
		VALUES (:id, :admission_number, :name, :mobile, :class, :division,
		        :bus_stop, :bus_number, :trip_number, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, std); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var students []student.Student
	const query = `SELECT * FROM students ORDER BY class, division, name`
	if err := repo.db.SelectContext(ctx, &students, query); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var std student.Student
	if err := repo.db.GetContext(ctx, &std, `SELECT * FROM students WHERE id = $1`, id); err != nil {
		return student.Student{}, trapStudentNoRowsErr(err, "getting student by id")
	}
	return std, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	const query = `
		UPDATE students
		SET admission_number = :admission_number, name = :name, mobile = :mobile,
		    class = :class, division = :division, bus_stop = :bus_stop,
		    bus_number = :bus_number, trip_number = :trip_number, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, std)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}
