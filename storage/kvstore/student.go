package kvstore

import (
	"context"
	"sort"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) loadAll() ([]student.Student, error) {
	var students []student.Student
	if err := repo.db.load(studentsKey, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func isExcludedStudent(std student.Student, excluded []student.Student) bool {
	for _, e := range excluded {
		if e.ID == std.ID {
			return true
		}
	}
	return false
}

func sortStudents(students []student.Student) {
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].Class != students[j].Class {
			return students[i].Class < students[j].Class
		}
		if students[i].Division != students[j].Division {
			return students[i].Division < students[j].Division
		}
		return students[i].Name < students[j].Name
	})
}

func (repo *studentRepository) CheckAdmissionNumberUniqueness(_ context.Context, admNo string, excludedStudents ...student.Student) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students, err := repo.loadAll()
	if err != nil {
		return err
	}
	for _, std := range students {
		if std.AdmissionNumber == admNo && !isExcludedStudent(std, excludedStudents) {
			return student.ErrAdmissionNumberExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	students, err := repo.loadAll()
	if err != nil {
		return student.Student{}, err
	}
	std.ID = newID("student")
	students = append(students, std)
	if err = repo.db.save(studentsKey, students); err != nil {
		return student.Student{}, err
	}
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students, err := repo.loadAll()
	if err != nil {
		return nil, err
	}
	sortStudents(students)
	return students, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students, err := repo.loadAll()
	if err != nil {
		return student.Student{}, err
	}
	for _, std := range students {
		if std.ID == id {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	students, err := repo.loadAll()
	if err != nil {
		return student.Student{}, err
	}
	for i := range students {
		if students[i].ID == std.ID {
			students[i] = std
			if err = repo.db.save(studentsKey, students); err != nil {
				return student.Student{}, err
			}
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	students, err := repo.loadAll()
	if err != nil {
		return err
	}
	kept := students[:0]
	for _, std := range students {
		if std.ID != id {
			kept = append(kept, std)
		}
	}
	return repo.db.save(studentsKey, kept)
}
