package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
)

var (
	// errors
	ErrNotFound              = errors.New("student not found")
	ErrAdmissionNumberExists = errors.New("a student with this admission number already exists")
)

type (
	Repository interface {
		CheckAdmissionNumberUniqueness(ctx context.Context, admissionNumber string, excludedStudents ...Student) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// QueryAllStudents returns all students ordered by (class, division, name) ascending.
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (svc *Service) CheckUniqueness(admNo string, exclStudents ...Student) error {
	if err := svc.repo.CheckAdmissionNumberUniqueness(context.Background(), admNo, exclStudents...); err != nil {
		if err == ErrAdmissionNumberExists {
			return core.NewValidationError(err, core.FieldError{Field: "admission_number", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		AdmissionNumber: ns.AdmissionNumber,
		Name:            ns.Name,
		Mobile:          ns.Mobile,
		Class:           ns.Class,
		Division:        ns.Division,
		BusStop:         ns.BusStop,
		BusNumber:       ns.BusNumber,
		TripNumber:      ns.TripNumber,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

// Query lists students visible to the given scope. Role scoping is a pure
// post-filter on the repository's ordered result.
func (svc *Service) Query(ctx context.Context, scope user.Scope) ([]Student, error) {
	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return nil, err
	}
	if !scope.Restricted() {
		return students, nil
	}
	scoped := make([]Student, 0, len(students))
	for _, std := range students {
		if scope.Matches(std.Class, std.Division) {
			scoped = append(scoped, std)
		}
	}
	return scoped, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	orig, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std := Student{
		ID:              id,
		AdmissionNumber: us.AdmissionNumber,
		Name:            us.Name,
		Mobile:          us.Mobile,
		Class:           us.Class,
		Division:        us.Division,
		BusStop:         us.BusStop,
		BusNumber:       us.BusNumber,
		TripNumber:      us.TripNumber,
		CreatedAt:       orig.CreatedAt,
		UpdatedAt:       time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}
