package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
)

var ErrNotFound = errors.New("payment not found")

type (
	Repository interface {
		CreatePayment(ctx context.Context, pmt Payment) (Payment, error)
		// QueryAllPayments returns payments joined with their owning student,
		// ordered by creation time descending. A payment whose student no
		// longer exists is returned with a nil Student.
		QueryAllPayments(ctx context.Context) ([]Payment, error)
	}

	Service struct {
		repo     Repository
		students *student.Service
		fees     *fees.Service
		log      core.Logger
	}
)

func NewService(repo Repository, students *student.Service, feeSvc *fees.Service, log core.Logger) *Service {
	return &Service{repo: repo, students: students, fees: feeSvc, log: log}
}

// Query lists payments visible to the given scope, most recent first.
// Payments are scoped by their owning student's class/division; a payment
// with a dangling student reference cannot be scoped and is excluded from
// teacher views. Admins still see it, flagged by a nil Student.
func (svc *Service) Query(ctx context.Context, scope user.Scope) ([]Payment, error) {
	payments, err := svc.repo.QueryAllPayments(ctx)
	if err != nil {
		return nil, err
	}

	scoped := make([]Payment, 0, len(payments))
	for _, pmt := range payments {
		if pmt.Orphaned() {
			svc.log.Warn(fmt.Sprintf("payment %s references missing student %s", pmt.ID, pmt.StudentID))
			if scope.Restricted() {
				continue
			}
			scoped = append(scoped, pmt)
			continue
		}
		if scope.Matches(pmt.Student.Class, pmt.Student.Division) {
			scoped = append(scoped, pmt)
		}
	}
	return scoped, nil
}

// GetReceiptBatch finds the checkout batch a receipt number belongs to: the
// matching payment plus the sibling rows written for the same student in the
// same checkout (they share the creation timestamp).
func (svc *Service) GetReceiptBatch(ctx context.Context, receiptNumber string, scope user.Scope) ([]Payment, error) {
	payments, err := svc.Query(ctx, scope)
	if err != nil {
		return nil, err
	}
	var anchor *Payment
	for i := range payments {
		if payments[i].ReceiptNumber == receiptNumber {
			anchor = &payments[i]
			break
		}
	}
	if anchor == nil {
		return nil, ErrNotFound
	}
	batch := make([]Payment, 0, 3)
	for _, pmt := range payments {
		if pmt.StudentID == anchor.StudentID && pmt.CreatedAt.Equal(anchor.CreatedAt) {
			batch = append(batch, pmt)
		}
	}
	return batch, nil
}

// Checkout turns one submission into up to three payment rows: the per-class
// development fee, the bus fee of the student's assigned stop and an ad-hoc
// special fee. Rows are inserted sequentially with no atomicity guarantee; a
// mid-sequence failure leaves the rows written so far in place.
func (svc *Service) Checkout(ctx context.Context, co Checkout, createdBy string) ([]Payment, error) {
	std, err := svc.students.GetByID(ctx, co.StudentID)
	if err != nil {
		return nil, errors.Wrap(err, "finding student")
	}

	now := time.Now().UTC()
	batch := make([]Payment, 0, 3)

	if co.DevelopmentFee {
		fc, err := svc.fees.GetConfigurationByClass(ctx, std.Class)
		if err != nil {
			return nil, errors.Wrapf(err, "fee configuration for class %d", std.Class)
		}
		batch = append(batch, Payment{
			StudentID:     std.ID,
			Type:          TypeDevelopment,
			Amount:        fc.DevelopmentFee,
			Description:   fmt.Sprintf("Development Fee - Class %d", std.Class),
			ReceiptNumber: GenerateReceiptNumber(now),
			CreatedAt:     now,
			CreatedBy:     createdBy,
		})
	}

	if co.BusFee {
		stop, err := svc.fees.GetBusStopByName(ctx, std.BusStop)
		if err != nil {
			return nil, errors.Wrapf(err, "bus stop %q", std.BusStop)
		}
		batch = append(batch, Payment{
			StudentID:     std.ID,
			Type:          TypeBus,
			Amount:        stop.Amount,
			Description:   fmt.Sprintf("Bus Fee - %s", std.BusStop),
			ReceiptNumber: GenerateReceiptNumber(now),
			CreatedAt:     now,
			CreatedBy:     createdBy,
		})
	}

	if co.Special != nil {
		specialType := co.Special.Type
		batch = append(batch, Payment{
			StudentID:     std.ID,
			Type:          TypeSpecial,
			Amount:        co.Special.Amount,
			Description:   fmt.Sprintf("Special Payment - %s", specialType),
			ReceiptNumber: GenerateReceiptNumber(now),
			SpecialType:   &specialType,
			CreatedAt:     now,
			CreatedBy:     createdBy,
		})
	}

	created := make([]Payment, 0, len(batch))
	for _, pmt := range batch {
		saved, err := svc.repo.CreatePayment(ctx, pmt)
		if err != nil {
			// partial write, no rollback
			return created, errors.Wrap(err, "inserting payment")
		}
		saved.Student = &std
		created = append(created, saved)
	}
	return created, nil
}
