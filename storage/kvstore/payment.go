package kvstore

import (
	"context"
	"sort"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/payment"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
)

type paymentRepository struct {
	db *DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) *paymentRepository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) CreatePayment(_ context.Context, pmt payment.Payment) (payment.Payment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	var payments []payment.Payment
	if err := repo.db.load(paymentsKey, &payments); err != nil {
		return payment.Payment{}, err
	}
	pmt.ID = newID("payment")
	pmt.Student = nil // the owning student is re-resolved at read time
	payments = append(payments, pmt)
	if err := repo.db.save(paymentsKey, payments); err != nil {
		return payment.Payment{}, err
	}
	return pmt, nil
}

func (repo *paymentRepository) QueryAllPayments(_ context.Context) ([]payment.Payment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var payments []payment.Payment
	if err := repo.db.load(paymentsKey, &payments); err != nil {
		return nil, err
	}
	var students []student.Student
	if err := repo.db.load(studentsKey, &students); err != nil {
		return nil, err
	}

	byID := make(map[string]student.Student, len(students))
	for _, std := range students {
		byID[std.ID] = std
	}
	for i := range payments {
		if std, ok := byID[payments[i].StudentID]; ok {
			std := std
			payments[i].Student = &std
		} else {
			payments[i].Student = nil
		}
	}

	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments, nil
}
