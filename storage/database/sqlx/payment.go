package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/payment"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
)

type paymentRepository struct {
	db *sqlx.DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *sqlx.DB) *paymentRepository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) CreatePayment(ctx context.Context, pmt payment.Payment) (payment.Payment, error) {
	pmt.ID = uuid.New().String()
	pmt.Student = nil // the owning student is re-resolved at read time
	const query = `
		INSERT INTO payments (id, student_id, payment_type, amount, description,
		                      receipt_number, special_payment_type, created_at, created_by)
		VALUES (:id, :student_id, :payment_type, :amount, :description,
		        :receipt_number, :special_payment_type, :created_at, :created_by)`
	if _, err := repo.db.NamedExecContext(ctx, query, pmt); err != nil {
		return payment.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return pmt, nil
}

// paymentJoinRow carries one payment plus its (possibly absent) owning
// student from the LEFT JOIN.
type paymentJoinRow struct {
	payment.Payment
	SID         sql.NullString `db:"s_id"`
	SAdmission  sql.NullString `db:"s_admission_number"`
	SName       sql.NullString `db:"s_name"`
	SMobile     sql.NullString `db:"s_mobile"`
	SClass      sql.NullInt64  `db:"s_class"`
	SDivision   sql.NullString `db:"s_division"`
	SBusStop    sql.NullString `db:"s_bus_stop"`
	SBusNumber  sql.NullInt64  `db:"s_bus_number"`
	STripNumber sql.NullInt64  `db:"s_trip_number"`
	SCreatedAt  sql.NullTime   `db:"s_created_at"`
	SUpdatedAt  sql.NullTime   `db:"s_updated_at"`
}

func (row paymentJoinRow) unpack() payment.Payment {
	pmt := row.Payment
	if !row.SID.Valid {
		// dangling student_id, reported upstream
		pmt.Student = nil
		return pmt
	}
	pmt.Student = &student.Student{
		ID:              row.SID.String,
		AdmissionNumber: row.SAdmission.String,
		Name:            row.SName.String,
		Mobile:          row.SMobile.String,
		Class:           int(row.SClass.Int64),
		Division:        row.SDivision.String,
		BusStop:         row.SBusStop.String,
		BusNumber:       int(row.SBusNumber.Int64),
		TripNumber:      int(row.STripNumber.Int64),
		CreatedAt:       nullTime(row.SCreatedAt),
		UpdatedAt:       nullTime(row.SUpdatedAt),
	}
	return pmt
}

func nullTime(t sql.NullTime) time.Time {
	if t.Valid {
		return t.Time
	}
	return time.Time{}
}

func (repo *paymentRepository) QueryAllPayments(ctx context.Context) ([]payment.Payment, error) {
	const query = `
		SELECT p.id, p.student_id, p.payment_type, p.amount, p.description,
		       p.receipt_number, p.special_payment_type, p.created_at, p.created_by,
		       s.id AS s_id, s.admission_number AS s_admission_number, s.name AS s_name,
		       s.mobile AS s_mobile, s.class AS s_class, s.division AS s_division,
		       s.bus_stop AS s_bus_stop, s.bus_number AS s_bus_number,
		       s.trip_number AS s_trip_number, s.created_at AS s_created_at,
		       s.updated_at AS s_updated_at
		FROM payments p
		LEFT JOIN students s ON s.id = p.student_id
		ORDER BY p.created_at DESC`

	var rows []paymentJoinRow
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	payments := make([]payment.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, row.unpack())
	}
	return payments, nil
}
