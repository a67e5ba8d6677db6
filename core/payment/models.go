package payment

import (
	"time"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
)

// Payment types
const (
	TypeDevelopment = "development"
	TypeBus         = "bus"
	TypeSpecial     = "special"
)

var AllTypes = []string{TypeDevelopment, TypeBus, TypeSpecial}

// Payment is immutable once created; there is no update path.
type Payment struct {
	ID            string    `json:"id" db:"id"`
	StudentID     string    `json:"student_id" db:"student_id"`
	Type          string    `json:"payment_type" db:"payment_type"`
	Amount        int       `json:"amount" db:"amount"`
	Description   string    `json:"description" db:"description"`
	ReceiptNumber string    `json:"receipt_number" db:"receipt_number"`
	SpecialType   *string   `json:"special_payment_type,omitempty" db:"special_payment_type"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"` // UTC
	CreatedBy     string    `json:"created_by" db:"created_by"`

	// Student is the owning student row joined at read time. nil means the
	// student was deleted after the payment was made; such payments are
	// reported as inconsistent rather than backfilled from stale data.
	Student *student.Student `json:"student,omitempty" db:"-"`
}

// Orphaned reports a dangling student reference.
func (p Payment) Orphaned() bool { return p.Student == nil }

// Checkout is one payment submission for one student. It may select up to
// three fee lines; each selected line becomes its own payment row.
type Checkout struct {
	StudentID      string          `json:"student_id" validate:"required"`
	DevelopmentFee bool            `json:"development_fee"`
	BusFee         bool            `json:"bus_fee"`
	Special        *SpecialPayment `json:"special,omitempty"`
}

// SpecialPayment is an ad-hoc fee with a free-text subtype.
type SpecialPayment struct {
	Type   string `json:"type" validate:"required"`
	Amount int    `json:"amount" validate:"required,min=1"`
}

func (co *Checkout) Validate() error {
	if err := core.Validate.Struct(co); err != nil {
		return err
	}
	if !co.DevelopmentFee && !co.BusFee && co.Special == nil {
		return core.NewValidationError(nil,
			core.FieldError{Field: "payment_type", Error: "select at least one payment type"})
	}
	return nil
}
