package fees

import (
	"time"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
)

// FeeConfiguration holds the per-class development fee. There is at most one
// row per class; rows are seeded once and only ever updated.
type FeeConfiguration struct {
	ID             string    `json:"id" db:"id"`
	Class          int       `json:"class" db:"class"`
	DevelopmentFee int       `json:"development_fee" db:"development_fee"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type BusStop struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Amount    int       `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

type UpdateFeeConfiguration struct {
	DevelopmentFee int `json:"development_fee" validate:"min=0"`
}

func (uf UpdateFeeConfiguration) Validate() error { return core.Validate.Struct(uf) }

type NewBusStop struct {
	Name   string `json:"name" validate:"required"`
	Amount int    `json:"amount" validate:"min=0"`
}

func (nb *NewBusStop) Validate(svc *Service) error {
	nb.Name = core.CleanString(nb.Name)
	if err := core.Validate.Struct(nb); err != nil {
		return err
	}
	return svc.CheckBusStopUniqueness(nb.Name)
}

type UpdateBusStop struct {
	Name   string `json:"name" validate:"required"`
	Amount int    `json:"amount" validate:"min=0"`
}

func (ub *UpdateBusStop) Validate(orig BusStop, svc *Service) error {
	ub.Name = core.CleanString(ub.Name)
	if err := core.Validate.Struct(ub); err != nil {
		return err
	}
	return svc.CheckBusStopUniqueness(ub.Name, orig)
}
