package student

import (
	"strings"
	"time"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
)

type Student struct {
	ID              string    `json:"id" db:"id"`
	AdmissionNumber string    `json:"admission_number" db:"admission_number"`
	Name            string    `json:"name" db:"name"`
	Mobile          string    `json:"mobile" db:"mobile"`
	Class           int       `json:"class" db:"class"`
	Division        string    `json:"division" db:"division"`
	BusStop         string    `json:"bus_stop" db:"bus_stop"`
	BusNumber       int       `json:"bus_number" db:"bus_number"`
	TripNumber      int       `json:"trip_number" db:"trip_number"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	AdmissionNumber string `json:"admission_number" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Mobile          string `json:"mobile" validate:"required"`
	Class           int    `json:"class" validate:"required,min=1,max=12"`
	Division        string `json:"division" validate:"required,division"`
	BusStop         string `json:"bus_stop"`
	BusNumber       int    `json:"bus_number" validate:"min=0"`
	TripNumber      int    `json:"trip_number" validate:"min=0"`
}

func (ns *NewStudent) Validate(svc *Service) error {
	ns.AdmissionNumber = core.CleanString(ns.AdmissionNumber)
	ns.Name = core.CleanString(ns.Name)
	ns.Mobile = core.CleanString(ns.Mobile)
	ns.Division = strings.ToUpper(core.CleanString(ns.Division))
	ns.BusStop = core.CleanString(ns.BusStop)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ns.AdmissionNumber)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	AdmissionNumber string `json:"admission_number" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Mobile          string `json:"mobile" validate:"required"`
	Class           int    `json:"class" validate:"required,min=1,max=12"`
	Division        string `json:"division" validate:"required,division"`
	BusStop         string `json:"bus_stop"`
	BusNumber       int    `json:"bus_number" validate:"min=0"`
	TripNumber      int    `json:"trip_number" validate:"min=0"`
}

func (us *UpdateStudent) Validate(orig Student, svc *Service) error {
	us.AdmissionNumber = core.CleanString(us.AdmissionNumber)
	us.Name = core.CleanString(us.Name)
	us.Mobile = core.CleanString(us.Mobile)
	us.Division = strings.ToUpper(core.CleanString(us.Division))
	us.BusStop = core.CleanString(us.BusStop)

	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckUniqueness(us.AdmissionNumber, orig)
}
