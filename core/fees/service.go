package fees

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
)

var (
	// errors
	ErrConfigurationNotFound = errors.New("fee configuration not found")
	ErrBusStopNotFound       = errors.New("bus stop not found")
	ErrBusStopExists         = errors.New("a bus stop with this name already exists")
)

type (
	Repository interface {
		// CreateFeeConfiguration is only used by seeding; at most one row may
		// exist per class.
		CreateFeeConfiguration(ctx context.Context, fc FeeConfiguration) (FeeConfiguration, error)
		// QueryFeeConfigurations returns all rows ordered by class ascending.
		QueryFeeConfigurations(ctx context.Context) ([]FeeConfiguration, error)
		GetFeeConfigurationByClass(ctx context.Context, class int) (FeeConfiguration, error)
		UpdateFeeConfiguration(ctx context.Context, fc FeeConfiguration) (FeeConfiguration, error)

		CheckBusStopUniqueness(ctx context.Context, name string, excludedStops ...BusStop) error
		CreateBusStop(ctx context.Context, bs BusStop) (BusStop, error)
		// QueryAllBusStops returns all rows ordered by name ascending.
		QueryAllBusStops(ctx context.Context) ([]BusStop, error)
		GetBusStopByID(ctx context.Context, id string) (BusStop, error)
		GetBusStopByName(ctx context.Context, name string) (BusStop, error)
		UpdateBusStop(ctx context.Context, bs BusStop) (BusStop, error)
		DeleteBusStop(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Fee configurations

func (svc *Service) SeedConfiguration(ctx context.Context, class, developmentFee int) (FeeConfiguration, error) {
	return svc.repo.CreateFeeConfiguration(ctx, FeeConfiguration{
		Class:          class,
		DevelopmentFee: developmentFee,
		UpdatedAt:      time.Now().UTC(),
	})
}

func (svc *Service) QueryConfigurations(ctx context.Context) ([]FeeConfiguration, error) {
	return svc.repo.QueryFeeConfigurations(ctx)
}

func (svc *Service) GetConfigurationByClass(ctx context.Context, class int) (FeeConfiguration, error) {
	return svc.repo.GetFeeConfigurationByClass(ctx, class)
}

func (svc *Service) UpdateConfiguration(ctx context.Context, class, developmentFee int) (FeeConfiguration, error) {
	fc, err := svc.repo.GetFeeConfigurationByClass(ctx, class)
	if err != nil {
		return FeeConfiguration{}, err
	}
	fc.DevelopmentFee = developmentFee
	fc.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFeeConfiguration(ctx, fc)
}

// Bus stops

func (svc *Service) CheckBusStopUniqueness(name string, exclStops ...BusStop) error {
	if err := svc.repo.CheckBusStopUniqueness(context.Background(), name, exclStops...); err != nil {
		if err == ErrBusStopExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) CreateBusStop(ctx context.Context, nb NewBusStop) (BusStop, error) {
	return svc.repo.CreateBusStop(ctx, BusStop{
		Name:      nb.Name,
		Amount:    nb.Amount,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) QueryBusStops(ctx context.Context) ([]BusStop, error) {
	return svc.repo.QueryAllBusStops(ctx)
}

func (svc *Service) GetBusStopByID(ctx context.Context, id string) (BusStop, error) {
	return svc.repo.GetBusStopByID(ctx, id)
}

func (svc *Service) GetBusStopByName(ctx context.Context, name string) (BusStop, error) {
	return svc.repo.GetBusStopByName(ctx, name)
}

func (svc *Service) UpdateBusStop(ctx context.Context, id string, ub UpdateBusStop) (BusStop, error) {
	orig, err := svc.repo.GetBusStopByID(ctx, id)
	if err != nil {
		return BusStop{}, err
	}
	orig.Name = ub.Name
	orig.Amount = ub.Amount
	return svc.repo.UpdateBusStop(ctx, orig)
}

func (svc *Service) DeleteBusStop(ctx context.Context, id string) error {
	return svc.repo.DeleteBusStop(ctx, id)
}
