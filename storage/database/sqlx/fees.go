package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
)

type feesRepository struct {
	db *sqlx.DB
}

var _ fees.Repository = (*feesRepository)(nil) // interface compliance check

func NewFeesRepository(db *sqlx.DB) *feesRepository {
	return &feesRepository{db: db}
}

// Fee configurations

func (repo *feesRepository) CreateFeeConfiguration(ctx context.Context, fc fees.FeeConfiguration) (fees.FeeConfiguration, error) {
	fc.ID = uuid.New().String()
	const query = `
		INSERT INTO fee_configurations (id, class, development_fee, updated_at)
		VALUES (:id, :class, :development_fee, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, fc); err != nil {
		return fees.FeeConfiguration{}, errors.Wrap(err, "inserting fee configuration")
	}
	return fc, nil
}

func (repo *feesRepository) QueryFeeConfigurations(ctx context.Context) ([]fees.FeeConfiguration, error) {
	var configs []fees.FeeConfiguration
	const query = `SELECT * FROM fee_configurations ORDER BY class`
	if err := repo.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, errors.Wrap(err, "querying fee configurations")
	}
	return configs, nil
}

func (repo *feesRepository) GetFeeConfigurationByClass(ctx context.Context, class int) (fees.FeeConfiguration, error) {
	var fc fees.FeeConfiguration
	if err := repo.db.GetContext(ctx, &fc, `SELECT * FROM fee_configurations WHERE class = $1`, class); err != nil {
		if err == sql.ErrNoRows {
			return fees.FeeConfiguration{}, fees.ErrConfigurationNotFound
		}
		return fees.FeeConfiguration{}, errors.Wrap(err, "getting fee configuration")
	}
	return fc, nil
}

func (repo *feesRepository) UpdateFeeConfiguration(ctx context.Context, fc fees.FeeConfiguration) (fees.FeeConfiguration, error) {
	const query = `
		UPDATE fee_configurations
		SET development_fee = :development_fee, updated_at = :updated_at
		WHERE class = :class`
	res, err := repo.db.NamedExecContext(ctx, query, fc)
	if err != nil {
		return fees.FeeConfiguration{}, errors.Wrap(err, "updating fee configuration")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fees.FeeConfiguration{}, fees.ErrConfigurationNotFound
	}
	return fc, nil
}

// Bus stops

func (repo *feesRepository) CheckBusStopUniqueness(ctx context.Context, name string, excludedStops ...fees.BusStop) error {
	query := `SELECT EXISTS (SELECT 1 FROM bus_stops WHERE name = ?)`
	args := []interface{}{name}
	if len(excludedStops) > 0 {
		ids := make([]string, 0, len(excludedStops))
		for _, bs := range excludedStops {
			ids = append(ids, bs.ID)
		}
		query = `SELECT EXISTS (SELECT 1 FROM bus_stops WHERE name = ? AND id NOT IN (?))`
		var err error
		if query, args, err = sqlx.In(query, name, ids); err != nil {
			return errors.Wrap(err, "expanding exclusion list")
		}
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking bus stop uniqueness")
	}
	if exists {
		return fees.ErrBusStopExists
	}
	return nil
}

func (repo *feesRepository) CreateBusStop(ctx context.Context, bs fees.BusStop) (fees.BusStop, error) {
	bs.ID = uuid.New().String()
	const query = `
		INSERT INTO bus_stops (id, name, amount, created_at)
		VALUES (:id, :name, :amount, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, bs); err != nil {
		return fees.BusStop{}, errors.Wrap(err, "inserting bus stop")
	}
	return bs, nil
}

func (repo *feesRepository) QueryAllBusStops(ctx context.Context) ([]fees.BusStop, error) {
	var stops []fees.BusStop
	if err := repo.db.SelectContext(ctx, &stops, `SELECT * FROM bus_stops ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying bus stops")
	}
	return stops, nil
}

func (repo *feesRepository) GetBusStopByID(ctx context.Context, id string) (fees.BusStop, error) {
	var bs fees.BusStop
	if err := repo.db.GetContext(ctx, &bs, `SELECT * FROM bus_stops WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return fees.BusStop{}, fees.ErrBusStopNotFound
		}
		return fees.BusStop{}, errors.Wrap(err, "getting bus stop by id")
	}
	return bs, nil
}

func (repo *feesRepository) GetBusStopByName(ctx context.Context, name string) (fees.BusStop, error) {
	var bs fees.BusStop
	if err := repo.db.GetContext(ctx, &bs, `SELECT * FROM bus_stops WHERE name = $1`, name); err != nil {
		if err == sql.ErrNoRows {
			return fees.BusStop{}, fees.ErrBusStopNotFound
		}
		return fees.BusStop{}, errors.Wrap(err, "getting bus stop by name")
	}
	return bs, nil
}

func (repo *feesRepository) UpdateBusStop(ctx context.Context, bs fees.BusStop) (fees.BusStop, error) {
	const query = `UPDATE bus_stops SET name = :name, amount = :amount WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, bs)
	if err != nil {
		return fees.BusStop{}, errors.Wrap(err, "updating bus stop")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fees.BusStop{}, fees.ErrBusStopNotFound
	}
	return bs, nil
}

func (repo *feesRepository) DeleteBusStop(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM bus_stops WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting bus stop")
	}
	return nil
}
