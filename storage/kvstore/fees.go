package kvstore

import (
	"context"
	"sort"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
)

type feesRepository struct {
	db *DB
}

var _ fees.Repository = (*feesRepository)(nil) // interface compliance check

func NewFeesRepository(db *DB) *feesRepository {
	return &feesRepository{db: db}
}

// Fee configurations

func (repo *feesRepository) loadConfigs() ([]fees.FeeConfiguration, error) {
	var configs []fees.FeeConfiguration
	if err := repo.db.load(feeConfigsKey, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

func (repo *feesRepository) CreateFeeConfiguration(_ context.Context, fc fees.FeeConfiguration) (fees.FeeConfiguration, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	configs, err := repo.loadConfigs()
	if err != nil {
		return fees.FeeConfiguration{}, err
	}
	fc.ID = newID("fee_config")
	configs = append(configs, fc)
	if err = repo.db.save(feeConfigsKey, configs); err != nil {
		return fees.FeeConfiguration{}, err
	}
	return fc, nil
}

func (repo *feesRepository) QueryFeeConfigurations(_ context.Context) ([]fees.FeeConfiguration, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	configs, err := repo.loadConfigs()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(configs, func(i, j int) bool { return configs[i].Class < configs[j].Class })
	return configs, nil
}

func (repo *feesRepository) GetFeeConfigurationByClass(_ context.Context, class int) (fees.FeeConfiguration, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	configs, err := repo.loadConfigs()
	if err != nil {
		return fees.FeeConfiguration{}, err
	}
	for _, fc := range configs {
		if fc.Class == class {
			return fc, nil
		}
	}
	return fees.FeeConfiguration{}, fees.ErrConfigurationNotFound
}

func (repo *feesRepository) UpdateFeeConfiguration(_ context.Context, fc fees.FeeConfiguration) (fees.FeeConfiguration, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	configs, err := repo.loadConfigs()
	if err != nil {
		return fees.FeeConfiguration{}, err
	}
	for i := range configs {
		if configs[i].Class == fc.Class {
			configs[i] = fc
			if err = repo.db.save(feeConfigsKey, configs); err != nil {
				return fees.FeeConfiguration{}, err
			}
			return fc, nil
		}
	}
	return fees.FeeConfiguration{}, fees.ErrConfigurationNotFound
}

// Bus stops

func (repo *feesRepository) loadStops() ([]fees.BusStop, error) {
	var stops []fees.BusStop
	if err := repo.db.load(busStopsKey, &stops); err != nil {
		return nil, err
	}
	return stops, nil
}

func isExcludedStop(bs fees.BusStop, excluded []fees.BusStop) bool {
	for _, e := range excluded {
		if e.ID == bs.ID {
			return true
		}
	}
	return false
}

func (repo *feesRepository) CheckBusStopUniqueness(_ context.Context, name string, excludedStops ...fees.BusStop) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	stops, err := repo.loadStops()
	if err != nil {
		return err
	}
	for _, bs := range stops {
		if bs.Name == name && !isExcludedStop(bs, excludedStops) {
			return fees.ErrBusStopExists
		}
	}
	return nil
}

func (repo *feesRepository) CreateBusStop(_ context.Context, bs fees.BusStop) (fees.BusStop, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stops, err := repo.loadStops()
	if err != nil {
		return fees.BusStop{}, err
	}
	bs.ID = newID("stop")
	stops = append(stops, bs)
	if err = repo.db.save(busStopsKey, stops); err != nil {
		return fees.BusStop{}, err
	}
	return bs, nil
}

func (repo *feesRepository) QueryAllBusStops(_ context.Context) ([]fees.BusStop, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	stops, err := repo.loadStops()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Name < stops[j].Name })
	return stops, nil
}

func (repo *feesRepository) GetBusStopByID(_ context.Context, id string) (fees.BusStop, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	stops, err := repo.loadStops()
	if err != nil {
		return fees.BusStop{}, err
	}
	for _, bs := range stops {
		if bs.ID == id {
			return bs, nil
		}
	}
	return fees.BusStop{}, fees.ErrBusStopNotFound
}

func (repo *feesRepository) GetBusStopByName(_ context.Context, name string) (fees.BusStop, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	stops, err := repo.loadStops()
	if err != nil {
		return fees.BusStop{}, err
	}
	for _, bs := range stops {
		if bs.Name == name {
			return bs, nil
		}
	}
	return fees.BusStop{}, fees.ErrBusStopNotFound
}

func (repo *feesRepository) UpdateBusStop(_ context.Context, bs fees.BusStop) (fees.BusStop, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stops, err := repo.loadStops()
	if err != nil {
		return fees.BusStop{}, err
	}
	for i := range stops {
		if stops[i].ID == bs.ID {
			stops[i] = bs
			if err = repo.db.save(busStopsKey, stops); err != nil {
				return fees.BusStop{}, err
			}
			return bs, nil
		}
	}
	return fees.BusStop{}, fees.ErrBusStopNotFound
}

func (repo *feesRepository) DeleteBusStop(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stops, err := repo.loadStops()
	if err != nil {
		return err
	}
	kept := stops[:0]
	for _, bs := range stops {
		if bs.ID != id {
			kept = append(kept, bs)
		}
	}
	return repo.db.save(busStopsKey, kept)
}
