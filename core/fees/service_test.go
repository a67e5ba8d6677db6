package fees_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/kvstore"
	testutil "github.com/kvipin99/SarvodayaFeeManangemenetSystem/tests"
)

func setup(t *testing.T) (*fees.Service, fees.Repository) {
	db := testutil.OpenDB(t)
	repo := kvstore.NewFeesRepository(db)
	return fees.NewService(repo, testutil.NopLogger()), repo
}

func TestService_FeeConfigurations(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	for class := 1; class <= 3; class++ {
		_, err := svc.SeedConfiguration(ctx, class, 1000+class*100)
		require.NoError(t, err)
	}

	t.Run("query ordered by class", func(t *testing.T) {
		configs, err := svc.QueryConfigurations(ctx)
		require.NoError(t, err)
		require.Len(t, configs, 3)
		for i, fc := range configs {
			assert.Equal(t, i+1, fc.Class)
			assert.Equal(t, 1000+(i+1)*100, fc.DevelopmentFee)
		}
	})

	t.Run("update replaces the amount only", func(t *testing.T) {
		fc, err := svc.UpdateConfiguration(ctx, 2, 9999)
		require.NoError(t, err)
		assert.Equal(t, 2, fc.Class)
		assert.Equal(t, 9999, fc.DevelopmentFee)

		refreshed, err := svc.GetConfigurationByClass(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 9999, refreshed.DevelopmentFee)
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := svc.UpdateConfiguration(ctx, 12, 100)
		assert.Equal(t, fees.ErrConfigurationNotFound, err)
	})
}

func TestService_BusStops(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	stop1 := testutil.CreateBusStop(t, repo, "City Center", 500)
	stop2 := testutil.CreateBusStop(t, repo, "Temple Road", 400)

	t.Run("query ordered by name", func(t *testing.T) {
		stops, err := svc.QueryBusStops(ctx)
		require.NoError(t, err)
		require.Len(t, stops, 2)
		assert.Equal(t, "City Center", stops[0].Name)
		assert.Equal(t, "Temple Road", stops[1].Name)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		nb := fees.NewBusStop{Name: "City Center", Amount: 100}
		assert.Error(t, nb.Validate(svc))
	})

	t.Run("rename to own name allowed", func(t *testing.T) {
		ub := fees.UpdateBusStop{Name: "City Center", Amount: 550}
		require.NoError(t, ub.Validate(stop1, svc))

		updated, err := svc.UpdateBusStop(ctx, stop1.ID, ub)
		require.NoError(t, err)
		assert.Equal(t, 550, updated.Amount)
	})

	t.Run("delete removes exactly that stop", func(t *testing.T) {
		require.NoError(t, svc.DeleteBusStop(ctx, stop2.ID))

		_, err := svc.GetBusStopByID(ctx, stop2.ID)
		assert.Equal(t, fees.ErrBusStopNotFound, err)

		stops, err := svc.QueryBusStops(ctx)
		require.NoError(t, err)
		require.Len(t, stops, 1)
		assert.Equal(t, stop1.ID, stops[0].ID)
	})

	t.Run("lookup by name", func(t *testing.T) {
		stop, err := svc.GetBusStopByName(ctx, "City Center")
		require.NoError(t, err)
		assert.Equal(t, stop1.ID, stop.ID)
	})
}
