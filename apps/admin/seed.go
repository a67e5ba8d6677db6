package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
)

// The default password for seeded accounts. Users are expected to change it
// on first login.
const seedPassword = "admin"

var seedBusStops = []struct {
	name   string
	amount int
}{
	{"City Center", 500},
	{"Railway Station", 600},
	{"Bus Stand", 450},
	{"Market Square", 550},
	{"Hospital Junction", 650},
	{"Temple Road", 400},
	{"School Gate", 300},
}

// seed loads the default accounts, per-class fee configurations and bus
// stops. Existing records are left untouched so seeding is re-runnable.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	if err := cli.seedUsers(ctx); err != nil {
		return err
	}
	if err := cli.seedFeeConfigurations(ctx); err != nil {
		return err
	}
	if err := cli.seedBusStops(ctx); err != nil {
		return err
	}
	return nil
}

// seedUsers creates the admin account plus one teacher account per
// (class, division) pair: class1a through class12e.
func (cli *commandLine) seedUsers(ctx context.Context) error {
	if err := cli.seedUser(ctx, user.NewUser{
		Username: "admin",
		Password: seedPassword,
		Role:     user.RoleAdmin,
	}); err != nil {
		return err
	}

	for class := 1; class <= 12; class++ {
		for div := 0; div < 5; div++ {
			class := class
			division := string(rune('A' + div))
			if err := cli.seedUser(ctx, user.NewUser{
				Username: fmt.Sprintf("class%d%s", class, string(rune('a'+div))),
				Password: seedPassword,
				Role:     user.RoleTeacher,
				Class:    &class,
				Division: &division,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cli *commandLine) seedUser(ctx context.Context, nu user.NewUser) error {
	if _, err := cli.usrSvc.GetByUsername(ctx, nu.Username); err == nil {
		return nil // already seeded
	} else if errors.Cause(err) != user.ErrNotFound {
		return err
	}
	if _, err := cli.usrSvc.Create(ctx, nu); err != nil {
		return errors.Wrapf(err, "seeding user %s", nu.Username)
	}
	std.Printf("created user %s", nu.Username)
	return nil
}

// seedFeeConfigurations creates one row per class with a fee growing with
// the class: 1100 for class 1 up to 2200 for class 12.
func (cli *commandLine) seedFeeConfigurations(ctx context.Context) error {
	for class := 1; class <= 12; class++ {
		if _, err := cli.feesSvc.GetConfigurationByClass(ctx, class); err == nil {
			continue
		} else if errors.Cause(err) != fees.ErrConfigurationNotFound {
			return err
		}
		if _, err := cli.feesSvc.SeedConfiguration(ctx, class, 1000+class*100); err != nil {
			return errors.Wrapf(err, "seeding fee configuration for class %d", class)
		}
		std.Printf("created fee configuration for class %d", class)
	}
	return nil
}

func (cli *commandLine) seedBusStops(ctx context.Context) error {
	for _, stop := range seedBusStops {
		if _, err := cli.feesSvc.GetBusStopByName(ctx, stop.name); err == nil {
			continue
		} else if errors.Cause(err) != fees.ErrBusStopNotFound {
			return err
		}
		if _, err := cli.feesSvc.CreateBusStop(ctx, fees.NewBusStop{Name: stop.name, Amount: stop.amount}); err != nil {
			return errors.Wrapf(err, "seeding bus stop %s", stop.name)
		}
		std.Printf("created bus stop %s", stop.name)
	}
	return nil
}
