package main

import (
	"errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/database"
)

var errLocalBackend = errors.New("the local file store has no migrations; configure the remote database first")

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errLocalBackend
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return database.RunMigration(cli.db, args[0], arguments...)
}
