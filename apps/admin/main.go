package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
	logsvc "github.com/kvipin99/SarvodayaFeeManangemenetSystem/services/logger"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/database"
	sqlxrepos "github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/database/sqlx"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/kvstore"
)

var std = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

func main() {
	defer os.Exit(0)

	appLogger := logsvc.NewStdLogger(std)

	var (
		db          *sqlx.DB
		userRepo    user.Repository
		studentRepo student.Repository
		feesRepo    fees.Repository
	)

	if core.Conf.Database.IsConfigured() {
		var err error
		db, err = database.Open(core.Conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(database.Ping(db))

		userRepo = sqlxrepos.NewUserRepository(db)
		studentRepo = sqlxrepos.NewStudentRepository(db)
		feesRepo = sqlxrepos.NewFeesRepository(db)
	} else {
		kv, err := kvstore.Open(core.Conf.DataDir)
		errAndDie(err)

		userRepo = kvstore.NewUserRepository(kv)
		studentRepo = kvstore.NewStudentRepository(kv)
		feesRepo = kvstore.NewFeesRepository(kv)
	}

	cli := commandLine{
		db:      db,
		usrSvc:  user.NewService(userRepo, appLogger),
		stdSvc:  student.NewService(studentRepo, appLogger),
		feesSvc: fees.NewService(feesRepo, appLogger),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		std.Fatal(err)
	}
}
