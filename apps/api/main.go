package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	echoapi "github.com/kvipin99/SarvodayaFeeManangemenetSystem/apps/api/echo"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/payment"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
	emailsvc "github.com/kvipin99/SarvodayaFeeManangemenetSystem/services/email"
	logsvc "github.com/kvipin99/SarvodayaFeeManangemenetSystem/services/logger"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/database"
	sqlxrepos "github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/database/sqlx"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/kvstore"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var appLogger core.Logger
	if core.Conf.RollbarToken != "" {
		appLogger = logsvc.NewRollbarLogger(std, core.Conf)
	} else {
		appLogger = logsvc.NewStdLogger(std)
	}

	if err := run(appLogger); err != nil {
		appLogger.Fatal("main: error:", err)
	}
}

func run(appLogger core.Logger) error {
	var (
		userRepo    user.Repository
		studentRepo student.Repository
		paymentRepo payment.Repository
		feesRepo    fees.Repository
	)

	// The storage backend is selected once here: the remote database when
	// credentials are configured, the local file store otherwise.
	remoteDB := core.Conf.Database.IsConfigured()
	if remoteDB {
		db, err := database.Open(core.Conf)
		if err != nil {
			return errors.Wrap(err, "opening database")
		}
		defer func() {
			appLogger.Info("main: database stopping")
			_ = db.Close()
		}()

		if err = database.Ping(db); err != nil {
			return err
		}
		if err = database.Migrate(db); err != nil {
			return err
		}

		userRepo = sqlxrepos.NewUserRepository(db)
		studentRepo = sqlxrepos.NewStudentRepository(db)
		paymentRepo = sqlxrepos.NewPaymentRepository(db)
		feesRepo = sqlxrepos.NewFeesRepository(db)
		appLogger.Info("main: using remote database backend")
	} else {
		db, err := kvstore.Open(core.Conf.DataDir)
		if err != nil {
			return errors.Wrap(err, "opening local store")
		}

		userRepo = kvstore.NewUserRepository(db)
		studentRepo = kvstore.NewStudentRepository(db)
		paymentRepo = kvstore.NewPaymentRepository(db)
		feesRepo = kvstore.NewFeesRepository(db)
		appLogger.Info("main: using local file store backend")
	}

	var emailSvc core.EmailService
	if core.Conf.Debug || core.Conf.SendgridApiKey == "" {
		emailSvc = emailsvc.NewConsoleService()
	} else {
		emailSvc = emailsvc.NewSendgridService(appLogger)
	}

	userSvc := user.NewService(userRepo, appLogger)
	studentSvc := student.NewService(studentRepo, appLogger)
	feeSvc := fees.NewService(feesRepo, appLogger)
	paymentSvc := payment.NewService(paymentRepo, studentSvc, feeSvc, appLogger)

	app := echoapi.NewServer(&echoapi.Options{
		Addr:       core.Conf.Server.Addr,
		Logger:     appLogger,
		UserSvc:    userSvc,
		StudentSvc: studentSvc,
		PaymentSvc: paymentSvc,
		FeeSvc:     feeSvc,
		EmailSvc:   emailSvc,
		RemoteDB:   remoteDB,
	})

	// OS signals and unrecoverable handler errors both land on this channel.
	shutdown := app.ShutdownSignal()
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go app.Start()
	appLogger.Info("main: API listening on " + core.Conf.Server.Addr)

	<-shutdown
	appLogger.Info("main: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		return errors.Wrap(err, "stopping server")
	}
	return nil
}
