package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/payment"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Logger     core.Logger
		UserSvc    *user.Service
		StudentSvc *student.Service
		PaymentSvc *payment.Service
		FeeSvc     *fees.Service
		EmailSvc   core.EmailService

		// RemoteDB reports which persistence backend was selected at startup.
		RemoteDB bool
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		ShutdownSignal() chan os.Signal
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	v1.GET("/status", s.status)

	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerStudentAPI(v1, jwt, s.opts.StudentSvc)
	registerPaymentAPI(v1, jwt, s.opts.PaymentSvc)
	registerFeesAPI(v1, jwt, s.opts.FeeSvc)
	registerDashboardAPI(v1, jwt, s.opts.StudentSvc, s.opts.PaymentSvc)
	registerReportsAPI(v1, jwt, s.opts.PaymentSvc, s.opts.EmailSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// ShutdownSignal exposes the channel the main goroutine blocks on; OS signals
// and unrecoverable handler errors both land here.
func (s *server) ShutdownSignal() chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Sarvodaya Fee Management API!")
}

// status reports the active persistence backend, mirroring the original
// connection-status widget.
func (s *server) status(ctx echo.Context) error {
	backend := "local"
	if s.opts.RemoteDB {
		backend = "remote"
	}
	return ctx.JSON(http.StatusOK, StatusResponse{Backend: backend, Remote: s.opts.RemoteDB})
}
