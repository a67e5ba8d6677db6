package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/payment"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
	emailsvc "github.com/kvipin99/SarvodayaFeeManangemenetSystem/services/email"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/kvstore"
	testutil "github.com/kvipin99/SarvodayaFeeManangemenetSystem/tests"
)

type serverFixture struct {
	app     Server
	email   *emailsvc.ConsoleService
	usrRepo user.Repository
	stdRepo student.Repository
	pmtRepo payment.Repository
	feeRepo fees.Repository
}

func setupServer(t *testing.T) serverFixture {
	db := testutil.OpenDB(t)
	log := testutil.NopLogger()

	usrRepo := kvstore.NewUserRepository(db)
	stdRepo := kvstore.NewStudentRepository(db)
	pmtRepo := kvstore.NewPaymentRepository(db)
	feeRepo := kvstore.NewFeesRepository(db)

	stdSvc := student.NewService(stdRepo, log)
	feeSvc := fees.NewService(feeRepo, log)
	email := emailsvc.NewConsoleService()

	app := NewServer(&Options{
		Addr:           ":0",
		DisableReqLogs: true,
		Logger:         log,
		UserSvc:        user.NewService(usrRepo, log),
		StudentSvc:     stdSvc,
		PaymentSvc:     payment.NewService(pmtRepo, stdSvc, feeSvc, log),
		FeeSvc:         feeSvc,
		EmailSvc:       email,
	})
	return serverFixture{
		app:     app,
		email:   email,
		usrRepo: usrRepo,
		stdRepo: stdRepo,
		pmtRepo: pmtRepo,
		feeRepo: feeRepo,
	}
}

func tokenFor(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetSessionClaims(user.Session{
		ID:       "test-session",
		User:     usr,
		IssuedAt: time.Now().UTC(),
	}))
	if err != nil {
		t.Fatalf("tokenFor() failed: %v", err)
	}
	return token
}

func (fix serverFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	fix.app.ServeHTTP(rec, req)
	return rec
}

type echoMap = map[string]interface{}

func TestServer_login(t *testing.T) {
	fix := setupServer(t)
	testutil.CreateUser(t, fix.usrRepo, "admin", "admin", user.RoleAdmin, nil, nil)

	t.Run("valid credentials", func(t *testing.T) {
		rec := fix.do(t, http.MethodPost, "/v1/users/login", "", echoMap{"username": "admin", "password": "admin"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := fix.do(t, http.MethodPost, "/v1/users/login", "", echoMap{"username": "admin", "password": "nope"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := fix.do(t, http.MethodPost, "/v1/users/login", "", echoMap{"username": "admin"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_studentsScoping(t *testing.T) {
	fix := setupServer(t)

	admin := testutil.CreateUser(t, fix.usrRepo, "admin", "admin", user.RoleAdmin, nil, nil)
	teacher := testutil.CreateUser(t, fix.usrRepo, "class10a", "admin", user.RoleTeacher,
		testutil.IntPtr(10), testutil.StrPtr("A"))

	testutil.CreateStudent(t, fix.stdRepo, "1001", "John Doe", 10, "A", "City Center")
	testutil.CreateStudent(t, fix.stdRepo, "1002", "Jane Doe", 9, "B", "Temple Road")

	t.Run("no token", func(t *testing.T) {
		rec := fix.do(t, http.MethodGet, "/v1/students", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin sees all", func(t *testing.T) {
		rec := fix.do(t, http.MethodGet, "/v1/students", tokenFor(t, admin), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var students []student.Student
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &students))
		assert.Len(t, students, 2)
	})

	t.Run("teacher sees own class only", func(t *testing.T) {
		rec := fix.do(t, http.MethodGet, "/v1/students", tokenFor(t, teacher), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var students []student.Student
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &students))
		require.Len(t, students, 1)
		assert.Equal(t, "1001", students[0].AdmissionNumber)
	})

	t.Run("teacher cannot create students", func(t *testing.T) {
		rec := fix.do(t, http.MethodPost, "/v1/students", tokenFor(t, teacher), echoMap{
			"admission_number": "1003", "name": "X", "mobile": "123", "class": 10, "division": "A",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin creates a student", func(t *testing.T) {
		rec := fix.do(t, http.MethodPost, "/v1/students", tokenFor(t, admin), echoMap{
			"admission_number": "1003",
			"name":             "New Kid",
			"mobile":           "9876543212",
			"class":            10,
			"division":         "a",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var std student.Student
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &std))
		assert.Equal(t, "A", std.Division)
	})
}

func TestServer_paymentsFlow(t *testing.T) {
	fix := setupServer(t)

	admin := testutil.CreateUser(t, fix.usrRepo, "admin", "admin", user.RoleAdmin, nil, nil)
	std := testutil.CreateStudent(t, fix.stdRepo, "1001", "John Doe", 10, "A", "City Center")
	testutil.CreateFeeConfiguration(t, fix.feeRepo, 10, 2000)
	testutil.CreateBusStop(t, fix.feeRepo, "City Center", 500)

	token := tokenFor(t, admin)

	rec := fix.do(t, http.MethodPost, "/v1/payments", token, echoMap{
		"student_id":      std.ID,
		"development_fee": true,
		"bus_fee":         true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created []payment.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created, 2)

	t.Run("receipt renders the whole batch", func(t *testing.T) {
		rec := fix.do(t, http.MethodGet, "/v1/payments/receipts/"+created[0].ReceiptNumber, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		html := rec.Body.String()
		assert.Contains(t, html, core.Conf.SchoolName)
		assert.Contains(t, html, "John Doe")
		assert.Contains(t, html, "Development Fee - Class 10")
		assert.Contains(t, html, "Bus Fee - City Center")
	})

	t.Run("unknown receipt", func(t *testing.T) {
		rec := fix.do(t, http.MethodGet, "/v1/payments/receipts/SHSS00000000000000", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty checkout rejected", func(t *testing.T) {
		rec := fix.do(t, http.MethodPost, "/v1/payments", token, echoMap{"student_id": std.ID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("receipt for a deleted student", func(t *testing.T) {
		require.NoError(t, fix.stdRepo.DeleteStudent(context.Background(), std.ID))

		rec := fix.do(t, http.MethodGet, "/v1/payments/receipts/"+created[0].ReceiptNumber, token, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestServer_shutdownOnUnrecoverableError(t *testing.T) {
	fix := setupServer(t)

	srv := fix.app.(*server)
	srv.app.GET("/boom", func(echo.Context) error {
		return core.NewShutdownError("storage integrity lost")
	})

	rec := fix.do(t, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	select {
	case sig := <-fix.app.ShutdownSignal():
		assert.Equal(t, syscall.SIGTERM, sig)
	default:
		t.Fatal("expected a shutdown signal")
	}
}

func TestServer_status(t *testing.T) {
	fix := setupServer(t)

	rec := fix.do(t, http.MethodGet, "/v1/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "local", resp.Backend)
	assert.False(t, resp.Remote)
}

func TestServer_dailySummaryReport(t *testing.T) {
	fix := setupServer(t)

	origOfficeEmail := core.Conf.OfficeEmail
	core.Conf.OfficeEmail = "office@school.test"
	defer func() { core.Conf.OfficeEmail = origOfficeEmail }()

	admin := testutil.CreateUser(t, fix.usrRepo, "admin", "admin", user.RoleAdmin, nil, nil)
	teacher := testutil.CreateUser(t, fix.usrRepo, "class10a", "admin", user.RoleTeacher,
		testutil.IntPtr(10), testutil.StrPtr("A"))
	std := testutil.CreateStudent(t, fix.stdRepo, "1001", "John Doe", 10, "A", "City Center")
	testutil.CreatePayment(t, fix.pmtRepo, std, payment.TypeDevelopment, 2000)

	t.Run("teachers may not trigger it", func(t *testing.T) {
		rec := fix.do(t, http.MethodPost, "/v1/reports/daily-summary", tokenFor(t, teacher), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin triggers the email", func(t *testing.T) {
		rec := fix.do(t, http.MethodPost, "/v1/reports/daily-summary", tokenFor(t, admin), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		require.Len(t, fix.email.SentMsgs, 1)
		msg := fix.email.SentMsgs[0]
		assert.Equal(t, "office@school.test", msg.To[0].Address)
		assert.Contains(t, msg.TextContent, "Total collections: 2000")
	})
}
