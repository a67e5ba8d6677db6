package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/payment"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/storage/kvstore"
)

// OpenDB opens a throwaway local store rooted in a per-test temp dir.
func OpenDB(t *testing.T) *kvstore.DB {
	t.Helper()
	db, err := kvstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

func IntPtr(i int) *int       { return &i }
func StrPtr(s string) *string { return &s }

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// NopLogger discards everything; tests do not care about log output.
func NopLogger() core.Logger { return nopLogger{} }

func CreateUser(
	t *testing.T,
	repo user.Repository,
	uname, pwd, role string,
	class *int,
	division *string,
) user.User {
	t.Helper()
	usr := user.User{
		Username:  uname,
		Role:      role,
		Class:     class,
		Division:  division,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	admNo, name string,
	class int,
	division, busStop string,
) student.Student {
	t.Helper()
	now := time.Now().UTC()
	std, err := repo.CreateStudent(context.Background(), student.Student{
		AdmissionNumber: admNo,
		Name:            name,
		Mobile:          "9876543210",
		Class:           class,
		Division:        division,
		BusStop:         busStop,
		BusNumber:       1,
		TripNumber:      1,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreatePayment(
	t *testing.T,
	repo payment.Repository,
	std student.Student,
	ptype string,
	amount int,
	createdAt ...time.Time,
) payment.Payment {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	pmt, err := repo.CreatePayment(context.Background(), payment.Payment{
		StudentID:     std.ID,
		Type:          ptype,
		Amount:        amount,
		Description:   ptype + " fee",
		ReceiptNumber: payment.GenerateReceiptNumber(tstamp),
		CreatedAt:     tstamp,
		CreatedBy:     "admin",
	})
	if err != nil {
		t.Fatalf("CreatePayment() failed: %v", err)
	}
	return pmt
}

func CreateBusStop(t *testing.T, repo fees.Repository, name string, amount int) fees.BusStop {
	t.Helper()
	stop, err := repo.CreateBusStop(context.Background(), fees.BusStop{
		Name:      name,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateBusStop() failed: %v", err)
	}
	return stop
}

func CreateFeeConfiguration(t *testing.T, repo fees.Repository, class, fee int) fees.FeeConfiguration {
	t.Helper()
	fc, err := repo.CreateFeeConfiguration(context.Background(), fees.FeeConfiguration{
		Class:          class,
		DevelopmentFee: fee,
		UpdatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateFeeConfiguration() failed: %v", err)
	}
	return fc
}
