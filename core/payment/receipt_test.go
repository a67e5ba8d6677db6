package payment_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/payment"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
)

func TestRenderReceipt(t *testing.T) {
	std := &student.Student{
		ID:              "student_1",
		AdmissionNumber: "1001",
		Name:            "John Doe",
		Class:           10,
		Division:        "A",
	}
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	batch := []payment.Payment{
		{
			ID:            "payment_1",
			StudentID:     std.ID,
			Type:          payment.TypeDevelopment,
			Amount:        2000,
			Description:   "Development Fee - Class 10",
			ReceiptNumber: "SHSS20260828000001",
			CreatedAt:     now,
			CreatedBy:     "admin",
			Student:       std,
		},
		{
			ID:            "payment_2",
			StudentID:     std.ID,
			Type:          payment.TypeBus,
			Amount:        500,
			Description:   "Bus Fee - City Center",
			ReceiptNumber: "SHSS20260828000002",
			CreatedAt:     now,
			CreatedBy:     "admin",
			Student:       std,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, payment.RenderReceipt(&buf, "SARVODAYA HIGHER SECONDARY SCHOOL", batch))
	html := buf.String()

	assert.Contains(t, html, "SARVODAYA HIGHER SECONDARY SCHOOL")
	assert.Contains(t, html, "SHSS20260828000001") // anchor receipt number
	assert.Contains(t, html, "28/08/2026")
	assert.Contains(t, html, "John Doe")
	assert.Contains(t, html, "Development Fee - Class 10")
	assert.Contains(t, html, "Bus Fee - City Center")
	assert.Contains(t, html, "2500") // total
}

func TestRenderReceipt_invalidBatches(t *testing.T) {
	var buf bytes.Buffer

	assert.Error(t, payment.RenderReceipt(&buf, "S", nil))

	// a batch whose student has been deleted is reported with the sentinel so
	// callers can surface it as a client error
	orphan := []payment.Payment{{ID: "payment_1", StudentID: "gone"}}
	err := payment.RenderReceipt(&buf, "S", orphan)
	assert.ErrorIs(t, err, payment.ErrReceiptUnavailable)
}

func TestWriteCSV(t *testing.T) {
	std := &student.Student{
		AdmissionNumber: "1001",
		Name:            "John Doe",
		Mobile:          "9876543210",
		Class:           10,
		Division:        "A",
	}
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	payments := []payment.Payment{
		{
			ReceiptNumber: "SHSS20260828000001",
			Type:          payment.TypeDevelopment,
			Amount:        2000,
			Description:   "Development Fee - Class 10",
			CreatedAt:     now,
			CreatedBy:     "admin",
			Student:       std,
		},
		{
			ReceiptNumber: "SHSS20260828000002",
			Type:          payment.TypeSpecial,
			Amount:        100,
			Description:   "Special Payment - Exam Fee",
			CreatedAt:     now,
			CreatedBy:     "admin",
			// deleted student
		},
	}

	var buf bytes.Buffer
	require.NoError(t, payment.WriteCSV(&buf, payments))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"Receipt Number,Student Name,Admission Number,Class,Division,Mobile,Payment Type,Description,Amount,Date,Created By",
		lines[0])
	assert.Equal(t,
		"SHSS20260828000001,John Doe,1001,10,A,9876543210,development,Development Fee - Class 10,2000,28/08/2026,admin",
		lines[1])
	assert.Equal(t,
		"SHSS20260828000002,[deleted student],,,,,special,Special Payment - Exam Fee,100,28/08/2026,admin",
		lines[2])
}
