package payment

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
)

//go:embed templates/receipt.gohtml
var receiptTmplSrc string

var receiptTmpl = template.Must(template.New("receipt").Parse(receiptTmplSrc))

var receiptSeq uint32

// ErrReceiptUnavailable is returned when a batch cannot be rendered because
// the student it belongs to has since been deleted.
var ErrReceiptUnavailable = errors.New("receipt unavailable: student record deleted")

// GenerateReceiptNumber combines the date with a time-derived suffix. The
// sequence nudge keeps numbers unique when several rows of one checkout
// share a timestamp.
func GenerateReceiptNumber(now time.Time) string {
	n := atomic.AddUint32(&receiptSeq, 1)
	suffix := (now.UnixMilli() + int64(n)) % 1000000
	return fmt.Sprintf("SHSS%s%06d", now.Format("20060102"), suffix)
}

type (
	receiptLine struct {
		Type        string
		Description string
		Amount      int
	}

	receiptData struct {
		SchoolName    string
		ReceiptNumber string
		Date          string
		Student       *student.Student
		Lines         []receiptLine
		Total         int
	}
)

// RenderReceipt writes a self-contained printable HTML receipt for one
// payment batch. The batch must be non-empty and resolve to a live student.
func RenderReceipt(w io.Writer, schoolName string, batch []Payment) error {
	if len(batch) == 0 {
		return errors.New("empty payment batch")
	}
	if batch[0].Orphaned() {
		return errors.Wrapf(ErrReceiptUnavailable, "payment %s references missing student %s", batch[0].ID, batch[0].StudentID)
	}

	data := receiptData{
		SchoolName:    schoolName,
		ReceiptNumber: batch[0].ReceiptNumber,
		Date:          batch[0].CreatedAt.Format("02/01/2006"),
		Student:       batch[0].Student,
	}
	for _, pmt := range batch {
		data.Lines = append(data.Lines, receiptLine{
			Type:        titleCase(pmt.Type),
			Description: pmt.Description,
			Amount:      pmt.Amount,
		})
		data.Total += pmt.Amount
	}
	return receiptTmpl.Execute(w, data)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
