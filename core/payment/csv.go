package payment

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var csvExportHeaders = []string{
	"Receipt Number", "Student Name", "Admission Number", "Class", "Division",
	"Mobile", "Payment Type", "Description", "Amount", "Date", "Created By",
}

// WriteCSV writes the payment report (11 columns) for the given, already
// role-filtered, payment set. A payment with a missing student is still
// written, with the student block marked as deleted.
func WriteCSV(w io.Writer, payments []Payment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvExportHeaders); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, pmt := range payments {
		name, admNo, class, division, mobile := "[deleted student]", "", "", "", ""
		if !pmt.Orphaned() {
			name = pmt.Student.Name
			admNo = pmt.Student.AdmissionNumber
			class = strconv.Itoa(pmt.Student.Class)
			division = pmt.Student.Division
			mobile = pmt.Student.Mobile
		}
		rec := []string{
			pmt.ReceiptNumber,
			name,
			admNo,
			class,
			division,
			mobile,
			pmt.Type,
			pmt.Description,
			strconv.Itoa(pmt.Amount),
			pmt.CreatedAt.Format("02/01/2006"),
			pmt.CreatedBy,
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return cw.Error()
}
