package student

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CSV import format: a header row followed by one row per student with
// exactly 8 ordered columns. Rows with fewer than 8 fields are skipped.
// The export report uses a slightly different column order.
var (
	csvImportHeaders = []string{
		"Admission Number", "Name", "Mobile", "Class", "Division", "Bus Stop", "Bus Number", "Trip Number",
	}
	csvExportHeaders = []string{
		"Admission Number", "Name", "Class", "Division", "Mobile", "Bus Stop", "Bus Number", "Trip Number",
	}
)

// CSVTemplate returns a downloadable import template: the header row plus
// one sample row.
func CSVTemplate() string {
	return strings.Join(csvImportHeaders, ",") + "\n" +
		"1001,John Doe,9876543210,10,A,City Center,1,1\n"
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func parseCSVRow(rec []string) (NewStudent, error) {
	class, err := strconv.Atoi(rec[3])
	if err != nil {
		return NewStudent{}, errors.Wrap(err, "parsing class")
	}
	busNo, err := strconv.Atoi(rec[6])
	if err != nil {
		return NewStudent{}, errors.Wrap(err, "parsing bus number")
	}
	tripNo, err := strconv.Atoi(rec[7])
	if err != nil {
		return NewStudent{}, errors.Wrap(err, "parsing trip number")
	}
	return NewStudent{
		AdmissionNumber: rec[0],
		Name:            rec[1],
		Mobile:          rec[2],
		Class:           class,
		Division:        rec[4],
		BusStop:         rec[5],
		BusNumber:       busNo,
		TripNumber:      tripNo,
	}, nil
}

// ImportCSV registers one student per well-formed row. Short or malformed
// rows are skipped; a row failing validation is reported but does not abort
// the batch, so a batch can partially succeed.
func (svc *Service) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return res, errors.Wrap(err, "reading csv")
	}
	if len(rows) > 0 {
		rows = rows[1:] // header
	}

	for i, rec := range rows {
		if len(rec) < 8 {
			res.Skipped++
			continue
		}
		ns, err := parseCSVRow(rec[:8])
		if err != nil {
			res.Skipped++
			continue
		}
		if err = ns.Validate(svc); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if _, err = svc.Create(ctx, ns); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		res.Imported++
	}
	return res, nil
}

// WriteCSV writes the student report (8 columns) for the given, already
// role-filtered, student set.
func WriteCSV(w io.Writer, students []Student) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvExportHeaders); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, std := range students {
		rec := []string{
			std.AdmissionNumber,
			std.Name,
			strconv.Itoa(std.Class),
			std.Division,
			std.Mobile,
			std.BusStop,
			strconv.Itoa(std.BusNumber),
			strconv.Itoa(std.TripNumber),
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return cw.Error()
}
