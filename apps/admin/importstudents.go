package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
)

// importStudents bulk-registers students from a local CSV file, using the
// same format as the API upload.
func (cli *commandLine) importStudents(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening csv file")
	}
	defer f.Close()

	res, err := cli.stdSvc.ImportCSV(context.Background(), f)
	if err != nil {
		return err
	}

	std.Printf("imported %d student(s), skipped %d malformed row(s)", res.Imported, res.Skipped)
	for _, e := range res.Errors {
		std.Printf("  %s", e)
	}
	return nil
}
