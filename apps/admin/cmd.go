package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB // nil when the local store is active
	usrSvc  *user.Service
	stdSvc  *student.Service
	feesSvc *fees.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate GOOSE_COMMAND [args]           - run database migrations (remote backend only)")
	fmt.Println("  seed                                   - load the default users, fee configurations and bus stops")
	fmt.Println("  importstudents -file FILE.csv          - bulk-register students from a CSV file")
	fmt.Println("  resetpassword -username USERNAME       - reset a user's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")

	importStudentsCmd := flag.NewFlagSet("importstudents", flag.ExitOnError)
	importStudentsFile := importStudentsCmd.String("file", "", "Path to the CSV file to import.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	case "importstudents":
		if err := importStudentsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importStudentsFile == "" {
			importStudentsCmd.Usage()
			return errHelp
		}
		return cli.importStudents(*importStudentsFile)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
