package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"course-service/internal/models"
	"course-service/internal/repositories"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db    *sqlx.DB
	users repositories.UserRepository
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate                                      - apply the schema")
	fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL -role ROLE   - create or update a user, the password is prompted")
	fmt.Fprintln(cli.out, "  listusers [-role ROLE]                       - print accounts as a table")
	fmt.Fprintln(cli.out, "  seed                                         - create the demo teacher and student")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserName := addUserCmd.String("name", "", "Login name.")
	addUserEmail := addUserCmd.String("email", "", "Email address.")
	addUserRole := addUserCmd.String("role", models.RoleStudent, "One of admin, teacher, student.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Shortcut for -role admin.")

	listUsersCmd := flag.NewFlagSet("listusers", flag.ContinueOnError)
	listUsersCmd.SetOutput(cli.out)
	listUsersRole := listUsersCmd.String("role", "", "Only list users with this role.")

	switch args[1] {
	case "migrate":
		return cli.migrate()
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		role := *addUserRole
		if *addUserAdmin {
			role = models.RoleAdmin
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, role, string(pwd))
	case "listusers":
		if err := listUsersCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listUsers(*listUsersRole)
	case "seed":
		return cli.seed()
	default:
		cli.printUsage()
		return errHelp
	}
}
