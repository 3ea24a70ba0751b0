package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hamasa/core/assignment"
	"github.com/trezcool/hamasa/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	sqlDB    *sql.DB
	usrSvc   *user.Service
	asgSvc   *assignment.Service
	validate *validator.Validate
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate [COMMAND] - run database migrations (default: up)")
	fmt.Println("  adduser -code CODE -name NAME [-role admin|learner] [-email EMAIL] [-coins N] - provision an account")
	fmt.Println("  seedassignments -file FILE - load the assignment catalog from a JSON file")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserCode := addUserCmd.String("code", "", "The 5-character access code.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserRole := addUserCmd.String("role", user.RoleLearner, "The user's role: admin or learner.")
	addUserEmail := addUserCmd.String("email", "", "Optional contact email for notifications.")
	addUserCoins := addUserCmd.Int("coins", 0, "Starting coin balance (learners only).")

	seedCmd := flag.NewFlagSet("seedassignments", flag.ExitOnError)
	seedFile := seedCmd.String("file", "", "Path to a JSON file holding the assignment catalog.")

	switch args[1] {
	case "migrate":
		return cli.migrate(args[2:])
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserCode == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserCode, *addUserName, *addUserRole, *addUserEmail, *addUserCoins)
	case "seedassignments":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedFile == "" {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seedAssignments(*seedFile)
	default:
		cli.printUsage()
		return errHelp
	}
}
