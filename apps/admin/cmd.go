package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/somolms/somo/core/content"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sqlx.DB
	contentSvc *content.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate up|down|status|version - run database migrations")
	fmt.Println("  addpackage -title TITLE -entrypoint PATH - register a content package")
	fmt.Println("  listpackages - list registered content packages")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addPackageCmd := flag.NewFlagSet("addpackage", flag.ExitOnError)
	addPackageTitle := addPackageCmd.String("title", "", "The package title.")
	addPackageSlug := addPackageCmd.String("slug", "", "Optional URL slug; derived from the title when omitted.")
	addPackageEntry := addPackageCmd.String("entrypoint", "", "The launch path relative to the package content root.")
	addPackageVersion := addPackageCmd.String("version", content.Version12, "The SCORM version: 1.2 or 2004.")
	addPackageScore := addPackageCmd.Int("passingscore", 0, "The passing score percentage.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addpackage":
		if err := addPackageCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addPackageTitle == "" || *addPackageEntry == "" {
			addPackageCmd.Usage()
			return errHelp
		}
		return cli.addPackage(*addPackageTitle, *addPackageSlug, *addPackageEntry, *addPackageVersion, *addPackageScore)
	case "listpackages":
		return cli.listPackages()
	default:
		cli.printUsage()
		return errHelp
	}
}
