package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/lockwatch/internal/cli"
	"github.com/alexanderramin/lockwatch/internal/cli/formatter"
	"github.com/alexanderramin/lockwatch/internal/db"
	"github.com/alexanderramin/lockwatch/internal/eventlog"
	"github.com/alexanderramin/lockwatch/internal/report"
	"github.com/alexanderramin/lockwatch/internal/repository"
	"github.com/alexanderramin/lockwatch/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := hintFor(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.lockwatch/lockwatch.db
	dbPath := os.Getenv("LOCKWATCH_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".lockwatch", "lockwatch.db")
	}

	// Report path: env var or activity_log.xlsx in the working directory.
	outputPath := os.Getenv("LOCKWATCH_OUTPUT")
	if outputPath == "" {
		outputPath = "activity_log.xlsx"
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// LOCKWATCH_EVENTS replays a JSON-lines export instead of the live
	// Security log, for development off a Windows box.
	var reader eventlog.Reader
	if exportPath := os.Getenv("LOCKWATCH_EVENTS"); exportPath != "" {
		reader = eventlog.NewFileReader(exportPath)
	} else {
		reader = eventlog.NewSystemReader()
	}

	sessionRepo := repository.NewSQLiteSessionRepo(database)
	checkpointRepo := repository.NewSQLiteCheckpointRepo(database)
	writer := report.NewWriter(outputPath)

	app := &cli.App{
		Track:      service.NewTrackService(reader, sessionRepo, checkpointRepo, writer),
		Summary:    service.NewSummaryService(sessionRepo),
		OutputPath: outputPath,
	}

	formatter.EnableColor(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// hintFor turns the known failure modes into the action the user must take;
// none of them succeed on retry without it.
func hintFor(err error) string {
	switch {
	case errors.Is(err, eventlog.ErrAccessDenied):
		return "Reading the Security event log requires administrator privileges. Re-run from an elevated prompt."
	case errors.Is(err, eventlog.ErrSourceUnavailable):
		return "The Security event log could not be read. Check that the Windows Event Log service is running, or set LOCKWATCH_EVENTS to an exported event file."
	case errors.Is(err, report.ErrFileLocked):
		return "The report spreadsheet is open in another application. Close it and re-run."
	default:
		return ""
	}
}
