package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lockwatch/internal/deriver"
	"github.com/alexanderramin/lockwatch/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// DefaultUser is tracked when no username is given.
const DefaultUser = "JohnDoe"

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Track   service.TrackService
	Summary service.SummaryService

	// OutputPath is where the report workbook is written, shown to the
	// user after a run.
	OutputPath string
}

// NewRootCmd creates the top-level "lockwatch" command. Invoked bare it runs
// the tracking pipeline; subcommands cover everything else.
func NewRootCmd(app *App) *cobra.Command {
	root := newTrackCmd(app)
	root.Use = "lockwatch [username]"
	root.Short = "Track per-day active sessions from the Windows Security event log"
	root.Long = "lockwatch reads lock/unlock events from the Security event log for one user,\n" +
		"derives active-usage sessions and maintains a per-day spreadsheet report.\n\n" +
		"Reading the Security log requires administrator privileges."
	root.SilenceUsage = true

	root.AddCommand(
		newSummaryCmd(app),
	)

	return root
}

// normalizeUserFlag accepts --username as an alias for --user.
func normalizeUserFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "username" {
		name = "user"
	}
	return pflag.NormalizedName(name)
}

// resolveUser applies the flag-over-positional precedence with the fixed
// fallback.
func resolveUser(flagUser string, args []string) string {
	if flagUser != "" {
		return flagUser
	}
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return DefaultUser
}

func parseTiebreak(s string) (deriver.Policy, error) {
	switch strings.ToLower(s) {
	case "first":
		return deriver.FirstUnlockWins, nil
	case "last":
		return deriver.LastUnlockWins, nil
	default:
		return "", fmt.Errorf("invalid --tiebreak %q (want first or last)", s)
	}
}
