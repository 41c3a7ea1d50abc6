package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/lockwatch/internal/cli/formatter"
	"github.com/alexanderramin/lockwatch/internal/service"
	"github.com/spf13/cobra"
)

func newTrackCmd(app *App) *cobra.Command {
	var (
		flagUser    string
		lookback    time.Duration
		minSession  time.Duration
		sinceLast   bool
		screensaver bool
		tiebreak    string
	)

	cmd := &cobra.Command{
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := parseTiebreak(tiebreak)
			if err != nil {
				return err
			}

			req := service.TrackRequest{
				User:               resolveUser(flagUser, args),
				SinceLast:          sinceLast,
				MinSession:         minSession,
				Tiebreak:           policy,
				IncludeScreensaver: screensaver,
			}
			if lookback > 0 {
				req.Since = time.Now().Add(-lookback)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Tracking user: %s\n", req.User)

			res, err := app.Track.Track(context.Background(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d events for user %s\n\n", res.EventCount, res.User)
			fmt.Fprint(out, formatter.FormatDayRecords(res.Days))
			if len(res.Days) > 0 {
				fmt.Fprintf(out, "\n%d sessions over %d days, %s active\n",
					res.SessionCount(), len(res.Days), formatter.FormatDuration(res.Total()))
				fmt.Fprintf(out, "Report updated: %s\n", app.OutputPath)
			}
			return nil
		},
	}

	cmd.Flags().SetNormalizeFunc(normalizeUserFlag)
	cmd.Flags().StringVarP(&flagUser, "user", "u", "", "Windows username to track (overrides the positional argument)")
	cmd.Flags().DurationVar(&lookback, "lookback", 0, "Only read events newer than this (0 reads the whole log)")
	cmd.Flags().DurationVar(&minSession, "min-session", 0, "Discard sessions shorter than this (default 5m)")
	cmd.Flags().BoolVar(&sinceLast, "since-last", false, "Resume from the last ingested event")
	cmd.Flags().BoolVar(&screensaver, "screensaver", false, "Treat screensaver engage/dismiss as lock/unlock")
	cmd.Flags().StringVar(&tiebreak, "tiebreak", "first", "Session start when unlocks repeat: first or last")

	return cmd
}
