package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/lockwatch/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	var flagUser string
	var days int

	cmd := &cobra.Command{
		Use:   "summary [username]",
		Short: "Show recorded activity from the local history store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := resolveUser(flagUser, args)

			totals, err := app.Summary.Summary(context.Background(), user, days)
			if err != nil {
				return err
			}
			if len(totals) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No recorded activity for %s in the last %d days\n", user, days)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDayTotals(totals))
			return nil
		},
	}

	cmd.Flags().SetNormalizeFunc(normalizeUserFlag)
	cmd.Flags().StringVarP(&flagUser, "user", "u", "", "Windows username (overrides the positional argument)")
	cmd.Flags().IntVar(&days, "days", 14, "How many days back to summarize")

	return cmd
}
