package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/lockwatch/internal/domain"
)

// FormatDuration renders a duration as "Xh Ym".
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
}

// FormatClock renders a timestamp's time of day as "HH:MM".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// FormatDayTotals renders the per-day summary table.
func FormatDayTotals(totals []domain.DayTotal) string {
	rows := make([][]string, 0, len(totals))
	var grand time.Duration
	sessions := 0
	for _, dt := range totals {
		rows = append(rows, []string{
			dt.Day,
			fmt.Sprintf("%d", dt.Sessions),
			render(StyleGreen, FormatDuration(dt.Total)),
		})
		grand += dt.Total
		sessions += dt.Sessions
	}
	rows = append(rows, []string{
		render(StyleBold, "Total"),
		render(StyleBold, fmt.Sprintf("%d", sessions)),
		render(StyleBold, FormatDuration(grand)),
	})
	return RenderTable([]string{"Date", "Sessions", "Active"}, rows)
}

// FormatDayRecords renders the freshly derived days after a tracking run,
// one line per session plus a daily total.
func FormatDayRecords(days []domain.DayRecord) string {
	if len(days) == 0 {
		return render(StyleDim, "no sessions found") + "\n"
	}

	var rows [][]string
	for _, day := range days {
		for i, s := range day.Sessions {
			date := ""
			if i == 0 {
				date = day.Date
			}
			rows = append(rows, []string{
				date,
				fmt.Sprintf("Session %d", i+1),
				FormatClock(s.Start),
				FormatClock(s.End),
				FormatDuration(s.Duration()),
			})
		}
		rows = append(rows, []string{
			"",
			render(StyleBold, "Daily Total"),
			"",
			"",
			render(StyleGreen, FormatDuration(day.Total())),
		})
	}
	return RenderTable([]string{"Date", "Session", "Start", "End", "Duration"}, rows)
}
