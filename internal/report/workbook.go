// Package report renders per-day session records into a styled .xlsx
// workbook, merging into the existing file when one is present.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/lockwatch/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ErrFileLocked means the target workbook is held open by another process,
// typically a spreadsheet editor with an exclusive lock.
var ErrFileLocked = errors.New("report file is locked by another process")

const (
	// SheetName is the single worksheet all rows live on.
	SheetName = "Activity Log"

	headerColor    = "2F5597"
	sessionColor   = "E2EFDA"
	totalColor     = "F2C5A0"
	alternateColor = "F8F9FA"

	clockLayout = "15:04"
	colWidth    = 12.0
)

// Writer merges DayRecords into the workbook at Path. Each calendar date
// owns exactly one row; rewriting the same records is idempotent.
type Writer struct {
	Path string
}

func NewWriter(path string) *Writer {
	return &Writer{Path: path}
}

// span is one session's start/end as wall-clock strings. The workbook stores
// times of day only; the date lives in the row key.
type span struct {
	Start string
	End   string
}

// Write loads any existing workbook into a date-keyed table, replaces the
// rows for the freshly derived dates, and rewrites the whole sheet. The
// workbook is saved to a temp file and renamed over the target so an
// interrupted run never leaves a half-written file behind.
func (w *Writer) Write(days []domain.DayRecord) error {
	table, err := w.loadExisting()
	if err != nil {
		return err
	}

	for _, day := range days {
		spans := make([]span, 0, len(day.Sessions))
		for _, s := range day.Sessions {
			spans = append(spans, span{
				Start: s.Start.Format(clockLayout),
				End:   s.End.Format(clockLayout),
			})
		}
		table[day.Date] = spans
	}

	f, err := w.render(table)
	if err != nil {
		return err
	}
	defer f.Close()

	// The temp file keeps the .xlsx suffix and lives next to the target so
	// the rename stays on one filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(w.Path), "lockwatch-*.xlsx")
	if err != nil {
		return classifySaveErr(fmt.Errorf("creating temp report: %w", err))
	}
	if err := f.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return classifySaveErr(fmt.Errorf("saving report: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return classifySaveErr(fmt.Errorf("saving report: %w", err))
	}
	if err := os.Rename(tmp.Name(), w.Path); err != nil {
		os.Remove(tmp.Name())
		return classifySaveErr(fmt.Errorf("replacing report %s: %w", w.Path, err))
	}
	return nil
}

// loadExisting parses the current workbook into a date-keyed table. A
// missing file yields an empty table, a workbook without the activity sheet
// is rejected, and a file another process holds open surfaces as
// ErrFileLocked.
func (w *Writer) loadExisting() (map[string][]span, error) {
	f, err := excelize.OpenFile(w.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string][]span{}, nil
		}
		return nil, classifySaveErr(fmt.Errorf("opening existing report %s: %w", w.Path, err))
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		// Refuse to rewrite a workbook we did not produce.
		return nil, fmt.Errorf("existing file %s is not a lockwatch report: %w", w.Path, err)
	}

	table := make(map[string][]span)
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		date := strings.TrimSpace(row[0])
		if _, err := time.Parse(domain.DayKey, date); err != nil {
			continue
		}

		var spans []span
		// Columns run Date, then Start/End/Duration triplets, then Total.
		// Durations are formulas and get recomputed on rewrite.
		for c := 1; c+1 < len(row); c += 3 {
			start := clockFromRaw(row[c])
			end := clockFromRaw(row[c+1])
			if start == "" || end == "" {
				break
			}
			spans = append(spans, span{Start: start, End: end})
		}
		if len(spans) > 0 {
			table[date] = spans
		}
	}
	return table, nil
}

// render rewrites the whole table as a fresh workbook.
func (w *Writer) render(table map[string][]span) (*excelize.File, error) {
	dates := make([]string, 0, len(table))
	maxSessions := 0
	for date, spans := range table {
		dates = append(dates, date)
		if len(spans) > maxSessions {
			maxSessions = len(spans)
		}
	}
	sort.Strings(dates)
	if maxSessions == 0 {
		maxSessions = 1
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := w.writeHeader(f, st, maxSessions); err != nil {
		return nil, err
	}

	totalCol := 2 + 3*maxSessions
	for i, date := range dates {
		if err := w.writeRow(f, st, i, date, table[date], maxSessions); err != nil {
			return nil, err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(totalCol)
	if err := f.SetColWidth(SheetName, "A", lastCol, colWidth); err != nil {
		return nil, fmt.Errorf("setting column widths: %w", err)
	}

	// Keep the header row and date column visible while scrolling.
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return nil, fmt.Errorf("freezing panes: %w", err)
	}
	if err := f.SetRowHeight(SheetName, 1, 25); err != nil {
		return nil, fmt.Errorf("setting header height: %w", err)
	}

	return f, nil
}

func (w *Writer) writeHeader(f *excelize.File, st styles, maxSessions int) error {
	headers := []string{"Date"}
	for i := 1; i <= maxSessions; i++ {
		headers = append(headers,
			fmt.Sprintf("Session %d Start", i),
			fmt.Sprintf("Session %d End", i),
			fmt.Sprintf("Session %d Duration", i),
		)
	}
	headers = append(headers, "Daily Total")

	for c, h := range headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(SheetName, "A1", last, st.header)
}

func (w *Writer) writeRow(f *excelize.File, st styles, index int, date string, spans []span, maxSessions int) error {
	row := index + 2
	odd := index%2 == 1

	timeStyle, durStyle := st.timeEven, st.durEven
	if odd {
		timeStyle, durStyle = st.timeOdd, st.durOdd
	}

	dateCell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetCellValue(SheetName, dateCell, date); err != nil {
		return fmt.Errorf("writing date %s: %w", date, err)
	}
	if err := f.SetCellStyle(SheetName, dateCell, dateCell, st.date); err != nil {
		return err
	}

	var durCells []string
	for i := 0; i < maxSessions; i++ {
		startCell, _ := excelize.CoordinatesToCellName(2+3*i, row)
		endCell, _ := excelize.CoordinatesToCellName(3+3*i, row)
		durCell, _ := excelize.CoordinatesToCellName(4+3*i, row)
		durCells = append(durCells, durCell)

		if i < len(spans) {
			if err := f.SetCellValue(SheetName, startCell, clockFraction(spans[i].Start)); err != nil {
				return fmt.Errorf("writing session start: %w", err)
			}
			if err := f.SetCellValue(SheetName, endCell, clockFraction(spans[i].End)); err != nil {
				return fmt.Errorf("writing session end: %w", err)
			}
			// Duration stays a live formula so edits in the sheet recompute.
			// MOD wraps the subtraction: a session attributed to its start
			// date can end past midnight, leaving the end clock below the
			// start clock.
			formula := fmt.Sprintf("MOD(%s-%s,1)", endCell, startCell)
			if err := f.SetCellFormula(SheetName, durCell, formula); err != nil {
				return fmt.Errorf("writing duration formula: %w", err)
			}
		}

		if err := f.SetCellStyle(SheetName, startCell, endCell, timeStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, durCell, durCell, durStyle); err != nil {
			return err
		}
	}

	totalCell, _ := excelize.CoordinatesToCellName(2+3*maxSessions, row)
	formula := fmt.Sprintf("SUM(%s)", strings.Join(durCells, ","))
	if err := f.SetCellFormula(SheetName, totalCell, formula); err != nil {
		return fmt.Errorf("writing total formula: %w", err)
	}
	return f.SetCellStyle(SheetName, totalCell, totalCell, st.total)
}

type styles struct {
	header   int
	date     int
	timeEven int
	timeOdd  int
	durEven  int
	durOdd   int
	total    int
}

func newStyles(f *excelize.File) (styles, error) {
	clockFmt := "hh:mm"
	elapsedFmt := "[h]:mm"
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	thin := borders(1)

	var st styles
	var err error

	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      solidFill(headerColor),
		Alignment: center,
		Border:    borders(2),
	})
	if err != nil {
		return st, fmt.Errorf("creating header style: %w", err)
	}

	st.date, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10},
		Fill:      solidFill(sessionColor),
		Alignment: center,
		Border:    thin,
	})
	if err != nil {
		return st, fmt.Errorf("creating date style: %w", err)
	}

	timeStyle := func(fill string) (int, error) {
		s := &excelize.Style{Alignment: center, Border: thin, CustomNumFmt: &clockFmt}
		if fill != "" {
			s.Fill = solidFill(fill)
		}
		return f.NewStyle(s)
	}
	durStyle := func(fill string) (int, error) {
		s := &excelize.Style{Alignment: center, Border: thin, CustomNumFmt: &elapsedFmt}
		if fill != "" {
			s.Fill = solidFill(fill)
		}
		return f.NewStyle(s)
	}

	if st.timeEven, err = timeStyle(""); err != nil {
		return st, fmt.Errorf("creating time style: %w", err)
	}
	if st.timeOdd, err = timeStyle(alternateColor); err != nil {
		return st, fmt.Errorf("creating time style: %w", err)
	}
	if st.durEven, err = durStyle(""); err != nil {
		return st, fmt.Errorf("creating duration style: %w", err)
	}
	if st.durOdd, err = durStyle(alternateColor); err != nil {
		return st, fmt.Errorf("creating duration style: %w", err)
	}

	st.total, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         solidFill(totalColor),
		Alignment:    center,
		Border:       thin,
		CustomNumFmt: &elapsedFmt,
	})
	if err != nil {
		return st, fmt.Errorf("creating total style: %w", err)
	}
	return st, nil
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

func borders(style int) []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	out := make([]excelize.Border, len(sides))
	for i, side := range sides {
		out[i] = excelize.Border{Type: side, Style: style, Color: "000000"}
	}
	return out
}

// clockFraction converts "HH:MM" into the Excel day-fraction serial.
func clockFraction(clock string) float64 {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0
	}
	return float64(t.Hour()*3600+t.Minute()*60) / 86400.0
}

// clockFromRaw normalizes a raw cell value back to "HH:MM". Raw values are
// day-fraction serials for rows this writer produced, but hand-edited sheets
// may hold literal clock strings.
func clockFromRaw(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if frac, err := strconv.ParseFloat(raw, 64); err == nil {
		secs := int(math.Round(frac*86400)) % 86400
		if secs < 0 {
			secs += 86400
		}
		return fmt.Sprintf("%02d:%02d", secs/3600, (secs%3600)/60)
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(clockLayout)
		}
	}
	return ""
}

// classifySaveErr maps editor-style exclusive locks onto ErrFileLocked so
// the caller can tell the user to close the spreadsheet.
func classifySaveErr(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if errors.Is(err, os.ErrPermission) ||
		strings.Contains(msg, "sharing violation") ||
		strings.Contains(msg, "used by another process") {
		return fmt.Errorf("%v: %w", err, ErrFileLocked)
	}
	return err
}
