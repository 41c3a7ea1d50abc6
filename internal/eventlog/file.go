package eventlog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/lockwatch/internal/domain"
)

// FileReader replays a JSON-lines export of Security log entries. Each line
// holds one record:
//
//	{"time":"2025-03-10T09:00:00Z","event_id":4801,"user":"JohnDoe"}
//
// Blank lines are skipped; lines that fail to parse or carry an unmonitored
// event ID are ignored, mirroring how the live reader skips events it cannot
// decode.
type FileReader struct {
	Path string
}

func NewFileReader(path string) *FileReader {
	return &FileReader{Path: path}
}

type exportedEvent struct {
	Time    time.Time `json:"time"`
	EventID uint16    `json:"event_id"`
	User    string    `json:"user"`
}

func (r *FileReader) Read(ctx context.Context, q Query) ([]domain.Event, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("opening event export %s: %v: %w", r.Path, err, ErrSourceUnavailable)
	}
	defer f.Close()

	var events []domain.Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec exportedEvent
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if !strings.EqualFold(rec.User, q.User) {
			continue
		}
		if !q.Since.IsZero() && rec.Time.Before(q.Since) {
			continue
		}
		kind, ok := domain.KindForEventID(rec.EventID, q.IncludeScreensaver)
		if !ok {
			continue
		}
		events = append(events, domain.Event{Time: rec.Time.Local(), Kind: kind})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading event export %s: %w", r.Path, err)
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	return events, nil
}
