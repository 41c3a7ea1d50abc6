//go:build windows

package eventlog

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"syscall"
	"time"
	"unsafe"

	"github.com/alexanderramin/lockwatch/internal/domain"
	"golang.org/x/sys/windows"
)

const (
	evtQueryChannelPath      = 0x1
	evtQueryForwardDirection = 0x100
	evtRenderEventXML        = 1

	errNoMoreItems = 259
)

var (
	modwevtapi    = windows.NewLazySystemDLL("wevtapi.dll")
	procEvtQuery  = modwevtapi.NewProc("EvtQuery")
	procEvtNext   = modwevtapi.NewProc("EvtNext")
	procEvtRender = modwevtapi.NewProc("EvtRender")
	procEvtClose  = modwevtapi.NewProc("EvtClose")
)

// SecurityLogReader reads the local Security channel through wevtapi.
type SecurityLogReader struct {
	channel string
}

// NewSystemReader returns a Reader over the local Security event log.
func NewSystemReader() Reader {
	return &SecurityLogReader{channel: "Security"}
}

func (r *SecurityLogReader) Read(ctx context.Context, q Query) ([]domain.Event, error) {
	handle, err := evtQuery(r.channel, buildXPath(q))
	if err != nil {
		if errno, ok := err.(syscall.Errno); ok && errno == windows.ERROR_ACCESS_DENIED {
			return nil, fmt.Errorf("opening %s log: %w", r.channel, ErrAccessDenied)
		}
		return nil, fmt.Errorf("opening %s log: %v: %w", r.channel, err, ErrSourceUnavailable)
	}
	defer evtClose(handle)

	var events []domain.Event
	batch := make([]syscall.Handle, 64)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		returned, err := evtNext(handle, batch)
		if err != nil {
			if errno, ok := err.(syscall.Errno); ok && errno == errNoMoreItems {
				break
			}
			return nil, fmt.Errorf("reading %s log: %v: %w", r.channel, err, ErrSourceUnavailable)
		}
		if returned == 0 {
			break
		}

		for _, h := range batch[:returned] {
			raw, renderErr := renderXML(h)
			evtClose(h)
			if renderErr != nil {
				continue
			}
			if ev, ok := decodeEvent(raw, q); ok {
				events = append(events, ev)
			}
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	return events, nil
}

// buildXPath composes the event-ID and time filter evaluated by the log
// service itself, so unrelated Security entries never cross the API boundary.
func buildXPath(q Query) string {
	ids := []int{
		domain.EventIDLogon,
		domain.EventIDLogoff,
		domain.EventIDLogoffUser,
		domain.EventIDLock,
		domain.EventIDUnlock,
	}
	if q.IncludeScreensaver {
		ids = append(ids, domain.EventIDScreensaverOn, domain.EventIDScreensaverOff)
	}

	clauses := make([]string, len(ids))
	for i, id := range ids {
		clauses[i] = fmt.Sprintf("EventID=%d", id)
	}
	filter := "(" + strings.Join(clauses, " or ") + ")"

	if !q.Since.IsZero() {
		filter += fmt.Sprintf(
			" and TimeCreated[@SystemTime >= '%s']",
			q.Since.UTC().Format("2006-01-02T15:04:05.000Z"),
		)
	}

	return "*[System[" + filter + "]]"
}

type renderedEvent struct {
	XMLName xml.Name `xml:"Event"`
	System  struct {
		EventID     uint16 `xml:"EventID"`
		TimeCreated struct {
			SystemTime string `xml:"SystemTime,attr"`
		} `xml:"TimeCreated"`
	} `xml:"System"`
	EventData struct {
		Data []struct {
			Name  string `xml:"Name,attr"`
			Value string `xml:",chardata"`
		} `xml:"Data"`
	} `xml:"EventData"`
}

func decodeEvent(raw string, q Query) (domain.Event, bool) {
	var ev renderedEvent
	if err := xml.Unmarshal([]byte(raw), &ev); err != nil {
		return domain.Event{}, false
	}

	kind, ok := domain.KindForEventID(ev.System.EventID, q.IncludeScreensaver)
	if !ok {
		return domain.Event{}, false
	}

	if !matchesUser(ev, q.User) {
		return domain.Event{}, false
	}

	ts, err := time.Parse(time.RFC3339Nano, ev.System.TimeCreated.SystemTime)
	if err != nil {
		return domain.Event{}, false
	}
	ts = ts.Local()

	if !q.Since.IsZero() && ts.Before(q.Since) {
		return domain.Event{}, false
	}

	return domain.Event{Time: ts, Kind: kind}, true
}

// matchesUser checks the TargetUserName insert, which carries the account
// name for every monitored event ID.
func matchesUser(ev renderedEvent, user string) bool {
	for _, d := range ev.EventData.Data {
		if d.Name == "TargetUserName" {
			return strings.EqualFold(strings.TrimSpace(d.Value), user)
		}
	}
	return false
}

func evtQuery(channel, query string) (syscall.Handle, error) {
	channelPtr, err := syscall.UTF16PtrFromString(channel)
	if err != nil {
		return 0, err
	}
	queryPtr, err := syscall.UTF16PtrFromString(query)
	if err != nil {
		return 0, err
	}

	r1, _, callErr := procEvtQuery.Call(
		0, // local session
		uintptr(unsafe.Pointer(channelPtr)),
		uintptr(unsafe.Pointer(queryPtr)),
		uintptr(evtQueryChannelPath|evtQueryForwardDirection),
	)
	if r1 == 0 {
		return 0, callErr
	}
	return syscall.Handle(r1), nil
}

func evtNext(query syscall.Handle, events []syscall.Handle) (uint32, error) {
	var returned uint32
	r1, _, err := procEvtNext.Call(
		uintptr(query),
		uintptr(len(events)),
		uintptr(unsafe.Pointer(&events[0])),
		uintptr(2000), // timeout ms
		0,
		uintptr(unsafe.Pointer(&returned)),
	)
	if r1 == 0 {
		return 0, err
	}
	return returned, nil
}

func renderXML(event syscall.Handle) (string, error) {
	var used, props uint32

	// First call sizes the buffer.
	procEvtRender.Call(
		0,
		uintptr(event),
		uintptr(evtRenderEventXML),
		0,
		0,
		uintptr(unsafe.Pointer(&used)),
		uintptr(unsafe.Pointer(&props)),
	)
	if used == 0 {
		return "", fmt.Errorf("rendering event: empty buffer size")
	}

	buf := make([]uint16, used/2+1)
	r1, _, err := procEvtRender.Call(
		0,
		uintptr(event),
		uintptr(evtRenderEventXML),
		uintptr(len(buf)*2),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&used)),
		uintptr(unsafe.Pointer(&props)),
	)
	if r1 == 0 {
		return "", err
	}
	return syscall.UTF16ToString(buf), nil
}

func evtClose(h syscall.Handle) {
	if h != 0 {
		procEvtClose.Call(uintptr(h))
	}
}
