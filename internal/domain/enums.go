package domain

type EventKind string

const (
	KindLogon  EventKind = "logon"
	KindLogoff EventKind = "logoff"
	KindLock   EventKind = "lock"
	KindUnlock EventKind = "unlock"
)

// Windows Security log event IDs observed by the tracker.
const (
	EventIDLogon          = 4624
	EventIDLogoff         = 4634
	EventIDLogoffUser     = 4647
	EventIDLock           = 4800
	EventIDUnlock         = 4801
	EventIDScreensaverOn  = 4802
	EventIDScreensaverOff = 4803
)

// KindForEventID maps a Windows Security event ID to an EventKind.
// Screensaver engage/dismiss behave as lock/unlock but are only honored when
// includeScreensaver is set. Returns false for event IDs the tracker does not
// monitor.
func KindForEventID(id uint16, includeScreensaver bool) (EventKind, bool) {
	switch id {
	case EventIDLogon:
		return KindLogon, true
	case EventIDLogoff, EventIDLogoffUser:
		return KindLogoff, true
	case EventIDLock:
		return KindLock, true
	case EventIDUnlock:
		return KindUnlock, true
	case EventIDScreensaverOn:
		if includeScreensaver {
			return KindLock, true
		}
	case EventIDScreensaverOff:
		if includeScreensaver {
			return KindUnlock, true
		}
	}
	return "", false
}
