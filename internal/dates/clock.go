package dates

import (
	"strings"
	"time"
)

// Clock answers "what day is it" in the canonical zone.
type Clock struct {
	Zone *time.Location
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

// NewClock resolves zoneName (IANA) and falls back to KST when the host has no tzdata
// or the name is empty.
func NewClock(zoneName string) Clock {
	return Clock{Zone: LoadZone(zoneName)}
}

// FixedClock returns a clock whose today is always d.
func FixedClock(d Date) Clock {
	return Clock{
		Zone: KST,
		Now:  func() time.Time { return d.In(KST).Add(12 * time.Hour) },
	}
}

func LoadZone(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultZoneName
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return KST
	}
	return loc
}

func (c Clock) zone() *time.Location {
	if c.Zone == nil {
		return KST
	}
	return c.Zone
}

// Today is the current civil day in the canonical zone.
func (c Clock) Today() Date {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return DateOf(now(), c.zone())
}

// Urgency classifies an end boundary against today.
type Urgency string

const (
	UrgencyNone    Urgency = ""
	UrgencyOverdue Urgency = "overdue"
	UrgencyToday   Urgency = "today"
)

// Classify returns overdue when end is strictly before today, today when equal and
// UrgencyNone otherwise (including a missing end date).
func Classify(end *Date, today Date) Urgency {
	if end == nil || end.IsZero() {
		return UrgencyNone
	}
	switch end.Compare(today) {
	case -1:
		return UrgencyOverdue
	case 0:
		return UrgencyToday
	default:
		return UrgencyNone
	}
}
