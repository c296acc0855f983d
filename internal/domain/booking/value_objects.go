package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const slotMinutes = 30

var (
	ErrEmptyWindow = errors.New("start time must be before end time")
	ErrOffGrid     = errors.New("times must be on 30-minute boundaries")
)

// TimeWindow is a half-open interval [start, end). Both boundaries must sit
// on the half-hour grid (minute 0 or 30, no seconds).
type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !start.Before(end) {
		return TimeWindow{}, ErrEmptyWindow
	}
	if !onGrid(start) || !onGrid(end) {
		return TimeWindow{}, ErrOffGrid
	}
	return TimeWindow{start: start, end: end}, nil
}

func ReconstructTimeWindow(start, end time.Time) TimeWindow {
	return TimeWindow{start: start, end: end}
}

func onGrid(t time.Time) bool {
	return t.Minute()%slotMinutes == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

func (w TimeWindow) Start() time.Time { return w.start }
func (w TimeWindow) End() time.Time   { return w.end }

func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

// Overlaps reports whether two half-open intervals intersect. Touching
// boundaries (w.end == o.start) do not overlap.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return !(w.end.Compare(o.start) <= 0 || o.end.Compare(w.start) <= 0)
}

// Contains uses the half-open convention: start <= t < end.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

// ContainsInclusive includes both boundaries: start <= t <= end. Check-in
// uses this; everything else uses the half-open Contains.
func (w TimeWindow) ContainsInclusive(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.end)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}

// Token is the opaque string a booking holder presents at check-in.
type Token string

func NewToken() Token {
	return Token(uuid.NewString())
}

func (t Token) String() string { return string(t) }

func (t Token) IsEmpty() bool { return t == "" }
