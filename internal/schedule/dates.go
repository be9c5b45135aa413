package schedule

import (
	"time"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// DateFormat is the wire format for candidate dates.
const DateFormat = "2006-01-02"

// DateGenerator produces the upcoming calendar dates for a weekly class.
type DateGenerator struct {
	location   *time.Location
	windowDays int
	now        func() time.Time
	logger     *logging.Logger
}

// NewDateGenerator creates a generator anchored to the studio timezone.
// An unknown timezone falls back to UTC rather than failing startup.
func NewDateGenerator(timezone string, windowDays int, logger *logging.Logger) *DateGenerator {
	if logger == nil {
		logger = logging.Default()
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("unknown studio timezone, using UTC", "timezone", timezone, "error", err)
		loc = time.UTC
	}
	if windowDays <= 0 {
		windowDays = 14
	}
	return &DateGenerator{
		location:   loc,
		windowDays: windowDays,
		now:        time.Now,
		logger:     logger,
	}
}

// WithNow overrides the clock, for tests.
func (g *DateGenerator) WithNow(now func() time.Time) *DateGenerator {
	if now != nil {
		g.now = now
	}
	return g
}

// UpcomingDates returns the dates within the booking window whose weekday
// matches dayKey, ordered ascending, ISO formatted. Today counts when it
// matches, even if the class hour has already passed. Unknown day keys yield
// an empty slice, never an error.
func (g *DateGenerator) UpcomingDates(dayKey string) []string {
	target, ok := ParseDayKey(dayKey)
	if !ok {
		return nil
	}

	// Anchor at midday so DST transitions cannot shift the calendar date.
	now := g.now().In(g.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, g.location)
	limit := today.AddDate(0, 0, g.windowDays)

	offset := (int(target) - int(today.Weekday()) + 7) % 7
	candidate := today.AddDate(0, 0, offset)

	var dates []string
	for !candidate.After(limit) {
		dates = append(dates, candidate.Format(DateFormat))
		candidate = candidate.AddDate(0, 0, 7)
	}
	return dates
}

// Contains reports whether date is one of the candidates for dayKey.
func (g *DateGenerator) Contains(dayKey, date string) bool {
	for _, d := range g.UpcomingDates(dayKey) {
		if d == date {
			return true
		}
	}
	return false
}
