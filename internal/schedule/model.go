package schedule

import (
	"strings"
	"time"
)

// ClassOffering is an entry of the weekly class grid. Reference data, never
// mutated after load.
type ClassOffering struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DayKey          string `json:"day_key"`
	TimeOfDay       string `json:"time_of_day"`
	DurationMinutes int    `json:"duration_minutes"`
	Instructor      string `json:"instructor,omitempty"`
	Description     string `json:"description,omitempty"`
	TrialEligible   bool   `json:"trial_eligible"`
}

// dayKeys maps Spanish and English day names to time.Weekday.
var dayKeys = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"miércoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"sábado":    time.Saturday,
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseDayKey resolves a bilingual day name to a weekday.
func ParseDayKey(dayKey string) (time.Weekday, bool) {
	wd, ok := dayKeys[strings.ToLower(strings.TrimSpace(dayKey))]
	return wd, ok
}
