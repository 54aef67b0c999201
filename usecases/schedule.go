package usecases

import (
	"time"

	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
)

// Schedule is the date triple of a task. Any field may be absent.
type Schedule struct {
	StartDate    *models.Date
	EndDate      *models.Date
	DurationDays *int
}

// NormalizeSchedule derives the missing member of the triple, counting days
// inclusively:
//
//	start + duration, no end  -> end = start + (duration - 1) days
//	start + end, no duration  -> duration = (end - start) + 1
//
// Everything else is returned as given. An end before the start and a
// duration below one day are rejected.
func NormalizeSchedule(s Schedule) (Schedule, error) {
	if s.DurationDays != nil && *s.DurationDays < 1 {
		return s, errs.NewValidationError("duration_days", "duration_days must be at least 1")
	}
	if s.StartDate != nil && s.EndDate != nil && dayOf(*s.EndDate).Before(dayOf(*s.StartDate)) {
		return s, errs.NewValidationError("end_date", "end_date must be on or after start_date")
	}

	switch {
	case s.StartDate != nil && s.DurationDays != nil && s.EndDate == nil:
		end := models.Date(dayOf(*s.StartDate).AddDate(0, 0, *s.DurationDays-1))
		s.EndDate = &end
	case s.StartDate != nil && s.EndDate != nil && s.DurationDays == nil:
		days := DaysBetween(*s.StartDate, *s.EndDate) + 1
		s.DurationDays = &days
	}
	return s, nil
}

// DaysBetween counts calendar days from a to b, ignoring time of day.
func DaysBetween(a, b models.Date) int {
	from, to := dayOf(a), dayOf(b)
	return int(to.Sub(from).Hours() / 24)
}

func dayOf(d models.Date) time.Time {
	t := time.Time(d)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Day builds a calendar date.
func Day(year int, month time.Month, day int) models.Date {
	return models.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
