package booking

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

// BuildSchedule validates and assembles a station's operating-hours
// template for one civil date.  Windows are inserted one at a time and
// an insert that overlaps an already accepted window is rejected, so a
// returned schedule is non-overlapping by construction.  Windows are
// returned sorted by start time.
//
// Schedule windows are unrelated to booking slot numbers: they say when
// the station is open, not which charger is taken.
func BuildSchedule(stationID, date string, slots []model.ScheduleSlot) (*model.Schedule, error) {
	if stationID == "" {
		return nil, &FieldValidationError{Field: "station_id", Message: "station_id is required"}
	}
	if date == "" {
		return nil, &FieldValidationError{Field: "date", Message: "date is required"}
	}
	if _, err := time.ParseInLocation(model.DateLayout, date, time.UTC); err != nil {
		return nil, &FieldValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"}
	}
	accepted := make([]model.ScheduleSlot, 0, len(slots))
	for i, s := range slots {
		field := fmt.Sprintf("slots[%d]", i)
		start, err := normalizeScheduleClock(s.Start)
		if err != nil {
			return nil, &FieldValidationError{Field: field, Message: "start must be in HH:MM:SS format"}
		}
		end, err := normalizeScheduleClock(s.End)
		if err != nil {
			return nil, &FieldValidationError{Field: field, Message: "end must be in HH:MM:SS format"}
		}
		if start >= end {
			return nil, &FieldValidationError{Field: field, Message: "end must be after start"}
		}
		if s.Capacity < 1 {
			return nil, &FieldValidationError{Field: field, Message: "capacity must be at least 1"}
		}
		s.Start, s.End = start, end
		for _, prev := range accepted {
			// Half-open overlap; back-to-back windows are fine.
			if prev.Start < s.End && s.Start < prev.End {
				return nil, &FieldValidationError{
					Field:   field,
					Message: fmt.Sprintf("window %s-%s overlaps %s-%s", s.Start, s.End, prev.Start, prev.End),
				}
			}
		}
		accepted = append(accepted, s)
	}
	sort.Slice(accepted, func(i, j int) bool { return accepted[i].Start < accepted[j].Start })
	return &model.Schedule{StationID: stationID, Date: date, Slots: accepted}, nil
}

// normalizeScheduleClock parses an "HH:MM:SS" value and re-renders it
// zero-padded so string comparison matches temporal order.
func normalizeScheduleClock(value string) (string, error) {
	t, err := time.Parse(model.ScheduleClockLayout, strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	return t.Format(model.ScheduleClockLayout), nil
}
