package booking

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

// Result is the verdict of a single-field validator.  Validators are
// pure: same input, same verdict, no I/O.  A missing value always
// produces a "required" message distinct from the malformed-value
// message so the UI can tell the two cases apart.
type Result struct {
	Valid   bool   `json:"is_valid"`
	Message string `json:"message"`
}

func ok() Result                  { return Result{Valid: true} }
func fail(msg string) Result      { return Result{Valid: false, Message: msg} }
func required(field string) Result { return fail(field + " is required") }

var (
	nicOldRe   = regexp.MustCompile(`^\d{9}[VX]$`)
	nicNewRe   = regexp.MustCompile(`^\d{12}$`)
	emailRe    = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	clockRe    = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^0\d{9}$`),    // local landline/mobile, 0XXXXXXXXX
		regexp.MustCompile(`^\+94\d{9}$`), // international with plus
		regexp.MustCompile(`^94\d{9}$`),   // international without plus
	}
	platePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[A-Z]{3}-\d{4}$`),           // modern three-letter series
		regexp.MustCompile(`^[A-Z]{2}-\d{4}$`),           // older two-letter series
		regexp.MustCompile(`^\d{2}-\d{4}$`),              // legacy numeric series
		regexp.MustCompile(`^[A-Z]{2} [A-Z]{2,3}-\d{4}$`), // with province prefix
	}
	plateUnpunctuated = regexp.MustCompile(`^([A-Z]{2} )?([A-Z]{2,3}|\d{2})(\d{4})$`)
)

// ValidateNIC checks a national identity card number.  Two shapes are
// accepted: the legacy form of 9 digits plus a V or X suffix, where
// digits 3-5 encode a day of year, and the 12-digit form, where digits
// 1-4 encode a birth year and digits 5-7 a day of year.  The day of
// year must lie in [1, 366] and the year must not be in the future.
func ValidateNIC(nic string) Result {
	nic = strings.ToUpper(strings.TrimSpace(nic))
	if nic == "" {
		return required("NIC")
	}
	switch {
	case nicOldRe.MatchString(nic):
		day, _ := strconv.Atoi(nic[2:5])
		if day < 1 || day > 366 {
			return fail("NIC day-of-year digits must be between 001 and 366")
		}
		return ok()
	case nicNewRe.MatchString(nic):
		year, _ := strconv.Atoi(nic[0:4])
		if year > time.Now().UTC().Year() {
			return fail("NIC birth year cannot be in the future")
		}
		day, _ := strconv.Atoi(nic[4:7])
		if day < 1 || day > 366 {
			return fail("NIC day-of-year digits must be between 001 and 366")
		}
		return ok()
	default:
		return fail("NIC must be 9 digits followed by V/X or 12 digits")
	}
}

// ValidatePhone checks a phone number against the accepted national
// mobile and landline shapes.
func ValidatePhone(phone string) Result {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return required("phone number")
	}
	for _, re := range phonePatterns {
		if re.MatchString(phone) {
			return ok()
		}
	}
	return fail("phone number format is not recognised")
}

// ValidateEmail checks a simple local@domain.tld shape with the RFC
// length cap of 254 characters.
func ValidateEmail(email string) Result {
	email = strings.TrimSpace(email)
	if email == "" {
		return required("email")
	}
	if len(email) > 254 {
		return fail("email must not exceed 254 characters")
	}
	if !emailRe.MatchString(email) {
		return fail("email format is invalid")
	}
	return ok()
}

// ValidateLicensePlate checks a vehicle plate against the accepted
// regional formats.  Plates are compared upper-cased; use
// FormatLicensePlate to canonicalise an unpunctuated plate first.
func ValidateLicensePlate(plate string) Result {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if plate == "" {
		return required("license plate")
	}
	for _, re := range platePatterns {
		if re.MatchString(plate) {
			return ok()
		}
	}
	return fail("license plate format is not recognised")
}

// FormatLicensePlate inserts the separator into an otherwise valid
// unpunctuated plate ("ABC1234" -> "ABC-1234").  Already punctuated or
// unrecognisable input is returned upper-cased and trimmed as-is.
func FormatLicensePlate(plate string) string {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if m := plateUnpunctuated.FindStringSubmatch(plate); m != nil {
		return m[1] + m[2] + "-" + m[3]
	}
	return plate
}

// ValidateDuration checks a session duration in hours: positive, at
// most 8 and a multiple of half an hour.  A zero value is treated as
// missing.
func ValidateDuration(hours float64) Result {
	if hours == 0 {
		return required("duration")
	}
	if hours < MinDurationHours || hours > MaxDurationHours {
		return fail(fmt.Sprintf("duration must be between %.1f and %.0f hours", MinDurationHours, MaxDurationHours))
	}
	if math.Mod(hours*2, 1) != 0 {
		return fail("duration must be a multiple of 0.5 hours")
	}
	return ok()
}

// ValidateSlotNumber checks a charging point index against the station
// capacity.  A zero value is treated as missing.
func ValidateSlotNumber(slot, maxSlots int) Result {
	if slot == 0 {
		return required("slot number")
	}
	if slot < 1 || slot > maxSlots {
		return fail(fmt.Sprintf("slot number must be between 1 and %d", maxSlots))
	}
	return ok()
}

// ValidateBookingDate checks a civil date against the advance-booking
// window [today, today+7] at day granularity.  The comparison happens
// in UTC; now is injected so the engine and tests share one clock.
func ValidateBookingDate(date string, now time.Time) Result {
	date = strings.TrimSpace(date)
	if date == "" {
		return required("date")
	}
	if _, err := time.ParseInLocation(model.DateLayout, date, time.UTC); err != nil {
		return fail("date must be in YYYY-MM-DD format")
	}
	if !CanCreate(date, now) {
		return fail(fmt.Sprintf("date must be within %d days from today", AdvanceBookingDays))
	}
	return ok()
}

// ValidateClockTime checks a zero-padded 24-hour wall-clock value
// ("HH:MM").  Zero padding is enforced so stored times compare
// lexicographically in temporal order.
func ValidateClockTime(value string) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return required("time")
	}
	if !clockRe.MatchString(value) {
		return fail("time must be in 24-hour HH:MM format")
	}
	return ok()
}

// MinPasswordLength is the shortest accepted account password.
const MinPasswordLength = 8

// ValidatePassword checks the minimum credential length.  Only length
// is enforced here; composition rules are a UI concern.
func ValidatePassword(password string) Result {
	if password == "" {
		return required("password")
	}
	if len(password) < MinPasswordLength {
		return fail(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return ok()
}

// clockMinutes converts a canonical "HH:MM" value to minutes since
// midnight.  Callers must validate the value first.
func clockMinutes(value string) int {
	h, _ := strconv.Atoi(value[0:2])
	m, _ := strconv.Atoi(value[3:5])
	return h*60 + m
}

// durationFromRange derives the session length in hours from a valid
// clock range.  The second return is false when the range cannot yield
// a duration, in which case the range validators will report the
// underlying problem.
func durationFromRange(start, end string) (float64, bool) {
	if !ValidateClockTime(start).Valid || !ValidateClockTime(end).Valid || start >= end {
		return 0, false
	}
	return float64(clockMinutes(end)-clockMinutes(start)) / 60, true
}
