package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateNIC(t *testing.T) {
	cases := []struct {
		name  string
		nic   string
		valid bool
	}{
		{"legacy form", "853661234V", true},
		{"legacy form X suffix", "901231234X", true},
		{"legacy lowercase suffix accepted", "853661234v", true},
		{"legacy day zero", "850001234V", false},
		{"legacy day 367", "853671234V", false},
		{"new form", "200015012345", true},
		{"new form day zero", "200000012345", false},
		{"new form day 367", "200036712345", false},
		{"new form future year", "990115012345", false},
		{"wrong length", "12345", false},
		{"wrong suffix", "853661234Z", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateNIC(tc.nic)
			assert.Equal(t, tc.valid, res.Valid, res.Message)
		})
	}
}

func TestValidateNICRequiredDistinctFromMalformed(t *testing.T) {
	empty := ValidateNIC("")
	bad := ValidateNIC("not-a-nic")
	assert.False(t, empty.Valid)
	assert.False(t, bad.Valid)
	assert.Contains(t, empty.Message, "required")
	assert.NotContains(t, bad.Message, "required")
	assert.NotEqual(t, empty.Message, bad.Message)
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("0771234567").Valid)
	assert.True(t, ValidatePhone("+94771234567").Valid)
	assert.True(t, ValidatePhone("94771234567").Valid)
	assert.True(t, ValidatePhone("0112345678").Valid)
	assert.False(t, ValidatePhone("77123").Valid)
	assert.False(t, ValidatePhone("001234567890").Valid)
	assert.Contains(t, ValidatePhone("").Message, "required")
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("owner@example.com").Valid)
	assert.False(t, ValidateEmail("owner@example").Valid)
	assert.False(t, ValidateEmail("not-an-email").Valid)
	assert.Contains(t, ValidateEmail("").Message, "required")

	long := strings.Repeat("a", 250) + "@x.io"
	assert.False(t, ValidateEmail(long).Valid)
}

func TestValidateLicensePlate(t *testing.T) {
	assert.True(t, ValidateLicensePlate("ABC-1234").Valid)
	assert.True(t, ValidateLicensePlate("AB-1234").Valid)
	assert.True(t, ValidateLicensePlate("12-3456").Valid)
	assert.True(t, ValidateLicensePlate("WP ABC-1234").Valid)
	assert.False(t, ValidateLicensePlate("ABCD-123").Valid)
	assert.Contains(t, ValidateLicensePlate("").Message, "required")
}

func TestFormatLicensePlate(t *testing.T) {
	assert.Equal(t, "ABC-1234", FormatLicensePlate("abc1234"))
	assert.Equal(t, "AB-1234", FormatLicensePlate("AB1234"))
	assert.Equal(t, "12-1234", FormatLicensePlate("121234"))
	assert.Equal(t, "WP ABC-1234", FormatLicensePlate("wp abc1234"))
	// already punctuated input passes through untouched
	assert.Equal(t, "ABC-1234", FormatLicensePlate("ABC-1234"))
	// unrecognisable input is only upper-cased and trimmed
	assert.Equal(t, "???", FormatLicensePlate(" ??? "))
}

func TestValidateDuration(t *testing.T) {
	assert.True(t, ValidateDuration(0.5).Valid)
	assert.True(t, ValidateDuration(2).Valid)
	assert.True(t, ValidateDuration(8).Valid)
	assert.False(t, ValidateDuration(8.5).Valid)
	assert.False(t, ValidateDuration(0.25).Valid)
	assert.False(t, ValidateDuration(1.7).Valid)
	assert.False(t, ValidateDuration(-1).Valid)
	assert.Contains(t, ValidateDuration(0).Message, "required")

	// The bounds message must render both limits as numbers.
	assert.Equal(t, "duration must be between 0.5 and 8 hours", ValidateDuration(9).Message)
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("longenough").Valid)
	assert.False(t, ValidatePassword("short").Valid)
	assert.Contains(t, ValidatePassword("short").Message, "at least 8")
	assert.Contains(t, ValidatePassword("").Message, "required")
}

func TestValidateSlotNumber(t *testing.T) {
	assert.True(t, ValidateSlotNumber(1, 4).Valid)
	assert.True(t, ValidateSlotNumber(4, 4).Valid)
	assert.False(t, ValidateSlotNumber(5, 4).Valid)
	assert.False(t, ValidateSlotNumber(-1, 4).Valid)
	assert.Contains(t, ValidateSlotNumber(0, 4).Message, "required")
}

func TestValidateBookingDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	assert.True(t, ValidateBookingDate("2025-06-01", now).Valid)
	assert.True(t, ValidateBookingDate("2025-06-08", now).Valid)
	assert.False(t, ValidateBookingDate("2025-06-09", now).Valid)
	assert.False(t, ValidateBookingDate("2025-05-31", now).Valid)
	assert.False(t, ValidateBookingDate("junk", now).Valid)
	assert.Contains(t, ValidateBookingDate("", now).Message, "required")
}

func TestValidateClockTime(t *testing.T) {
	assert.True(t, ValidateClockTime("00:00").Valid)
	assert.True(t, ValidateClockTime("23:59").Valid)
	assert.False(t, ValidateClockTime("24:00").Valid)
	assert.False(t, ValidateClockTime("9:00").Valid) // zero padding required
	assert.False(t, ValidateClockTime("09:60").Valid)
	assert.Contains(t, ValidateClockTime("").Message, "required")
}
