package model

// ScheduleSlot is one open operating window in a station's daily
// template.  It is unrelated to booking slot numbers – it describes
// when the station is open, not which charger is taken.
//
// Fields:
//  Start     – window start, "HH:MM:SS".
//  End       – window end, "HH:MM:SS", after Start.
//  Capacity  – how many concurrent sessions the window admits.
//  Available – whether the window is currently offered.
type ScheduleSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Capacity  int    `json:"capacity"`
	Available bool   `json:"available"`
}

// Schedule is the operating-hours template of one station for one civil
// date.  Slots are kept ordered by start time and never overlap; the
// editor rejects an overlapping window on insert.
type Schedule struct {
	StationID string         `json:"station_id"`
	Date      string         `json:"date"`
	Slots     []ScheduleSlot `json:"slots"`
}

// ScheduleClockLayout is the wall-clock layout used by schedule windows.
// Unlike reservation times it carries seconds, matching the upsert wire
// shape.
const ScheduleClockLayout = "15:04:05"
