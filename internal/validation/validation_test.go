package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotInput struct {
	Room      string `json:"room" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,clock"`
	EndTime   string `json:"endTime" validate:"required,clock,after_clock=StartTime"`
	Capacity  int    `json:"capacity" validate:"min=1"`
	Day       string `json:"day" validate:"omitempty,weekday"`
	Username  string `json:"username" validate:"omitempty,min=3,username"`
}

func validSlot() slotInput {
	return slotInput{Room: "101", Date: "2024-05-01", StartTime: "10:00", EndTime: "11:00", Capacity: 30}
}

func TestStruct_AcceptsValidInput(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Struct(validSlot()))
	slot := validSlot()
	assert.Nil(t, Struct(&slot))
}

func TestStruct_ReportsFieldsByJSONName(t *testing.T) {
	t.Parallel()

	fields := Struct(slotInput{})
	require.NotNil(t, fields)
	assert.Equal(t, "room is required", fields["room"])
	assert.Equal(t, "date is required", fields["date"])
	assert.Equal(t, "startTime is required", fields["startTime"])
	assert.Equal(t, "endTime is required", fields["endTime"])
	assert.Equal(t, "capacity must be at least 1", fields["capacity"])
}

func TestStruct_FormatRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*slotInput)
		field   string
		message string
	}{
		{"bad date", func(s *slotInput) { s.Date = "05/01/2024" }, "date", "date must be a YYYY-MM-DD date"},
		{"bad clock", func(s *slotInput) { s.StartTime = "10am" }, "startTime", "startTime must be an HH:MM time"},
		{"unpadded hour", func(s *slotInput) { s.StartTime = "9:00" }, "startTime", "startTime must be an HH:MM time"},
		{"unpadded minute", func(s *slotInput) { s.EndTime = "11:5" }, "endTime", "endTime must be an HH:MM time"},
		{"end before start", func(s *slotInput) { s.EndTime = "09:30" }, "endTime", "endTime must be after startTime"},
		{"end equals start", func(s *slotInput) { s.EndTime = "10:00" }, "endTime", "endTime must be after startTime"},
		{"unknown weekday", func(s *slotInput) { s.Day = "Funday" }, "day", "day must be a weekday name"},
		{"short username", func(s *slotInput) { s.Username = "ab" }, "username", "username must be at least 3 characters"},
		{"username charset", func(s *slotInput) { s.Username = "bad name" }, "username", "username may only contain letters, digits, '.', '_' or '-'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			slot := validSlot()
			tc.mutate(&slot)
			fields := Struct(slot)
			require.NotNil(t, fields)
			assert.Equal(t, tc.message, fields[tc.field])
		})
	}
}

func TestCanonicalWeekday(t *testing.T) {
	t.Parallel()

	for i, day := range Weekdays {
		got, ok := CanonicalWeekday(" " + day + " ")
		assert.True(t, ok)
		assert.Equal(t, day, got)
		assert.Equal(t, i, WeekdayIndex(day))
	}

	got, ok := CanonicalWeekday("tHuRsDaY")
	assert.True(t, ok)
	assert.Equal(t, "Thursday", got)

	_, ok = CanonicalWeekday("Someday")
	assert.False(t, ok)
	assert.Equal(t, -1, WeekdayIndex("Someday"))
}

func TestWeekdayOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Wednesday", WeekdayOf(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Sunday", WeekdayOf(time.Date(2024, 5, 5, 9, 0, 0, 0, time.UTC)))
}
