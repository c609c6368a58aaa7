package hours

import (
	"testing"
	"time"
	_ "time/tzdata"

	"restaurandes/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 14, hour, minute, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Schedule
	}{
		{input: "8:00 AM - 10:00 PM", want: Schedule{Open: 8 * 60, Close: 22 * 60}},
		{input: "8:00 AM – 10:00 PM", want: Schedule{Open: 8 * 60, Close: 22 * 60}},
		{input: "8:00 AM — 10:00 PM", want: Schedule{Open: 8 * 60, Close: 22 * 60}},
		{input: "11 PM–2 AM", want: Schedule{Open: 23 * 60, Close: 2 * 60}},
		{input: "7:30 a. m. - 3:00 p. m.", want: Schedule{Open: 7*60 + 30, Close: 15 * 60}},
		{input: "12 PM - 12 AM", want: Schedule{Open: 12 * 60, Close: 0}},
		{input: "08:00 - 17:30", want: Schedule{Open: 8 * 60, Close: 17*60 + 30}},
		{input: "18:00 - 24:00", want: Schedule{Open: 18 * 60, Close: 24 * 60}},
		{input: "Lunes a Viernes 7 a 19", want: Schedule{Open: 7 * 60, Close: 19 * 60}},
		{input: "6 - 10 pm", want: Schedule{Open: 18 * 60, Close: 22 * 60}},
		{input: "12 - 3 PM", want: Schedule{Open: 12 * 60, Close: 15 * 60}},
		{input: "9 AM - 11", want: Schedule{Open: 9 * 60, Close: 11 * 60}},
		{input: "Abierto 24 horas", want: Schedule{AlwaysOpen: true}},
		{input: "24/7", want: Schedule{AlwaysOpen: true}},
		{input: "9:00 AM - 9:00 AM", want: Schedule{AlwaysOpen: true}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Unrecognized(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "Closed", "Cerrado los domingos", "25:00 - 26:00", "13 PM - 2 AM", "8:75 - 10:00"} {
		_, err := Parse(input)
		assert.True(t, errors.Is(err, ErrUnrecognizedFormat), "input %q", input)
	}
}

func TestParse_SharedMeridiemMustRunForward(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"10 - 2 PM", "11 AM - 2", "9 - 9 PM"} {
		_, err := Parse(input)
		assert.True(t, errors.Is(err, ErrUnrecognizedFormat), "input %q", input)
	}

	// the stored flag decides instead of a backwards window
	assert.False(t, IsOpen("10 - 2 PM", at(3, 0), false))
	assert.True(t, IsOpen("11 AM - 2", at(12, 0), true))
}

func TestSchedule_IsOpenAt(t *testing.T) {
	t.Parallel()

	daytime := Schedule{Open: 8 * 60, Close: 22 * 60}
	assert.False(t, daytime.IsOpenAt(at(7, 59)))
	assert.True(t, daytime.IsOpenAt(at(8, 0)), "opening minute is inclusive")
	assert.True(t, daytime.IsOpenAt(at(21, 59)))
	assert.False(t, daytime.IsOpenAt(at(22, 0)), "closing minute is exclusive")

	overnight := Schedule{Open: 23 * 60, Close: 2 * 60}
	assert.True(t, overnight.IsOpenAt(at(0, 30)))
	assert.True(t, overnight.IsOpenAt(at(23, 15)))
	assert.False(t, overnight.IsOpenAt(at(10, 0)))
	assert.False(t, overnight.IsOpenAt(at(2, 0)))

	assert.True(t, Schedule{AlwaysOpen: true}.IsOpenAt(at(4, 0)))
}

func TestIsOpen_CrossesMidnight(t *testing.T) {
	t.Parallel()

	assert.True(t, IsOpen("11 PM–2 AM", at(0, 30), false))
	assert.False(t, IsOpen("11 PM–2 AM", at(10, 0), true))
}

func TestIsOpen_FallsBackWhenUnparsable(t *testing.T) {
	t.Parallel()

	assert.True(t, IsOpen("Call ahead", at(3, 0), true))
	assert.False(t, IsOpen("Call ahead", at(12, 0), false))
}

func TestIsOpen_UsesWallClockOfGivenLocation(t *testing.T) {
	t.Parallel()

	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	// 03:00 UTC is 22:00 the previous day in Bogotá (UTC-5).
	instant := time.Date(2025, time.March, 14, 3, 0, 0, 0, time.UTC)
	assert.False(t, IsOpen("8:00 AM - 11:00 PM", instant, false))
	assert.True(t, IsOpen("8:00 AM - 11:00 PM", instant.In(bogota), false))
}
