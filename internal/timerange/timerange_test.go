package timerange

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, date, start, end string) Range {
	t.Helper()
	r, err := New(date, start, end)
	require.NoError(t, err)
	return r
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:00", want: "09:00"},
		{in: "09:30:00", want: "09:30"},
		{in: "23:59:59", want: "23:59"},
		{in: "24:00", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "09-00", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, "09:00", Quantize(NewClock(9, 0)).String())
	assert.Equal(t, "09:00", Quantize(NewClock(9, 29)).String())
	assert.Equal(t, "09:30", Quantize(NewClock(9, 30)).String())
	assert.Equal(t, "09:30", Quantize(NewClock(9, 59)).String())

	c, err := ParseClock("14:45:30")
	require.NoError(t, err)
	assert.Equal(t, "14:30:00", Quantize(c).SQL())
}

func TestNew_Validation(t *testing.T) {
	_, err := New("2024-06-01", "09:15", "10:00")
	assert.ErrorIs(t, err, ErrInvalidTimeGranularity)

	_, err = New("2024-06-01", "09:00", "10:00:30")
	assert.ErrorIs(t, err, ErrInvalidTimeGranularity)

	_, err = New("2024-06-01", "10:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = New("2024-06-01", "11:00", "02:00")
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = New("01/06/2024", "09:00", "10:00")
	assert.True(t, errors.Is(err, ErrInvalidDate))

	r := mustRange(t, "2024-06-01", "09:00:00", "10:30")
	assert.Equal(t, "2024-06-01 09:00:00", r.StartDateTime())
	assert.Equal(t, "2024-06-01 10:30:00", r.EndDateTime())
	assert.Equal(t, "2024-06-01 [09:00, 10:30)", r.String())
}

func TestOverlaps(t *testing.T) {
	base := mustRange(t, "2024-06-01", "09:00", "12:00")

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"identical", "09:00", "12:00", true},
		{"inside", "10:00", "10:30", true},
		{"covering", "08:00", "13:00", true},
		{"left partial", "08:00", "09:30", true},
		{"right partial", "11:30", "12:30", true},
		{"adjacent before", "08:00", "09:00", false},
		{"adjacent after", "12:00", "13:00", false},
		{"disjoint", "14:00", "15:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := mustRange(t, "2024-06-01", tt.start, tt.end)
			assert.Equal(t, tt.want, base.Overlaps(o))
			assert.Equal(t, tt.want, o.Overlaps(base), "overlap is symmetric")
		})
	}

	other := mustRange(t, "2024-06-02", "09:00", "12:00")
	assert.False(t, base.Overlaps(other))
}

func TestContainmentOverlaps(t *testing.T) {
	outer := mustRange(t, "2024-06-01", "09:00", "12:00")
	inner := mustRange(t, "2024-06-01", "10:00", "10:30")
	assert.True(t, outer.Overlaps(inner))
	assert.True(t, inner.Overlaps(outer))
}

func TestSlots(t *testing.T) {
	r := mustRange(t, "2024-06-01", "14:00", "15:30")
	var got []string
	for _, c := range r.Slots(SlotMinutes) {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{"14:00", "14:30", "15:00"}, got)
}
