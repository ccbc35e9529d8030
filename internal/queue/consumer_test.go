package queue

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessageAppendsLine(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "booking.log")
	code := "EE2201"
	ev := BookingCreatedEvent{
		BookingID: 3, TimetableID: 9, UserID: 7, HallID: 1, HallName: "Lab A",
		BookingType: "Lecture", ModuleCode: &code,
		Date: "2024-06-01", StartTime: "10:00", EndTime: "11:00", CreatedAt: "2024-05-30T08:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, handleMessage(body, logPath))
	require.NoError(t, handleMessage(body, logPath))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "booking_id=3")
	assert.Contains(t, lines[0], `hall="Lab A"`)
	assert.Contains(t, lines[0], `what="EE2201"`)
	assert.Contains(t, lines[0], "slot=2024-06-01 10:00-11:00")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "booking.log")
	assert.Error(t, handleMessage([]byte("{not json"), logPath))
	assert.Error(t, handleMessage([]byte(`{"hall_name":"Lab A"}`), logPath))
	_, err := os.Stat(logPath)
	assert.True(t, os.IsNotExist(err))
}

func TestLabel(t *testing.T) {
	name := "Tech Talk"
	assert.Equal(t, "Tech Talk", BookingCreatedEvent{EventName: &name}.Label())
	assert.Equal(t, "Reserved", BookingCreatedEvent{}.Label())
}

func TestSleepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
	assert.True(t, sleep(context.Background(), time.Millisecond))
}
