package hora

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2024-01-01 is a Monday, which makes the week windows easy to pin.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestWeekWindowMidweek(t *testing.T) {
	desde, hasta, weekend := weekWindow(date(2024, time.January, 3)) // Wednesday

	assert.Equal(t, "2024-01-01", desde)
	assert.Equal(t, "2024-01-03", hasta)
	assert.False(t, weekend)
}

func TestWeekWindowFriday(t *testing.T) {
	desde, hasta, weekend := weekWindow(date(2024, time.January, 5))

	assert.Equal(t, "2024-01-01", desde)
	assert.Equal(t, "2024-01-05", hasta)
	assert.True(t, weekend)
}

func TestWeekWindowSaturdayCapsAtFriday(t *testing.T) {
	desde, hasta, weekend := weekWindow(date(2024, time.January, 6))

	assert.Equal(t, "2024-01-01", desde)
	assert.Equal(t, "2024-01-05", hasta)
	assert.True(t, weekend)
}

func TestWeekWindowSundayBelongsToPriorWeek(t *testing.T) {
	desde, hasta, weekend := weekWindow(date(2024, time.January, 7))

	assert.Equal(t, "2024-01-01", desde)
	assert.Equal(t, "2024-01-07", hasta)
	assert.False(t, weekend)
}

func TestBuildNotificationsSingleMissingDay(t *testing.T) {
	byDate := map[string]int{
		"2024-01-01": 540,
		"2024-01-02": 600,
	}

	resp := buildNotifications("2024-01-01", "2024-01-03", false, byDate, 540)

	assert.Equal(t, 1, resp.Total)
	assert.Len(t, resp.Notifications, 1)
	n := resp.Notifications[0]
	assert.Equal(t, "warning", n.Type)
	assert.Equal(t, "pending-week-2024-01-01-2024-01-03", n.ID)
	assert.Contains(t, n.Message, "Te faltan completar horas en: 2024-01-03.")

	assert.Len(t, resp.Missing, 1)
	assert.Equal(t, "2024-01-03", resp.Missing[0].Fecha)
	assert.InDelta(t, 9.00, resp.Missing[0].FaltanHoras, 0.001)
}

func TestBuildNotificationsCompleteWeek(t *testing.T) {
	byDate := map[string]int{
		"2024-01-01": 540,
		"2024-01-02": 540,
		"2024-01-03": 555,
		"2024-01-04": 540,
		"2024-01-05": 540,
	}

	resp := buildNotifications("2024-01-01", "2024-01-05", true, byDate, 540)

	assert.Equal(t, 1, resp.Total)
	assert.Len(t, resp.Notifications, 1)
	n := resp.Notifications[0]
	assert.Equal(t, "info", n.Type)
	assert.Equal(t, "ok-week-2024-01-01-2024-01-05", n.ID)
	assert.Empty(t, resp.Missing)
}

func TestBuildNotificationsPartialDayReportsRemainder(t *testing.T) {
	byDate := map[string]int{
		"2024-01-01": 300,
	}

	resp := buildNotifications("2024-01-01", "2024-01-01", false, byDate, 540)

	assert.Len(t, resp.Missing, 1)
	assert.InDelta(t, 4.00, resp.Missing[0].FaltanHoras, 0.001)
}

func TestBuildNotificationsWeekendWording(t *testing.T) {
	resp := buildNotifications("2024-01-01", "2024-01-05", true, nil, 540)

	assert.Len(t, resp.Notifications, 1)
	assert.Contains(t, resp.Notifications[0].Message, "Tenés días pendientes de completar esta semana:")
	assert.Len(t, resp.Missing, 5)
}

func TestBuildNotificationsSkipsWeekendDates(t *testing.T) {
	// Window running through Sunday must still only evaluate Mon..Fri.
	resp := buildNotifications("2024-01-01", "2024-01-07", false, map[string]int{
		"2024-01-01": 540,
		"2024-01-02": 540,
		"2024-01-03": 540,
		"2024-01-04": 540,
		"2024-01-05": 540,
		"2024-01-06": 0,
		"2024-01-07": 0,
	}, 540)

	assert.Empty(t, resp.Missing)
	assert.Equal(t, "info", resp.Notifications[0].Type)
}
