package hora

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type Notification struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type MissingDay struct {
	Fecha       string  `json:"fecha"`
	FaltanHoras float64 `json:"faltanHoras"`
}

type NotificationsResponse struct {
	Desde         string         `json:"desde"`
	Hasta         string         `json:"hasta"`
	Total         int            `json:"total"`
	Notifications []Notification `json:"notifications"`
	Missing       []MissingDay   `json:"missing"`
}

// weekWindow resolves the evaluated slice of the current work week.
// desde is always this week's Monday (the prior Monday on Sundays).
// hasta is capped at today while the week is in progress and pinned
// to Friday on Saturdays.
func weekWindow(now time.Time) (desde, hasta string, weekend bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	wd := int(today.Weekday()) // 0=Sunday .. 6=Saturday
	deltaToMonday := 1 - wd
	if wd == 0 {
		deltaToMonday = -6
	}
	monday := today.AddDate(0, 0, deltaToMonday)
	friday := monday.AddDate(0, 0, 4)

	weekend = wd >= 5
	end := today
	if weekend {
		end = friday
	}
	return monday.Format(dateLayout), end.Format(dateLayout), weekend
}

// buildNotifications derives the weekly summary from per-date minute
// totals. Weekend dates inside the window are never counted against
// the target.
func buildNotifications(desde, hasta string, weekend bool, byDate map[string]int, targetMinutes int) NotificationsResponse {
	start, _ := time.Parse(dateLayout, desde)
	end, _ := time.Parse(dateLayout, hasta)

	missing := make([]MissingDay, 0, 5)
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		wd := cursor.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		key := cursor.Format(dateLayout)
		done := byDate[key]
		if done < targetMinutes {
			faltan := float64(targetMinutes-done) / 60
			missing = append(missing, MissingDay{
				Fecha:       key,
				FaltanHoras: math.Round(faltan*100) / 100,
			})
		}
	}

	var notifications []Notification
	if len(missing) > 0 {
		dates := make([]string, len(missing))
		for i, m := range missing {
			dates[i] = m.Fecha
		}
		message := fmt.Sprintf("Te faltan completar horas en: %s.", strings.Join(dates, ", "))
		if weekend {
			message = fmt.Sprintf("Tenés días pendientes de completar esta semana: %s.", strings.Join(dates, ", "))
		}
		notifications = append(notifications, Notification{
			ID:      fmt.Sprintf("pending-week-%s-%s", desde, hasta),
			Type:    "warning",
			Title:   "Horas pendientes",
			Message: message,
		})
	} else {
		notifications = append(notifications, Notification{
			ID:      fmt.Sprintf("ok-week-%s-%s", desde, hasta),
			Type:    "info",
			Title:   "Semana al día",
			Message: "No tenés horas pendientes en los días hábiles de esta semana.",
		})
	}

	return NotificationsResponse{
		Desde:         desde,
		Hasta:         hasta,
		Total:         len(notifications),
		Notifications: notifications,
		Missing:       missing,
	}
}
