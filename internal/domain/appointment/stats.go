package appointment

import (
	"math"
	"time"
)

// Stats are derived counts over an appointment list. They are computed from
// the already-fetched rows, not by a separate aggregation query.
type Stats struct {
	Today            int `json:"today"`
	Last30Days       int `json:"last_30_days"`
	Pending          int `json:"pending"`
	ConfirmationRate int `json:"confirmation_rate"`
}

// ComputeStats derives the dashboard numbers from the given appointments.
// Day boundaries use now's location. The confirmation rate considers only the
// trailing 30 days: round(100 * confirmed / (confirmed + scheduled)), or 0
// when there are no confirmed or scheduled appointments in the window.
func ComputeStats(appointments []*Appointment, now time.Time) Stats {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	windowStart := now.Add(-30 * 24 * time.Hour)

	var s Stats
	var confirmed, scheduled int
	for _, a := range appointments {
		if !a.ScheduledAt.Before(dayStart) && a.ScheduledAt.Before(dayEnd) {
			s.Today++
		}
		if a.Status == "agendado" {
			s.Pending++
		}

		inWindow := !a.ScheduledAt.Before(windowStart) && !a.ScheduledAt.After(now)
		if !inWindow {
			continue
		}
		s.Last30Days++
		switch a.Status {
		case "confirmado":
			confirmed++
		case "agendado":
			scheduled++
		}
	}

	if confirmed+scheduled > 0 {
		s.ConfirmationRate = int(math.Round(100 * float64(confirmed) / float64(confirmed+scheduled)))
	}
	return s
}
