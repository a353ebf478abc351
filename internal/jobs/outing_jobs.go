package jobs

import (
	"context"
	"fmt"
	"time"

	"palanquee-backend/internal/logger"
)

// SendOutingReminders emails every confirmed participant of outings that
// start within the configured lead window. A reminder is recorded per
// reservation so reruns of the job do not mail twice.
func (jr *JobRunner) SendOutingReminders() {
	jr.runWithRecovery("SendOutingReminders", func() {
		ctx := context.Background()

		lead := time.Duration(jr.config.Outings.ReminderLeadHours) * time.Hour
		now := time.Now().UTC()

		query := `
			SELECT r.id, o.title, o.date_time, o.location,
			       m.email, m.name
			FROM reservations r
			JOIN outings o ON r.outing_id = o.id
			JOIN members m ON r.member_id = m.id
			WHERE r.status = 'CONFIRMED'
			  AND r.reminder_sent_on IS NULL
			  AND o.status = 'ACTIVE'
			  AND o.date_time > $1
			  AND o.date_time <= $2
		`

		rows, err := jr.db.QueryContext(ctx, query, now, now.Add(lead))
		if err != nil {
			logger.Error("Failed to query upcoming reservations", "error", err)
			return
		}
		defer rows.Close()

		type reminder struct {
			reservationID int64
			title         string
			dateTime      time.Time
			location      string
			email         string
			name          string
		}

		var pending []reminder
		for rows.Next() {
			var rem reminder
			if err := rows.Scan(&rem.reservationID, &rem.title, &rem.dateTime, &rem.location, &rem.email, &rem.name); err != nil {
				logger.Error("Failed to scan upcoming reservation", "error", err)
				continue
			}
			pending = append(pending, rem)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating upcoming reservations", "error", err)
			return
		}

		count := 0
		for _, rem := range pending {
			when := rem.dateTime.Format("Mon 2 Jan 2006 15:04")
			if err := jr.services.Email.SendOutingReminder(ctx, rem.email, rem.name, rem.title, when, rem.location); err != nil {
				logger.Error("Failed to send outing reminder",
					"reservation_id", rem.reservationID,
					"email", rem.email,
					"error", err)
				continue
			}

			_, err := jr.db.ExecContext(ctx,
				`UPDATE reservations SET reminder_sent_on = NOW() WHERE id = $1`,
				rem.reservationID)
			if err != nil {
				logger.Error("Failed to record reminder", "reservation_id", rem.reservationID, "error", err)
			}

			count++
			logger.Debug("Sent outing reminder",
				"reservation_id", rem.reservationID,
				"outing", rem.title,
				"email", rem.email)
		}

		logger.Info("Outing reminders sent", "count", count)
	})
}

// ArchivePastOutings moves ACTIVE outings whose start time is older than
// the grace window into ARCHIVED so they drop out of the upcoming lists.
func (jr *JobRunner) ArchivePastOutings() {
	jr.runWithRecovery("ArchivePastOutings", func() {
		ctx := context.Background()

		grace := time.Duration(jr.config.Outings.ArchiveGraceHours) * time.Hour
		cutoff := time.Now().UTC().Add(-grace)

		query := `
			UPDATE outings
			SET status = 'ARCHIVED',
			    updated_on = NOW()
			WHERE status = 'ACTIVE'
			  AND date_time < $1
			RETURNING id, title, date_time
		`

		rows, err := jr.db.QueryContext(ctx, query, cutoff)
		if err != nil {
			logger.Error("Failed to archive past outings", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				id       int64
				title    string
				dateTime time.Time
			)
			if err := rows.Scan(&id, &title, &dateTime); err != nil {
				logger.Error("Failed to scan archived outing", "error", err)
				continue
			}
			count++
			logger.Debug("Archived outing",
				"outing_id", id,
				"title", title,
				"date_time", fmt.Sprint(dateTime))
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating archived outings", "error", err)
			return
		}

		logger.Info("Archived past outings", "count", count)
	})
}
