package jobs

import (
	"context"
	"time"

	"palanquee-backend/internal/logger"
)

// MarkOverdueGearLoans marks open loans as OVERDUE once they pass their
// due date and notifies the borrower.
func (jr *JobRunner) MarkOverdueGearLoans() {
	jr.runWithRecovery("MarkOverdueGearLoans", func() {
		ctx := context.Background()

		query := `
			UPDATE gear_loans gl
			SET status = 'OVERDUE',
			    updated_on = NOW()
			FROM gear_items gi, members m
			WHERE gl.item_id = gi.id
			  AND gl.member_id = m.id
			  AND gl.status = 'OPEN'
			  AND gl.due_on < $1
			RETURNING gl.id, gl.due_on, gi.kind, gi.tag, m.email, m.name
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to mark overdue gear loans", "error", err)
			return
		}
		defer rows.Close()

		type overdueLoan struct {
			id    int64
			dueOn time.Time
			kind  string
			tag   string
			email string
			name  string
		}

		var overdue []overdueLoan
		for rows.Next() {
			var loan overdueLoan
			if err := rows.Scan(&loan.id, &loan.dueOn, &loan.kind, &loan.tag, &loan.email, &loan.name); err != nil {
				logger.Error("Failed to scan overdue loan", "error", err)
				continue
			}
			overdue = append(overdue, loan)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue loans", "error", err)
			return
		}

		logger.Info("Marked gear loans as overdue", "count", len(overdue))

		for _, loan := range overdue {
			dueOn := loan.dueOn.Format("Mon 2 Jan 2006")
			if err := jr.services.Email.SendGearOverdueNotice(ctx, loan.email, loan.name, loan.kind, loan.tag, dueOn); err != nil {
				logger.Error("Failed to send overdue gear notice",
					"loan_id", loan.id,
					"email", loan.email,
					"error", err)
				continue
			}
			logger.Debug("Sent overdue gear notice",
				"loan_id", loan.id,
				"item_kind", loan.kind,
				"email", loan.email)
		}
	})
}
