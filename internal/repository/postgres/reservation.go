package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/repository"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

// Register performs the capacity decision and the insert in one transaction.
// The outing row is locked first so concurrent registrations for the same
// outing serialize: the confirmed count read below cannot go stale before
// the insert commits.
func (r *reservationRepository) Register(ctx context.Context, outingID, memberID int64, intent domain.CarpoolIntent, seatsOffered int32) (*domain.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var maxParticipants int32
	var outingStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT max_participants, status FROM outings WHERE id = $1 FOR UPDATE`,
		outingID).Scan(&maxParticipants, &outingStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if outingStatus != string(domain.OutingStatusActive) {
		return nil, domain.ErrNotFound
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reservations WHERE outing_id = $1 AND member_id = $2 AND status <> 'CANCELLED')`,
		outingID, memberID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateReservation
	}

	var confirmed int32
	err = tx.QueryRowContext(ctx,
		`SELECT count(*) FROM reservations WHERE outing_id = $1 AND status = 'CONFIRMED'`,
		outingID).Scan(&confirmed)
	if err != nil {
		return nil, err
	}

	status := domain.ReservationStatusConfirmed
	if confirmed >= maxParticipants {
		status = domain.ReservationStatusWaitlisted
	}

	now := time.Now()
	res := &domain.Reservation{
		OutingID:      outingID,
		MemberID:      memberID,
		Status:        status,
		CarpoolIntent: intent,
		SeatsOffered:  seatsOffered,
		CreatedOn:     formatTime(now),
		UpdatedOn:     formatTime(now),
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO reservations (outing_id, member_id, status, carpool_intent, seats_offered, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		outingID, memberID, res.Status, res.CarpoolIntent, res.SeatsOffered, now, now).Scan(&res.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// CancelAndPromote cancels the member's active reservation and, when the
// cancelled one held a confirmed seat, promotes the oldest waitlisted
// reservation. Both writes share one transaction behind the outing row lock,
// so the freed seat cannot be double-filled and a crash between the two
// writes cannot leave the seat silently lost.
func (r *reservationRepository) CancelAndPromote(ctx context.Context, outingID, memberID int64) (*domain.Reservation, *domain.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var outingExists int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM outings WHERE id = $1 FOR UPDATE`, outingID).Scan(&outingExists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	cancelled := &domain.Reservation{OutingID: outingID, MemberID: memberID}
	var wasStatus string
	var createdOn time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT id, status, carpool_intent, seats_offered, present, created_on
		 FROM reservations
		 WHERE outing_id = $1 AND member_id = $2 AND status IN ('CONFIRMED', 'WAITLISTED')
		 FOR UPDATE`,
		outingID, memberID).Scan(&cancelled.ID, &wasStatus, &cancelled.CarpoolIntent, &cancelled.SeatsOffered, &cancelled.Present, &createdOn)
	if errors.Is(err, sql.ErrNoRows) {
		// Already cancelled or never registered: no side effects.
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE reservations SET status = 'CANCELLED', cancelled_on = $1, updated_on = $1 WHERE id = $2`,
		now, cancelled.ID)
	if err != nil {
		return nil, nil, err
	}
	cancelled.Status = domain.ReservationStatusCancelled
	cancelledOn := formatTime(now)
	cancelled.CancelledOn = &cancelledOn
	cancelled.CreatedOn = formatTime(createdOn)
	cancelled.UpdatedOn = formatTime(now)

	var promoted *domain.Reservation
	if wasStatus == string(domain.ReservationStatusConfirmed) {
		// Promotion is strictly FIFO by creation order; id breaks ties for
		// rows created in the same instant.
		next := &domain.Reservation{OutingID: outingID, Status: domain.ReservationStatusConfirmed}
		var nextCreated time.Time
		err = tx.QueryRowContext(ctx,
			`SELECT id, member_id, carpool_intent, seats_offered, created_on
			 FROM reservations
			 WHERE outing_id = $1 AND status = 'WAITLISTED'
			 ORDER BY created_on ASC, id ASC
			 LIMIT 1
			 FOR UPDATE`,
			outingID).Scan(&next.ID, &next.MemberID, &next.CarpoolIntent, &next.SeatsOffered, &nextCreated)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Empty waitlist, nothing to promote.
		case err != nil:
			return nil, nil, err
		default:
			_, err = tx.ExecContext(ctx,
				`UPDATE reservations SET status = 'CONFIRMED', updated_on = $1 WHERE id = $2`,
				now, next.ID)
			if err != nil {
				return nil, nil, err
			}
			next.CreatedOn = formatTime(nextCreated)
			next.UpdatedOn = formatTime(now)
			promoted = next
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return cancelled, promoted, nil
}

func (r *reservationRepository) GetActive(ctx context.Context, outingID, memberID int64) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	var createdOn, updatedOn time.Time
	var cancelledOn sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, outing_id, member_id, status, carpool_intent, seats_offered, present, cancelled_on, created_on, updated_on
		 FROM reservations
		 WHERE outing_id = $1 AND member_id = $2 AND status IN ('CONFIRMED', 'WAITLISTED')`,
		outingID, memberID).Scan(&res.ID, &res.OutingID, &res.MemberID, &res.Status, &res.CarpoolIntent,
		&res.SeatsOffered, &res.Present, &cancelledOn, &createdOn, &updatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	res.CancelledOn = formatNullTime(cancelledOn)
	res.CreatedOn = formatTime(createdOn)
	res.UpdatedOn = formatTime(updatedOn)
	return res, nil
}

func (r *reservationRepository) SetPresence(ctx context.Context, outingID, memberID int64, present bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET present = $1, updated_on = $2
		 WHERE outing_id = $3 AND member_id = $4 AND status IN ('CONFIRMED', 'WAITLISTED')`,
		present, time.Now(), outingID, memberID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) ListByOuting(ctx context.Context, outingID int64) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, outing_id, member_id, status, carpool_intent, seats_offered, present, cancelled_on, created_on, updated_on
		 FROM reservations
		 WHERE outing_id = $1 AND status <> 'CANCELLED'
		 ORDER BY created_on ASC, id ASC`,
		outingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (r *reservationRepository) ListByMember(ctx context.Context, memberID int64, includeCancelled bool) ([]domain.Reservation, error) {
	query := `SELECT id, outing_id, member_id, status, carpool_intent, seats_offered, present, cancelled_on, created_on, updated_on
	          FROM reservations WHERE member_id = $1`
	if !includeCancelled {
		query += ` AND status <> 'CANCELLED'`
	}
	query += ` ORDER BY created_on DESC`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (r *reservationRepository) CountConfirmed(ctx context.Context, outingID int64) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM reservations WHERE outing_id = $1 AND status = 'CONFIRMED'`,
		outingID).Scan(&count)
	return count, err
}

func scanReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		var createdOn, updatedOn time.Time
		var cancelledOn sql.NullTime
		if err := rows.Scan(&res.ID, &res.OutingID, &res.MemberID, &res.Status, &res.CarpoolIntent,
			&res.SeatsOffered, &res.Present, &cancelledOn, &createdOn, &updatedOn); err != nil {
			return nil, err
		}
		res.CancelledOn = formatNullTime(cancelledOn)
		res.CreatedOn = formatTime(createdOn)
		res.UpdatedOn = formatTime(updatedOn)
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
