package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/repository"
)

type carpoolRepository struct {
	db *sql.DB
}

func NewCarpoolRepository(db *sql.DB) repository.CarpoolRepository {
	return &carpoolRepository{db: db}
}

func (r *carpoolRepository) Create(ctx context.Context, cp *domain.Carpool) error {
	now := time.Now()
	cp.CreatedOn = formatTime(now)
	cp.UpdatedOn = formatTime(now)
	return r.db.QueryRowContext(ctx,
		`INSERT INTO carpools (outing_id, driver_id, departure_time, meeting_point, available_seats, notes, map_link, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		cp.OutingID, cp.DriverID, cp.DepartureTime, cp.MeetingPoint, cp.AvailableSeats, cp.Notes, cp.MapLink, now, now).Scan(&cp.ID)
}

func (r *carpoolRepository) GetByID(ctx context.Context, id int64) (*domain.Carpool, error) {
	cp := &domain.Carpool{}
	var createdOn, updatedOn time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT c.id, c.outing_id, c.driver_id, c.departure_time, c.meeting_point, c.available_seats, c.notes, c.map_link,
		        (SELECT count(*) FROM carpool_passengers p WHERE p.carpool_id = c.id), c.created_on, c.updated_on
		 FROM carpools c WHERE c.id = $1`,
		id).Scan(&cp.ID, &cp.OutingID, &cp.DriverID, &cp.DepartureTime, &cp.MeetingPoint, &cp.AvailableSeats,
		&cp.Notes, &cp.MapLink, &cp.PassengerCount, &createdOn, &updatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	cp.CreatedOn = formatTime(createdOn)
	cp.UpdatedOn = formatTime(updatedOn)
	return cp, nil
}

func (r *carpoolRepository) Update(ctx context.Context, cp *domain.Carpool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE carpools SET departure_time = $1, meeting_point = $2, available_seats = $3, notes = $4, map_link = $5, updated_on = $6
		 WHERE id = $7`,
		cp.DepartureTime, cp.MeetingPoint, cp.AvailableSeats, cp.Notes, cp.MapLink, time.Now(), cp.ID)
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

// Delete removes the carpool; passenger bookings go with it via the
// ON DELETE CASCADE on carpool_passengers.carpool_id. The service lists the
// passengers first so it can notify each displaced member.
func (r *carpoolRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM carpools WHERE id = $1`, id)
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

func (r *carpoolRepository) ListByOuting(ctx context.Context, outingID int64) ([]domain.Carpool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.outing_id, c.driver_id, c.departure_time, c.meeting_point, c.available_seats, c.notes, c.map_link,
		        (SELECT count(*) FROM carpool_passengers p WHERE p.carpool_id = c.id), c.created_on, c.updated_on
		 FROM carpools c WHERE c.outing_id = $1
		 ORDER BY c.departure_time ASC, c.id ASC`,
		outingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var carpools []domain.Carpool
	for rows.Next() {
		var cp domain.Carpool
		var createdOn, updatedOn time.Time
		if err := rows.Scan(&cp.ID, &cp.OutingID, &cp.DriverID, &cp.DepartureTime, &cp.MeetingPoint,
			&cp.AvailableSeats, &cp.Notes, &cp.MapLink, &cp.PassengerCount, &createdOn, &updatedOn); err != nil {
			return nil, err
		}
		cp.CreatedOn = formatTime(createdOn)
		cp.UpdatedOn = formatTime(updatedOn)
		carpools = append(carpools, cp)
	}
	return carpools, rows.Err()
}

// BookSeat locks the carpool row and then the outing row before checking the
// booking rules: the seat ceiling, and the one-booking-per-outing rule. The
// uniqueness rule spans every carpool of the outing, so the carpool lock alone
// is not enough — two bookings against different carpools of the same outing
// must queue on the outing row or both EXISTS checks pass.
func (r *carpoolRepository) BookSeat(ctx context.Context, carpoolID, memberID int64) (*domain.CarpoolPassenger, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var outingID int64
	var availableSeats int32
	err = tx.QueryRowContext(ctx,
		`SELECT outing_id, available_seats FROM carpools WHERE id = $1 FOR UPDATE`,
		carpoolID).Scan(&outingID, &availableSeats)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var lockedOutingID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM outings WHERE id = $1 FOR UPDATE`, outingID).Scan(&lockedOutingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var alreadyBooked bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM carpool_passengers p
		   JOIN carpools c ON c.id = p.carpool_id
		   WHERE c.outing_id = $1 AND p.member_id = $2)`,
		outingID, memberID).Scan(&alreadyBooked)
	if err != nil {
		return nil, err
	}
	if alreadyBooked {
		return nil, domain.ErrDuplicateBooking
	}

	var passengers int32
	err = tx.QueryRowContext(ctx,
		`SELECT count(*) FROM carpool_passengers WHERE carpool_id = $1`,
		carpoolID).Scan(&passengers)
	if err != nil {
		return nil, err
	}
	if passengers >= availableSeats {
		return nil, domain.ErrCarpoolFull
	}

	now := time.Now()
	booking := &domain.CarpoolPassenger{
		CarpoolID: carpoolID,
		MemberID:  memberID,
		CreatedOn: formatTime(now),
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO carpool_passengers (carpool_id, member_id, created_on) VALUES ($1, $2, $3) RETURNING id`,
		carpoolID, memberID, now).Scan(&booking.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *carpoolRepository) CancelSeat(ctx context.Context, carpoolID, memberID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM carpool_passengers WHERE carpool_id = $1 AND member_id = $2`,
		carpoolID, memberID)
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

func (r *carpoolRepository) ListPassengers(ctx context.Context, carpoolID int64) ([]domain.CarpoolPassenger, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, carpool_id, member_id, created_on FROM carpool_passengers WHERE carpool_id = $1 ORDER BY created_on ASC`,
		carpoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passengers []domain.CarpoolPassenger
	for rows.Next() {
		var p domain.CarpoolPassenger
		var createdOn time.Time
		if err := rows.Scan(&p.ID, &p.CarpoolID, &p.MemberID, &createdOn); err != nil {
			return nil, err
		}
		p.CreatedOn = formatTime(createdOn)
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}
