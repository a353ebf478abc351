package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/repository"
)

type outingRepository struct {
	db *sql.DB
}

func NewOutingRepository(db *sql.DB) repository.OutingRepository {
	return &outingRepository{db: db}
}

const outingColumns = `o.id, o.title, o.description, o.type, o.date_time, o.end_time, o.location,
	o.max_participants, o.organizer_id, o.staff_only, o.carpool_enabled, o.status,
	(SELECT count(*) FROM reservations r WHERE r.outing_id = o.id AND r.status = 'CONFIRMED'),
	o.created_on, o.updated_on`

func (r *outingRepository) Create(ctx context.Context, o *domain.Outing) error {
	now := time.Now()
	o.Status = domain.OutingStatusActive
	o.CreatedOn = formatTime(now)
	o.UpdatedOn = formatTime(now)
	return r.db.QueryRowContext(ctx,
		`INSERT INTO outings (title, description, type, date_time, end_time, location, max_participants, organizer_id, staff_only, carpool_enabled, status, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`,
		o.Title, o.Description, o.Type, o.DateTime, o.EndTime, o.Location, o.MaxParticipants,
		o.OrganizerID, o.StaffOnly, o.CarpoolEnabled, o.Status, now, now).Scan(&o.ID)
}

func (r *outingRepository) GetByID(ctx context.Context, id int64) (*domain.Outing, error) {
	query := `SELECT ` + outingColumns + ` FROM outings o WHERE o.id = $1`
	o, err := scanOuting(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Status == domain.OutingStatusDeleted {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (r *outingRepository) Update(ctx context.Context, o *domain.Outing) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE outings SET title = $1, description = $2, type = $3, date_time = $4, end_time = $5, location = $6,
		        max_participants = $7, staff_only = $8, carpool_enabled = $9, updated_on = $10
		 WHERE id = $11 AND status <> 'DELETED'`,
		o.Title, o.Description, o.Type, o.DateTime, o.EndTime, o.Location,
		o.MaxParticipants, o.StaffOnly, o.CarpoolEnabled, time.Now(), o.ID)
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

func (r *outingRepository) SetStatus(ctx context.Context, id int64, status domain.OutingStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE outings SET status = $1, updated_on = $2 WHERE id = $3`,
		status, time.Now(), id)
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

func (r *outingRepository) List(ctx context.Context, filter repository.OutingFilter, page, pageSize int32) ([]domain.Outing, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + outingColumns + ` FROM outings o WHERE o.status <> 'DELETED'`
	args := []interface{}{}
	argIdx := 1

	if !filter.IncludeArchive {
		query += ` AND o.status = 'ACTIVE'`
	}
	if !filter.IncludeStaff {
		query += ` AND o.staff_only = false`
	}
	if filter.Upcoming {
		query += fmt.Sprintf(" AND o.date_time >= $%d", argIdx)
		args = append(args, filter.Now)
		argIdx++
	}
	if filter.Past {
		query += fmt.Sprintf(" AND o.date_time < $%d", argIdx)
		args = append(args, filter.Now)
		argIdx++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND o.type = $%d", argIdx)
		args = append(args, filter.Type)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY o.date_time ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var outings []domain.Outing
	for rows.Next() {
		o, err := scanOuting(rows)
		if err != nil {
			return nil, 0, err
		}
		outings = append(outings, *o)
	}
	return outings, count, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOuting(row rowScanner) (*domain.Outing, error) {
	o := &domain.Outing{}
	var createdOn, updatedOn time.Time
	var endTime sql.NullTime
	err := row.Scan(&o.ID, &o.Title, &o.Description, &o.Type, &o.DateTime, &endTime, &o.Location,
		&o.MaxParticipants, &o.OrganizerID, &o.StaffOnly, &o.CarpoolEnabled, &o.Status,
		&o.ConfirmedCount, &createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		t := endTime.Time
		o.EndTime = &t
	}
	o.CreatedOn = formatTime(createdOn)
	o.UpdatedOn = formatTime(updatedOn)
	return o, nil
}
