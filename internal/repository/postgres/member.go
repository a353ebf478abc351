package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/repository"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	now := time.Now()
	m.CreatedOn = formatTime(now)
	m.UpdatedOn = formatTime(now)
	return r.db.QueryRowContext(ctx,
		`INSERT INTO members (email, password_hash, name, phone_number, role, diving_level, medical_cert_until, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		m.Email, m.PasswordHash, m.Name, m.PhoneNumber, m.Role, m.DivingLevel, m.MedicalCertUntil, now, now).Scan(&m.ID)
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return r.getBy(ctx, `WHERE email = $1`, email)
}

func (r *memberRepository) getBy(ctx context.Context, where string, arg interface{}) (*domain.Member, error) {
	m := &domain.Member{}
	var createdOn, updatedOn time.Time
	var certUntil sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, phone_number, role, diving_level, medical_cert_until, created_on, updated_on
		 FROM members `+where,
		arg).Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Name, &m.PhoneNumber, &m.Role, &m.DivingLevel,
		&certUntil, &createdOn, &updatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.MedicalCertUntil = formatNullTime(certUntil)
	m.CreatedOn = formatTime(createdOn)
	m.UpdatedOn = formatTime(updatedOn)
	return m, nil
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE members SET email = $1, name = $2, phone_number = $3, role = $4, diving_level = $5, medical_cert_until = $6, updated_on = $7
		 WHERE id = $8`,
		m.Email, m.Name, m.PhoneNumber, m.Role, m.DivingLevel, m.MedicalCertUntil, time.Now(), m.ID)
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

func (r *memberRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Member, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM members`).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, password_hash, name, phone_number, role, diving_level, medical_cert_until, created_on, updated_on
		 FROM members ORDER BY name ASC LIMIT $1 OFFSET $2`,
		pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		var createdOn, updatedOn time.Time
		var certUntil sql.NullTime
		if err := rows.Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Name, &m.PhoneNumber, &m.Role,
			&m.DivingLevel, &certUntil, &createdOn, &updatedOn); err != nil {
			return nil, 0, err
		}
		m.MedicalCertUntil = formatNullTime(certUntil)
		m.CreatedOn = formatTime(createdOn)
		m.UpdatedOn = formatTime(updatedOn)
		members = append(members, m)
	}
	return members, count, rows.Err()
}
