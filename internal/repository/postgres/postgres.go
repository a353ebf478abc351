package postgres

import (
	"database/sql"
	"time"

	"palanquee-backend/internal/repository"

	_ "github.com/lib/pq"
)

// Timestamps are stored as timestamptz and surfaced as RFC 3339 strings.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatNullTime(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := formatTime(t.Time)
	return &s
}

type Store struct {
	db *sql.DB
	repository.MemberRepository
	repository.OutingRepository
	repository.ReservationRepository
	repository.CarpoolRepository
	repository.GearRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		MemberRepository:        NewMemberRepository(db),
		OutingRepository:        NewOutingRepository(db),
		ReservationRepository:   NewReservationRepository(db),
		CarpoolRepository:       NewCarpoolRepository(db),
		GearRepository:          NewGearRepository(db),
		NotificationRepository:  NewNotificationRepository(db),
	}
}
