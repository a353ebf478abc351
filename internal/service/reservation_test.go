package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"palanquee-backend/internal/domain"
)

func newReservationFixture() (*MockReservationRepo, *MockOutingRepo, *MockMemberRepo, *MockNotificationRepo, *MockEmailService, *MockOutingCache, *reservationService) {
	reservationRepo := new(MockReservationRepo)
	outingRepo := new(MockOutingRepo)
	memberRepo := new(MockMemberRepo)
	noteRepo := new(MockNotificationRepo)
	emailSvc := new(MockEmailService)
	outingCache := new(MockOutingCache)

	svc := NewReservationService(reservationRepo, outingRepo, memberRepo, noteRepo, emailSvc, outingCache).(*reservationService)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC) }
	return reservationRepo, outingRepo, memberRepo, noteRepo, emailSvc, outingCache, svc
}

func TestReservationService_Register(t *testing.T) {
	ctx := context.Background()

	outing := &domain.Outing{
		ID:              42,
		Title:           "Sea dive at Porto",
		Status:          domain.OutingStatusActive,
		DateTime:        time.Date(2026, 6, 13, 9, 0, 0, 0, time.UTC),
		MaxParticipants: 12,
		OrganizerID:     7,
	}
	member := &domain.Member{ID: 3, Name: "Nina", Email: "nina@club.test"}

	t.Run("Confirmed", func(t *testing.T) {
		reservationRepo, outingRepo, memberRepo, noteRepo, emailSvc, outingCache, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		reservationRepo.On("Register", ctx, int64(42), int64(3), domain.CarpoolIntentNone, int32(0)).
			Return(&domain.Reservation{ID: 100, OutingID: 42, MemberID: 3, Status: domain.ReservationStatusConfirmed}, nil)
		outingCache.On("Invalidate", ctx).Return()
		memberRepo.On("GetByID", ctx, int64(3)).Return(member, nil)
		emailSvc.On("SendRegistrationConfirmed", ctx, "nina@club.test", "Nina", "Sea dive at Porto", "Sat 13 Jun 2026 09:00").Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		res, err := svc.Register(ctx, 3, domain.MemberRoleMember, 42, domain.CarpoolIntentNone, 0)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusConfirmed, res.Status)
		emailSvc.AssertCalled(t, "SendRegistrationConfirmed", ctx, "nina@club.test", "Nina", "Sea dive at Porto", "Sat 13 Jun 2026 09:00")
	})

	t.Run("Waitlisted", func(t *testing.T) {
		reservationRepo, outingRepo, memberRepo, noteRepo, emailSvc, outingCache, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		reservationRepo.On("Register", ctx, int64(42), int64(3), domain.CarpoolIntentPassenger, int32(0)).
			Return(&domain.Reservation{ID: 101, OutingID: 42, MemberID: 3, Status: domain.ReservationStatusWaitlisted}, nil)
		outingCache.On("Invalidate", ctx).Return()
		memberRepo.On("GetByID", ctx, int64(3)).Return(member, nil)
		emailSvc.On("SendWaitlisted", ctx, "nina@club.test", "Nina", "Sea dive at Porto", "Sat 13 Jun 2026 09:00").Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		res, err := svc.Register(ctx, 3, domain.MemberRoleMember, 42, domain.CarpoolIntentPassenger, 0)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusWaitlisted, res.Status)
		emailSvc.AssertNotCalled(t, "SendRegistrationConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Duplicate", func(t *testing.T) {
		reservationRepo, outingRepo, _, _, emailSvc, _, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		reservationRepo.On("Register", ctx, int64(42), int64(3), domain.CarpoolIntentNone, int32(0)).
			Return(nil, domain.ErrDuplicateReservation)

		_, err := svc.Register(ctx, 3, domain.MemberRoleMember, 42, domain.CarpoolIntentNone, 0)
		assert.ErrorIs(t, err, domain.ErrDuplicateReservation)
		emailSvc.AssertNotCalled(t, "SendRegistrationConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Staff-only outing hidden from members", func(t *testing.T) {
		_, outingRepo, _, _, _, _, svc := newReservationFixture()

		staffOuting := &domain.Outing{
			ID:        50,
			Status:    domain.OutingStatusActive,
			DateTime:  time.Date(2026, 6, 13, 9, 0, 0, 0, time.UTC),
			StaffOnly: true,
		}
		outingRepo.On("GetByID", ctx, int64(50)).Return(staffOuting, nil)

		_, err := svc.Register(ctx, 3, domain.MemberRoleMember, 50, domain.CarpoolIntentNone, 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Outing already started", func(t *testing.T) {
		_, outingRepo, _, _, _, _, svc := newReservationFixture()

		past := &domain.Outing{
			ID:       51,
			Status:   domain.OutingStatusActive,
			DateTime: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		}
		outingRepo.On("GetByID", ctx, int64(51)).Return(past, nil)

		_, err := svc.Register(ctx, 3, domain.MemberRoleMember, 51, domain.CarpoolIntentNone, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Driver must offer seats", func(t *testing.T) {
		_, outingRepo, _, _, _, _, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)

		_, err := svc.Register(ctx, 3, domain.MemberRoleMember, 42, domain.CarpoolIntentDriver, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Seats zeroed for non-drivers", func(t *testing.T) {
		reservationRepo, outingRepo, memberRepo, noteRepo, emailSvc, outingCache, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		reservationRepo.On("Register", ctx, int64(42), int64(3), domain.CarpoolIntentPassenger, int32(0)).
			Return(&domain.Reservation{ID: 102, OutingID: 42, MemberID: 3, Status: domain.ReservationStatusConfirmed}, nil)
		outingCache.On("Invalidate", ctx).Return()
		memberRepo.On("GetByID", ctx, int64(3)).Return(member, nil)
		emailSvc.On("SendRegistrationConfirmed", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		_, err := svc.Register(ctx, 3, domain.MemberRoleMember, 42, domain.CarpoolIntentPassenger, 4)
		assert.NoError(t, err)
		reservationRepo.AssertCalled(t, "Register", ctx, int64(42), int64(3), domain.CarpoolIntentPassenger, int32(0))
	})

	t.Run("Email failure does not undo the reservation", func(t *testing.T) {
		reservationRepo, outingRepo, memberRepo, noteRepo, emailSvc, outingCache, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		reservationRepo.On("Register", ctx, int64(42), int64(3), domain.CarpoolIntentNone, int32(0)).
			Return(&domain.Reservation{ID: 103, OutingID: 42, MemberID: 3, Status: domain.ReservationStatusConfirmed}, nil)
		outingCache.On("Invalidate", ctx).Return()
		memberRepo.On("GetByID", ctx, int64(3)).Return(member, nil)
		emailSvc.On("SendRegistrationConfirmed", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		res, err := svc.Register(ctx, 3, domain.MemberRoleMember, 42, domain.CarpoolIntentNone, 0)
		assert.NoError(t, err)
		assert.NotNil(t, res)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ctx := context.Background()

	outing := &domain.Outing{
		ID:       42,
		Title:    "Sea dive at Porto",
		Status:   domain.OutingStatusActive,
		DateTime: time.Date(2026, 6, 13, 9, 0, 0, 0, time.UTC),
	}

	t.Run("Cancel without promotion", func(t *testing.T) {
		reservationRepo, outingRepo, memberRepo, _, emailSvc, outingCache, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		reservationRepo.On("CancelAndPromote", ctx, int64(42), int64(3)).
			Return(&domain.Reservation{ID: 100, OutingID: 42, MemberID: 3, Status: domain.ReservationStatusCancelled}, nil, nil)
		outingCache.On("Invalidate", ctx).Return()
		memberRepo.On("GetByID", ctx, int64(3)).Return(&domain.Member{ID: 3, Name: "Nina", Email: "nina@club.test"}, nil)
		emailSvc.On("SendCancellationConfirmation", ctx, "nina@club.test", "Nina", "Sea dive at Porto").Return(nil)

		err := svc.Cancel(ctx, 3, 42)
		assert.NoError(t, err)
		emailSvc.AssertNotCalled(t, "SendWaitlistPromotion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Cancel promotes the oldest waitlisted member", func(t *testing.T) {
		reservationRepo, outingRepo, memberRepo, noteRepo, emailSvc, outingCache, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		reservationRepo.On("CancelAndPromote", ctx, int64(42), int64(3)).
			Return(
				&domain.Reservation{ID: 100, OutingID: 42, MemberID: 3, Status: domain.ReservationStatusCancelled},
				&domain.Reservation{ID: 101, OutingID: 42, MemberID: 8, Status: domain.ReservationStatusConfirmed},
				nil,
			)
		outingCache.On("Invalidate", ctx).Return()
		memberRepo.On("GetByID", ctx, int64(3)).Return(&domain.Member{ID: 3, Name: "Nina", Email: "nina@club.test"}, nil)
		memberRepo.On("GetByID", ctx, int64(8)).Return(&domain.Member{ID: 8, Name: "Paul", Email: "paul@club.test"}, nil)
		emailSvc.On("SendCancellationConfirmation", ctx, "nina@club.test", "Nina", "Sea dive at Porto").Return(nil)
		emailSvc.On("SendWaitlistPromotion", ctx, "paul@club.test", "Paul", "Sea dive at Porto", "Sat 13 Jun 2026 09:00").Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		err := svc.Cancel(ctx, 3, 42)
		assert.NoError(t, err)
		emailSvc.AssertCalled(t, "SendWaitlistPromotion", ctx, "paul@club.test", "Paul", "Sea dive at Porto", "Sat 13 Jun 2026 09:00")
	})

	t.Run("Member lookup failure only skips the email", func(t *testing.T) {
		reservationRepo, outingRepo, memberRepo, _, emailSvc, outingCache, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		reservationRepo.On("CancelAndPromote", ctx, int64(42), int64(3)).
			Return(&domain.Reservation{ID: 100, OutingID: 42, MemberID: 3, Status: domain.ReservationStatusCancelled}, nil, nil)
		outingCache.On("Invalidate", ctx).Return()
		memberRepo.On("GetByID", ctx, int64(3)).Return(nil, errors.New("connection reset"))

		err := svc.Cancel(ctx, 3, 42)
		assert.NoError(t, err)
		emailSvc.AssertNotCalled(t, "SendCancellationConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("No active reservation", func(t *testing.T) {
		reservationRepo, outingRepo, _, _, emailSvc, _, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		reservationRepo.On("CancelAndPromote", ctx, int64(42), int64(3)).Return(nil, nil, domain.ErrNotFound)

		err := svc.Cancel(ctx, 3, 42)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		emailSvc.AssertNotCalled(t, "SendCancellationConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReservationService_MarkPresence(t *testing.T) {
	ctx := context.Background()

	outing := &domain.Outing{
		ID:          42,
		Status:      domain.OutingStatusActive,
		OrganizerID: 7,
		DateTime:    time.Date(2026, 6, 13, 9, 0, 0, 0, time.UTC),
	}

	t.Run("Organizer may mark presence", func(t *testing.T) {
		reservationRepo, outingRepo, _, _, _, _, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		reservationRepo.On("SetPresence", ctx, int64(42), int64(3), true).Return(nil)

		err := svc.MarkPresence(ctx, 7, domain.MemberRoleMember, 42, 3, true)
		assert.NoError(t, err)
	})

	t.Run("Regular member may not", func(t *testing.T) {
		reservationRepo, outingRepo, _, _, _, _, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)

		err := svc.MarkPresence(ctx, 3, domain.MemberRoleMember, 42, 3, true)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		reservationRepo.AssertNotCalled(t, "SetPresence", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Admin may mark presence anywhere", func(t *testing.T) {
		reservationRepo, outingRepo, _, _, _, _, svc := newReservationFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		reservationRepo.On("SetPresence", ctx, int64(42), int64(3), false).Return(nil)

		err := svc.MarkPresence(ctx, 99, domain.MemberRoleAdmin, 42, 3, false)
		assert.NoError(t, err)
	})
}
