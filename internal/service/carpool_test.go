package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"palanquee-backend/internal/domain"
)

func newCarpoolFixture() (*MockCarpoolRepo, *MockOutingRepo, *MockMemberRepo, *MockNotificationRepo, *MockEmailService, CarpoolService) {
	carpoolRepo := new(MockCarpoolRepo)
	outingRepo := new(MockOutingRepo)
	memberRepo := new(MockMemberRepo)
	noteRepo := new(MockNotificationRepo)
	emailSvc := new(MockEmailService)

	svc := NewCarpoolService(carpoolRepo, outingRepo, memberRepo, noteRepo, emailSvc)
	return carpoolRepo, outingRepo, memberRepo, noteRepo, emailSvc, svc
}

func TestCarpoolService_CreateCarpool(t *testing.T) {
	ctx := context.Background()

	outing := &domain.Outing{
		ID:             42,
		Title:          "Quarry session",
		Status:         domain.OutingStatusActive,
		CarpoolEnabled: true,
	}

	t.Run("Success", func(t *testing.T) {
		carpoolRepo, outingRepo, _, _, _, svc := newCarpoolFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		carpoolRepo.On("Create", ctx, mock.AnythingOfType("*domain.Carpool")).Return(nil)

		cp := &domain.Carpool{OutingID: 42, AvailableSeats: 3, MeetingPoint: "Club parking"}
		err := svc.CreateCarpool(ctx, 7, domain.MemberRoleMember, cp)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), cp.DriverID)
	})

	t.Run("Carpooling disabled", func(t *testing.T) {
		carpoolRepo, outingRepo, _, _, _, svc := newCarpoolFixture()

		noCarpool := &domain.Outing{ID: 43, Status: domain.OutingStatusActive, CarpoolEnabled: false}
		outingRepo.On("GetByID", ctx, int64(43)).Return(noCarpool, nil)

		err := svc.CreateCarpool(ctx, 7, domain.MemberRoleMember, &domain.Carpool{OutingID: 43, AvailableSeats: 3})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		carpoolRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Zero seats rejected", func(t *testing.T) {
		_, outingRepo, _, _, _, svc := newCarpoolFixture()

		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)

		err := svc.CreateCarpool(ctx, 7, domain.MemberRoleMember, &domain.Carpool{OutingID: 42, AvailableSeats: 0})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCarpoolService_UpdateCarpool(t *testing.T) {
	ctx := context.Background()

	existing := &domain.Carpool{
		ID:             5,
		OutingID:       42,
		DriverID:       7,
		AvailableSeats: 3,
		PassengerCount: 2,
	}

	t.Run("Driver may update", func(t *testing.T) {
		carpoolRepo, _, _, _, _, svc := newCarpoolFixture()

		carpoolRepo.On("GetByID", ctx, int64(5)).Return(existing, nil)
		carpoolRepo.On("Update", ctx, mock.AnythingOfType("*domain.Carpool")).Return(nil)

		err := svc.UpdateCarpool(ctx, 7, domain.MemberRoleMember, &domain.Carpool{ID: 5, AvailableSeats: 4})
		assert.NoError(t, err)
	})

	t.Run("Non-driver forbidden", func(t *testing.T) {
		carpoolRepo, _, _, _, _, svc := newCarpoolFixture()

		carpoolRepo.On("GetByID", ctx, int64(5)).Return(existing, nil)

		err := svc.UpdateCarpool(ctx, 9, domain.MemberRoleMember, &domain.Carpool{ID: 5, AvailableSeats: 4})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Cannot shrink below booked passengers", func(t *testing.T) {
		carpoolRepo, _, _, _, _, svc := newCarpoolFixture()

		carpoolRepo.On("GetByID", ctx, int64(5)).Return(existing, nil)

		err := svc.UpdateCarpool(ctx, 7, domain.MemberRoleMember, &domain.Carpool{ID: 5, AvailableSeats: 1})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		carpoolRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Admin may update any carpool", func(t *testing.T) {
		carpoolRepo, _, _, _, _, svc := newCarpoolFixture()

		carpoolRepo.On("GetByID", ctx, int64(5)).Return(existing, nil)
		carpoolRepo.On("Update", ctx, mock.AnythingOfType("*domain.Carpool")).Return(nil)

		err := svc.UpdateCarpool(ctx, 99, domain.MemberRoleAdmin, &domain.Carpool{ID: 5, AvailableSeats: 5})
		assert.NoError(t, err)
	})
}

func TestCarpoolService_DeleteCarpool(t *testing.T) {
	ctx := context.Background()

	cp := &domain.Carpool{
		ID:            5,
		OutingID:      42,
		DriverID:      7,
		DepartureTime: time.Date(2026, 6, 13, 7, 30, 0, 0, time.UTC),
	}
	outing := &domain.Outing{ID: 42, Title: "Quarry session", Status: domain.OutingStatusActive, CarpoolEnabled: true}

	t.Run("Every displaced passenger is notified", func(t *testing.T) {
		carpoolRepo, outingRepo, memberRepo, noteRepo, emailSvc, svc := newCarpoolFixture()

		carpoolRepo.On("GetByID", ctx, int64(5)).Return(cp, nil)
		carpoolRepo.On("ListPassengers", ctx, int64(5)).Return([]domain.CarpoolPassenger{
			{ID: 1, CarpoolID: 5, MemberID: 11},
			{ID: 2, CarpoolID: 5, MemberID: 12},
		}, nil)
		carpoolRepo.On("Delete", ctx, int64(5)).Return(nil)
		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		memberRepo.On("GetByID", ctx, int64(11)).Return(&domain.Member{ID: 11, Name: "A", Email: "a@club.test"}, nil)
		memberRepo.On("GetByID", ctx, int64(12)).Return(&domain.Member{ID: 12, Name: "B", Email: "b@club.test"}, nil)
		emailSvc.On("SendCarpoolSeatLost", ctx, "a@club.test", "A", "Quarry session", "Sat 13 Jun 2026 07:30").Return(nil)
		emailSvc.On("SendCarpoolSeatLost", ctx, "b@club.test", "B", "Quarry session", "Sat 13 Jun 2026 07:30").Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		err := svc.DeleteCarpool(ctx, 7, domain.MemberRoleMember, 5)
		assert.NoError(t, err)
		emailSvc.AssertNumberOfCalls(t, "SendCarpoolSeatLost", 2)
		noteRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("One failed notice does not stop the rest", func(t *testing.T) {
		carpoolRepo, outingRepo, memberRepo, noteRepo, emailSvc, svc := newCarpoolFixture()

		carpoolRepo.On("GetByID", ctx, int64(5)).Return(cp, nil)
		carpoolRepo.On("ListPassengers", ctx, int64(5)).Return([]domain.CarpoolPassenger{
			{ID: 1, CarpoolID: 5, MemberID: 11},
			{ID: 2, CarpoolID: 5, MemberID: 12},
		}, nil)
		carpoolRepo.On("Delete", ctx, int64(5)).Return(nil)
		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		memberRepo.On("GetByID", ctx, int64(11)).Return(&domain.Member{ID: 11, Name: "A", Email: "a@club.test"}, nil)
		memberRepo.On("GetByID", ctx, int64(12)).Return(&domain.Member{ID: 12, Name: "B", Email: "b@club.test"}, nil)
		emailSvc.On("SendCarpoolSeatLost", ctx, "a@club.test", "A", "Quarry session", "Sat 13 Jun 2026 07:30").Return(assert.AnError)
		emailSvc.On("SendCarpoolSeatLost", ctx, "b@club.test", "B", "Quarry session", "Sat 13 Jun 2026 07:30").Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		err := svc.DeleteCarpool(ctx, 7, domain.MemberRoleMember, 5)
		assert.NoError(t, err)
		emailSvc.AssertNumberOfCalls(t, "SendCarpoolSeatLost", 2)
	})

	t.Run("Non-driver forbidden", func(t *testing.T) {
		carpoolRepo, _, _, _, _, svc := newCarpoolFixture()

		carpoolRepo.On("GetByID", ctx, int64(5)).Return(cp, nil)

		err := svc.DeleteCarpool(ctx, 9, domain.MemberRoleMember, 5)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		carpoolRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestCarpoolService_BookSeat(t *testing.T) {
	ctx := context.Background()

	cp := &domain.Carpool{ID: 5, OutingID: 42, DriverID: 7, AvailableSeats: 3}
	outing := &domain.Outing{ID: 42, Status: domain.OutingStatusActive, CarpoolEnabled: true}

	t.Run("Success", func(t *testing.T) {
		carpoolRepo, outingRepo, _, _, _, svc := newCarpoolFixture()

		carpoolRepo.On("GetByID", ctx, int64(5)).Return(cp, nil)
		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		carpoolRepo.On("BookSeat", ctx, int64(5), int64(11)).
			Return(&domain.CarpoolPassenger{ID: 1, CarpoolID: 5, MemberID: 11}, nil)

		p, err := svc.BookSeat(ctx, 11, domain.MemberRoleMember, 5)
		assert.NoError(t, err)
		assert.Equal(t, int64(11), p.MemberID)
	})

	t.Run("Driver cannot book own carpool", func(t *testing.T) {
		carpoolRepo, outingRepo, _, _, _, svc := newCarpoolFixture()

		carpoolRepo.On("GetByID", ctx, int64(5)).Return(cp, nil)
		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)

		_, err := svc.BookSeat(ctx, 7, domain.MemberRoleMember, 5)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		carpoolRepo.AssertNotCalled(t, "BookSeat", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Archived outing rejects booking", func(t *testing.T) {
		carpoolRepo, outingRepo, _, _, _, svc := newCarpoolFixture()

		archived := &domain.Outing{ID: 42, Status: domain.OutingStatusArchived, CarpoolEnabled: true}
		carpoolRepo.On("GetByID", ctx, int64(5)).Return(cp, nil)
		outingRepo.On("GetByID", ctx, int64(42)).Return(archived, nil)

		_, err := svc.BookSeat(ctx, 11, domain.MemberRoleMember, 5)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		carpoolRepo.AssertNotCalled(t, "BookSeat", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Full carpool surfaces conflict", func(t *testing.T) {
		carpoolRepo, outingRepo, _, _, _, svc := newCarpoolFixture()

		carpoolRepo.On("GetByID", ctx, int64(5)).Return(cp, nil)
		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		carpoolRepo.On("BookSeat", ctx, int64(5), int64(11)).Return(nil, domain.ErrCarpoolFull)

		_, err := svc.BookSeat(ctx, 11, domain.MemberRoleMember, 5)
		assert.ErrorIs(t, err, domain.ErrCarpoolFull)
	})

	t.Run("Second booking on same outing rejected", func(t *testing.T) {
		carpoolRepo, outingRepo, _, _, _, svc := newCarpoolFixture()

		carpoolRepo.On("GetByID", ctx, int64(5)).Return(cp, nil)
		outingRepo.On("GetByID", ctx, int64(42)).Return(outing, nil)
		carpoolRepo.On("BookSeat", ctx, int64(5), int64(11)).Return(nil, domain.ErrDuplicateBooking)

		_, err := svc.BookSeat(ctx, 11, domain.MemberRoleMember, 5)
		assert.ErrorIs(t, err, domain.ErrDuplicateBooking)
	})
}
