package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/repository"
)

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Member, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Member), args.Get(1).(int32), args.Error(2)
}

// MockOutingRepo
type MockOutingRepo struct {
	mock.Mock
}

func (m *MockOutingRepo) Create(ctx context.Context, outing *domain.Outing) error {
	args := m.Called(ctx, outing)
	return args.Error(0)
}
func (m *MockOutingRepo) GetByID(ctx context.Context, id int64) (*domain.Outing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Outing), args.Error(1)
}
func (m *MockOutingRepo) Update(ctx context.Context, outing *domain.Outing) error {
	args := m.Called(ctx, outing)
	return args.Error(0)
}
func (m *MockOutingRepo) SetStatus(ctx context.Context, id int64, status domain.OutingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockOutingRepo) List(ctx context.Context, filter repository.OutingFilter, page, pageSize int32) ([]domain.Outing, int32, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]domain.Outing), args.Get(1).(int32), args.Error(2)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Register(ctx context.Context, outingID, memberID int64, intent domain.CarpoolIntent, seatsOffered int32) (*domain.Reservation, error) {
	args := m.Called(ctx, outingID, memberID, intent, seatsOffered)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) CancelAndPromote(ctx context.Context, outingID, memberID int64) (*domain.Reservation, *domain.Reservation, error) {
	args := m.Called(ctx, outingID, memberID)
	var cancelled, promoted *domain.Reservation
	if args.Get(0) != nil {
		cancelled = args.Get(0).(*domain.Reservation)
	}
	if args.Get(1) != nil {
		promoted = args.Get(1).(*domain.Reservation)
	}
	return cancelled, promoted, args.Error(2)
}
func (m *MockReservationRepo) GetActive(ctx context.Context, outingID, memberID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, outingID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) SetPresence(ctx context.Context, outingID, memberID int64, present bool) error {
	args := m.Called(ctx, outingID, memberID, present)
	return args.Error(0)
}
func (m *MockReservationRepo) ListByOuting(ctx context.Context, outingID int64) ([]domain.Reservation, error) {
	args := m.Called(ctx, outingID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListByMember(ctx context.Context, memberID int64, includeCancelled bool) ([]domain.Reservation, error) {
	args := m.Called(ctx, memberID, includeCancelled)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) CountConfirmed(ctx context.Context, outingID int64) (int32, error) {
	args := m.Called(ctx, outingID)
	return args.Get(0).(int32), args.Error(1)
}

// MockCarpoolRepo
type MockCarpoolRepo struct {
	mock.Mock
}

func (m *MockCarpoolRepo) Create(ctx context.Context, carpool *domain.Carpool) error {
	args := m.Called(ctx, carpool)
	return args.Error(0)
}
func (m *MockCarpoolRepo) GetByID(ctx context.Context, id int64) (*domain.Carpool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Carpool), args.Error(1)
}
func (m *MockCarpoolRepo) Update(ctx context.Context, carpool *domain.Carpool) error {
	args := m.Called(ctx, carpool)
	return args.Error(0)
}
func (m *MockCarpoolRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCarpoolRepo) ListByOuting(ctx context.Context, outingID int64) ([]domain.Carpool, error) {
	args := m.Called(ctx, outingID)
	return args.Get(0).([]domain.Carpool), args.Error(1)
}
func (m *MockCarpoolRepo) BookSeat(ctx context.Context, carpoolID, memberID int64) (*domain.CarpoolPassenger, error) {
	args := m.Called(ctx, carpoolID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarpoolPassenger), args.Error(1)
}
func (m *MockCarpoolRepo) CancelSeat(ctx context.Context, carpoolID, memberID int64) error {
	args := m.Called(ctx, carpoolID, memberID)
	return args.Error(0)
}
func (m *MockCarpoolRepo) ListPassengers(ctx context.Context, carpoolID int64) ([]domain.CarpoolPassenger, error) {
	args := m.Called(ctx, carpoolID)
	return args.Get(0).([]domain.CarpoolPassenger), args.Error(1)
}

// MockGearRepo
type MockGearRepo struct {
	mock.Mock
}

func (m *MockGearRepo) CreateItem(ctx context.Context, item *domain.GearItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockGearRepo) GetItemByID(ctx context.Context, id int64) (*domain.GearItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GearItem), args.Error(1)
}
func (m *MockGearRepo) UpdateItem(ctx context.Context, item *domain.GearItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockGearRepo) ListItems(ctx context.Context, status domain.GearStatus, page, pageSize int32) ([]domain.GearItem, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.GearItem), args.Get(1).(int32), args.Error(2)
}
func (m *MockGearRepo) CreateLoan(ctx context.Context, loan *domain.GearLoan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockGearRepo) CloseLoan(ctx context.Context, loanID int64, returnedOn time.Time) (*domain.GearLoan, error) {
	args := m.Called(ctx, loanID, returnedOn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GearLoan), args.Error(1)
}
func (m *MockGearRepo) ListLoansByMember(ctx context.Context, memberID int64, openOnly bool) ([]domain.GearLoan, error) {
	args := m.Called(ctx, memberID, openOnly)
	return args.Get(0).([]domain.GearLoan), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, memberID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, memberID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, memberID int64) error {
	args := m.Called(ctx, id, memberID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRegistrationConfirmed(ctx context.Context, email, name, outingTitle, outingDate string) error {
	args := m.Called(ctx, email, name, outingTitle, outingDate)
	return args.Error(0)
}
func (m *MockEmailService) SendWaitlisted(ctx context.Context, email, name, outingTitle, outingDate string) error {
	args := m.Called(ctx, email, name, outingTitle, outingDate)
	return args.Error(0)
}
func (m *MockEmailService) SendWaitlistPromotion(ctx context.Context, email, name, outingTitle, outingDate string) error {
	args := m.Called(ctx, email, name, outingTitle, outingDate)
	return args.Error(0)
}
func (m *MockEmailService) SendCancellationConfirmation(ctx context.Context, email, name, outingTitle string) error {
	args := m.Called(ctx, email, name, outingTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendCarpoolSeatLost(ctx context.Context, email, name, outingTitle, departureTime string) error {
	args := m.Called(ctx, email, name, outingTitle, departureTime)
	return args.Error(0)
}
func (m *MockEmailService) SendOutingCancelledNotice(ctx context.Context, email, name, outingTitle, reason string) error {
	args := m.Called(ctx, email, name, outingTitle, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendOutingReminder(ctx context.Context, email, name, outingTitle, outingDate, location string) error {
	args := m.Called(ctx, email, name, outingTitle, outingDate, location)
	return args.Error(0)
}
func (m *MockEmailService) SendGearOverdueNotice(ctx context.Context, email, name, itemKind, tag, dueOn string) error {
	args := m.Called(ctx, email, name, itemKind, tag, dueOn)
	return args.Error(0)
}

// MockOutingCache
type MockOutingCache struct {
	mock.Mock
}

func (m *MockOutingCache) GetList(ctx context.Context, key string) ([]domain.Outing, int32, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, 0, args.Bool(2)
	}
	return args.Get(0).([]domain.Outing), args.Get(1).(int32), args.Bool(2)
}
func (m *MockOutingCache) SetList(ctx context.Context, key string, outings []domain.Outing, total int32) {
	m.Called(ctx, key, outings, total)
}
func (m *MockOutingCache) Invalidate(ctx context.Context) {
	m.Called(ctx)
}
