package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) EnsureExists(ctx context.Context, id int64, contactHandle *string) error {
	args := m.Called(ctx, id, contactHandle)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByContactHandles(ctx context.Context, handles []string) ([]domain.User, error) {
	args := m.Called(ctx, handles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateName(ctx context.Context, id int64, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateRating(ctx context.Context, id int64, rating float64) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateGender(ctx context.Context, id int64, gender domain.Gender) error {
	args := m.Called(ctx, id, gender)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateContactHandle(ctx context.Context, id int64, handle *string) error {
	args := m.Called(ctx, id, handle)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventRepo
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) GetByID(ctx context.Context, id int32) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventRepo) ListOpen(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}
func (m *MockEventRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Event, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Event), args.Error(1)
}
func (m *MockEventRepo) ListAll(ctx context.Context, status *domain.EventStatus, limit, offset int32) ([]domain.Event, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]domain.Event), args.Error(1)
}
func (m *MockEventRepo) Count(ctx context.Context, status *domain.EventStatus) (int32, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockEventRepo) Update(ctx context.Context, id int32, ownerID int64, upd domain.EventUpdate) (bool, error) {
	args := m.Called(ctx, id, ownerID, upd)
	return args.Bool(0), args.Error(1)
}
func (m *MockEventRepo) Close(ctx context.Context, id int32, ownerID int64) (bool, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Bool(0), args.Error(1)
}
func (m *MockEventRepo) SetStatus(ctx context.Context, id int32, status domain.EventStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockEventRepo) CloseExpired(ctx context.Context, today string) ([]domain.Event, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]domain.Event), args.Error(1)
}
func (m *MockEventRepo) Delete(ctx context.Context, id int32) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockEventRepo) Statistics(ctx context.Context, id int32) (*domain.EventStatistics, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventStatistics), args.Error(1)
}

// MockSlotRepo
type MockSlotRepo struct {
	mock.Mock
}

func (m *MockSlotRepo) Create(ctx context.Context, slot *domain.Slot, memberIDs []int64) (*repository.SlotCreated, error) {
	args := m.Called(ctx, slot, memberIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SlotCreated), args.Error(1)
}
func (m *MockSlotRepo) GetByID(ctx context.Context, id int32) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}
func (m *MockSlotRepo) ListOpenByEvent(ctx context.Context, eventID int32) ([]domain.Slot, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Slot), args.Error(1)
}
func (m *MockSlotRepo) ListUserSlots(ctx context.Context, eventID int32, userID int64) ([]domain.Slot, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Get(0).([]domain.Slot), args.Error(1)
}
func (m *MockSlotRepo) ListAllUserActive(ctx context.Context, userID int64) ([]domain.Slot, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Slot), args.Error(1)
}
func (m *MockSlotRepo) Members(ctx context.Context, slotID int32) ([]domain.SlotMember, error) {
	args := m.Called(ctx, slotID)
	return args.Get(0).([]domain.SlotMember), args.Error(1)
}
func (m *MockSlotRepo) AddMember(ctx context.Context, slotID int32, userID int64) error {
	args := m.Called(ctx, slotID, userID)
	return args.Error(0)
}
func (m *MockSlotRepo) RemoveMember(ctx context.Context, slotID int32, userID int64) (bool, error) {
	args := m.Called(ctx, slotID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockSlotRepo) HasActiveSlot(ctx context.Context, eventID int32, userID int64) (bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockSlotRepo) SpotsLeft(ctx context.Context, slotID int32) (int32, error) {
	args := m.Called(ctx, slotID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockSlotRepo) Delete(ctx context.Context, slotID int32, creatorID int64) (bool, error) {
	args := m.Called(ctx, slotID, creatorID)
	return args.Bool(0), args.Error(1)
}

// MockJoinRequestRepo
type MockJoinRequestRepo struct {
	mock.Mock
}

func (m *MockJoinRequestRepo) Create(ctx context.Context, req *domain.JoinRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) HasPending(ctx context.Context, slotID int32, requesterID int64) (bool, error) {
	args := m.Called(ctx, slotID, requesterID)
	return args.Bool(0), args.Error(1)
}
func (m *MockJoinRequestRepo) ListPendingBySlot(ctx context.Context, slotID int32) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, slotID)
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) ListPendingByRequester(ctx context.Context, requesterID int64) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) ListIncoming(ctx context.Context, creatorID int64) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, creatorID)
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) Accept(ctx context.Context, id int32, now time.Time) (*repository.AcceptOutcome, error) {
	args := m.Called(ctx, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AcceptOutcome), args.Error(1)
}
func (m *MockJoinRequestRepo) Reject(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) Cancel(ctx context.Context, id int32, requesterID int64) (bool, error) {
	args := m.Called(ctx, id, requesterID)
	return args.Bool(0), args.Error(1)
}
func (m *MockJoinRequestRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockGroupRepo
type MockGroupRepo struct {
	mock.Mock
}

func (m *MockGroupRepo) GetByID(ctx context.Context, id int32) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}
func (m *MockGroupRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Group), args.Error(1)
}
func (m *MockGroupRepo) ListByEvent(ctx context.Context, eventID int32) ([]domain.Group, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Group), args.Error(1)
}
func (m *MockGroupRepo) MembersWithContacts(ctx context.Context, groupID int32) ([]domain.SlotMember, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]domain.SlotMember), args.Error(1)
}
func (m *MockGroupRepo) UserInGroup(ctx context.Context, eventID int32, userID int64) (bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Bool(0), args.Error(1)
}

// MockBlacklistRepo
type MockBlacklistRepo struct {
	mock.Mock
}

func (m *MockBlacklistRepo) Add(ctx context.Context, entry *domain.BlacklistEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}
func (m *MockBlacklistRepo) Remove(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBlacklistRepo) IsBanned(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBlacklistRepo) Get(ctx context.Context, userID int64) (*domain.BlacklistEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlacklistEntry), args.Error(1)
}
func (m *MockBlacklistRepo) List(ctx context.Context, limit, offset int32) ([]domain.BlacklistEntry, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.BlacklistEntry), args.Error(1)
}
func (m *MockBlacklistRepo) Count(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockAuditLogRepo
type MockAuditLogRepo struct {
	mock.Mock
}

func (m *MockAuditLogRepo) Create(ctx context.Context, eventType string, details *string) error {
	args := m.Called(ctx, eventType, details)
	return args.Error(0)
}
func (m *MockAuditLogRepo) List(ctx context.Context, eventType *string, limit int32) ([]domain.AuditLog, error) {
	args := m.Called(ctx, eventType, limit)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) JoinRequestReceived(ctx context.Context, creatorID int64, req *domain.JoinRequest) error {
	args := m.Called(ctx, creatorID, req)
	return args.Error(0)
}
func (m *MockNotifier) RequestAccepted(ctx context.Context, requesterID int64, eventTitle string) error {
	args := m.Called(ctx, requesterID, eventTitle)
	return args.Error(0)
}
func (m *MockNotifier) RequestRejected(ctx context.Context, requesterID int64, eventTitle string) error {
	args := m.Called(ctx, requesterID, eventTitle)
	return args.Error(0)
}
func (m *MockNotifier) SlotDeleted(ctx context.Context, requesterID int64, eventTitle string) error {
	args := m.Called(ctx, requesterID, eventTitle)
	return args.Error(0)
}
func (m *MockNotifier) GroupFormed(ctx context.Context, memberID int64, group *domain.Group, members []domain.SlotMember) error {
	args := m.Called(ctx, memberID, group, members)
	return args.Error(0)
}

// helpers shared by the service tests

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func genderPtr(g domain.Gender) *domain.Gender { return &g }

func completeUser(id int64, name string, rating float64) *domain.User {
	return &domain.User{
		ID:     id,
		Name:   strPtr(name),
		Rating: f64Ptr(rating),
		Gender: genderPtr(domain.GenderMale),
	}
}
