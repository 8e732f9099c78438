package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"matchbot-backend/internal/config"
	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/service"
)

type adminFixture struct {
	eventRepo *MockEventRepo
	userRepo  *MockUserRepo
	blacklist *MockBlacklistRepo
	auditLog  *MockAuditLogRepo
	svc       service.AdminService
}

func newAdminFixture(adminIDs ...int64) *adminFixture {
	cfg := &config.Config{}
	cfg.Matchmaking.AdminIDs = adminIDs
	f := &adminFixture{
		eventRepo: new(MockEventRepo),
		userRepo:  new(MockUserRepo),
		blacklist: new(MockBlacklistRepo),
		auditLog:  new(MockAuditLogRepo),
	}
	f.svc = service.NewAdminService(cfg.IsAdmin, f.eventRepo, f.userRepo, f.blacklist, f.auditLog)
	return f
}

func TestAdminService_BanUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAdminFixture(1)
		f.userRepo.On("GetByID", ctx, int64(20)).Return(completeUser(20, "Bob", 1500), nil)
		f.blacklist.On("Add", ctx, mock.MatchedBy(func(e *domain.BlacklistEntry) bool {
			return e.UserID == 20 && e.BannedBy == 1
		})).Return(true, nil)
		f.auditLog.On("Create", ctx, domain.AuditUserBanned, mock.Anything).Return(nil)

		assert.NoError(t, f.svc.BanUser(ctx, 1, 20, strPtr("spam")))
		f.auditLog.AssertExpectations(t)
	})

	t.Run("NonAdminDenied", func(t *testing.T) {
		f := newAdminFixture(1)

		err := f.svc.BanUser(ctx, 99, 20, nil)
		var authErr *domain.AuthorizationError
		assert.ErrorAs(t, err, &authErr)
	})

	t.Run("SelfBan", func(t *testing.T) {
		f := newAdminFixture(1)

		err := f.svc.BanUser(ctx, 1, 1, nil)
		var valErr *domain.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("AlreadyBanned", func(t *testing.T) {
		f := newAdminFixture(1)
		f.userRepo.On("GetByID", ctx, int64(20)).Return(completeUser(20, "Bob", 1500), nil)
		f.blacklist.On("Add", ctx, mock.Anything).Return(false, nil)

		err := f.svc.BanUser(ctx, 1, 20, nil)
		var stateErr *domain.StateError
		assert.ErrorAs(t, err, &stateErr)
	})
}

func TestAdminService_UnbanUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAdminFixture(1)
		f.blacklist.On("Remove", ctx, int64(20)).Return(true, nil)
		f.auditLog.On("Create", ctx, domain.AuditUserUnbanned, mock.Anything).Return(nil)

		assert.NoError(t, f.svc.UnbanUser(ctx, 1, 20))
	})

	t.Run("NotBanned", func(t *testing.T) {
		f := newAdminFixture(1)
		f.blacklist.On("Remove", ctx, int64(20)).Return(false, nil)

		err := f.svc.UnbanUser(ctx, 1, 20)
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}

func TestAdminService_BanInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAdminFixture(1)
		f.blacklist.On("Get", ctx, int64(20)).Return(&domain.BlacklistEntry{
			UserID: 20, BannedBy: 1, Reason: strPtr("spam"),
		}, nil)

		entry, err := f.svc.BanInfo(ctx, 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), entry.BannedBy)
		assert.Equal(t, "spam", *entry.Reason)
	})

	t.Run("NotBanned", func(t *testing.T) {
		f := newAdminFixture(1)
		f.blacklist.On("Get", ctx, int64(20)).Return(nil, domain.NotFound("blacklist entry", int64(20)))

		_, err := f.svc.BanInfo(ctx, 1, 20)
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})

	t.Run("NonAdminDenied", func(t *testing.T) {
		f := newAdminFixture(1)

		_, err := f.svc.BanInfo(ctx, 99, 20)
		var authErr *domain.AuthorizationError
		assert.ErrorAs(t, err, &authErr)
		f.blacklist.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestAdminService_ReopenEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAdminFixture(1)
		f.eventRepo.On("GetByID", ctx, int32(7)).Return(&domain.Event{
			ID: 7, Status: domain.EventStatusClosed,
		}, nil)
		f.eventRepo.On("SetStatus", ctx, int32(7), domain.EventStatusOpen).Return(nil)
		f.auditLog.On("Create", ctx, domain.AuditEventReopened, mock.Anything).Return(nil)

		assert.NoError(t, f.svc.ReopenEvent(ctx, 1, 7))
		f.eventRepo.AssertExpectations(t)
	})

	t.Run("AlreadyOpen", func(t *testing.T) {
		f := newAdminFixture(1)
		f.eventRepo.On("GetByID", ctx, int32(7)).Return(&domain.Event{
			ID: 7, Status: domain.EventStatusOpen,
		}, nil)

		err := f.svc.ReopenEvent(ctx, 1, 7)
		var stateErr *domain.StateError
		assert.ErrorAs(t, err, &stateErr)
	})
}

func TestAdminService_DeleteEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAdminFixture(1)
		f.eventRepo.On("Delete", ctx, int32(7)).Return(true, nil)
		f.auditLog.On("Create", ctx, domain.AuditEventDeleted, mock.Anything).Return(nil)

		assert.NoError(t, f.svc.DeleteEvent(ctx, 1, 7))
	})

	t.Run("Missing", func(t *testing.T) {
		f := newAdminFixture(1)
		f.eventRepo.On("Delete", ctx, int32(7)).Return(false, nil)

		err := f.svc.DeleteEvent(ctx, 1, 7)
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}

func TestAdminService_ListEvents(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(1)

	status := domain.EventStatusOpen
	f.eventRepo.On("ListAll", ctx, &status, int32(10), int32(0)).Return([]domain.Event{
		{ID: 1, Title: "Padel Night"},
	}, nil)
	f.eventRepo.On("Count", ctx, &status).Return(int32(1), nil)

	events, total, err := f.svc.ListEvents(ctx, 1, &status, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, int32(1), total)
}

func TestAdminService_EventFullInfo(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(1)

	f.eventRepo.On("GetByID", ctx, int32(7)).Return(&domain.Event{ID: 7, OwnerID: 10}, nil)
	f.userRepo.On("GetByID", ctx, int64(10)).Return(completeUser(10, "Alice", 1700), nil)
	f.eventRepo.On("Statistics", ctx, int32(7)).Return(&domain.EventStatistics{
		ActiveSlots: 2, TotalGroups: 1, UsersInGroups: 4, PendingRequests: 3,
	}, nil)

	event, owner, stats, err := f.svc.EventFullInfo(ctx, 1, 7)
	assert.NoError(t, err)
	assert.Equal(t, int32(7), event.ID)
	assert.Equal(t, "Alice", owner.DisplayName())
	assert.Equal(t, int32(1), stats.TotalGroups)
}
