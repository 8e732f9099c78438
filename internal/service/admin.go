package service

import (
	"context"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

type adminService struct {
	isAdmin       func(int64) bool
	eventRepo     repository.EventRepository
	userRepo      repository.UserRepository
	blacklistRepo repository.BlacklistRepository
	auditLog      repository.AuditLogRepository
}

// NewAdminService builds the moderation workflow. isAdmin decides who may
// call it; callers pass Config.IsAdmin. A nil predicate admits nobody.
func NewAdminService(
	isAdmin func(int64) bool,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	blacklistRepo repository.BlacklistRepository,
	auditLog repository.AuditLogRepository,
) AdminService {
	if isAdmin == nil {
		isAdmin = func(int64) bool { return false }
	}
	return &adminService{
		isAdmin:       isAdmin,
		eventRepo:     eventRepo,
		userRepo:      userRepo,
		blacklistRepo: blacklistRepo,
		auditLog:      auditLog,
	}
}

func (s *adminService) requireAdmin(actorID int64) error {
	if !s.isAdmin(actorID) {
		return domain.Authorizationf("user %d is not an administrator", actorID)
	}
	return nil
}

func (s *adminService) BanUser(ctx context.Context, actorID, userID int64, reason *string) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	if actorID == userID {
		return domain.Validationf("administrators cannot ban themselves")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	added, err := s.blacklistRepo.Add(ctx, &domain.BlacklistEntry{UserID: userID, BannedBy: actorID, Reason: reason})
	if err != nil {
		return err
	}
	if !added {
		return domain.Statef("user %d is already banned", userID)
	}
	details := auditDetails("user_id=%d, banned_by=%d", userID, actorID)
	_ = s.auditLog.Create(ctx, domain.AuditUserBanned, details)
	return nil
}

func (s *adminService) UnbanUser(ctx context.Context, actorID, userID int64) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	removed, err := s.blacklistRepo.Remove(ctx, userID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NotFound("blacklist entry", userID)
	}
	details := auditDetails("user_id=%d, unbanned_by=%d", userID, actorID)
	_ = s.auditLog.Create(ctx, domain.AuditUserUnbanned, details)
	return nil
}

// BanInfo reports who banned the user, when and why. Returns a NotFoundError
// when the user is not banned.
func (s *adminService) BanInfo(ctx context.Context, actorID, userID int64) (*domain.BlacklistEntry, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	return s.blacklistRepo.Get(ctx, userID)
}

func (s *adminService) Blacklist(ctx context.Context, actorID int64, limit, offset int32) ([]domain.BlacklistEntry, int32, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, 0, err
	}
	entries, err := s.blacklistRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.blacklistRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *adminService) DeleteEvent(ctx context.Context, actorID int64, eventID int32) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	ok, err := s.eventRepo.Delete(ctx, eventID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("event", eventID)
	}
	details := auditDetails("event_id=%d, deleted_by=%d", eventID, actorID)
	_ = s.auditLog.Create(ctx, domain.AuditEventDeleted, details)
	return nil
}

// ReopenEvent is the administrative exception to the one-way open->closed
// transition.
func (s *adminService) ReopenEvent(ctx context.Context, actorID int64, eventID int32) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status == domain.EventStatusOpen {
		return domain.Statef("event %d is already open", eventID)
	}
	if err := s.eventRepo.SetStatus(ctx, eventID, domain.EventStatusOpen); err != nil {
		return err
	}
	details := auditDetails("event_id=%d, reopened_by=%d", eventID, actorID)
	_ = s.auditLog.Create(ctx, domain.AuditEventReopened, details)
	return nil
}

func (s *adminService) CloseEvent(ctx context.Context, actorID int64, eventID int32) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status == domain.EventStatusClosed {
		return domain.Statef("event %d is already closed", eventID)
	}
	if err := s.eventRepo.SetStatus(ctx, eventID, domain.EventStatusClosed); err != nil {
		return err
	}
	details := auditDetails("event_id=%d, closed_by=%d", eventID, actorID)
	_ = s.auditLog.Create(ctx, domain.AuditEventClosed, details)
	return nil
}

func (s *adminService) ListEvents(ctx context.Context, actorID int64, status *domain.EventStatus, limit, offset int32) ([]domain.Event, int32, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, 0, err
	}
	events, err := s.eventRepo.ListAll(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.eventRepo.Count(ctx, status)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (s *adminService) EventFullInfo(ctx context.Context, actorID int64, eventID int32) (*domain.Event, *domain.User, *domain.EventStatistics, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, nil, nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, nil, err
	}
	owner, err := s.userRepo.GetByID(ctx, event.OwnerID)
	if err != nil {
		return nil, nil, nil, err
	}
	stats, err := s.eventRepo.Statistics(ctx, eventID)
	if err != nil {
		return nil, nil, nil, err
	}
	return event, owner, stats, nil
}

func (s *adminService) AuditLogs(ctx context.Context, actorID int64, eventType *string, limit int32) ([]domain.AuditLog, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	return s.auditLog.List(ctx, eventType, limit)
}
