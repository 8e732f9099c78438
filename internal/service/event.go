package service

import (
	"context"
	"strings"
	"time"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

type eventService struct {
	guard
	eventRepo   repository.EventRepository
	auditLog    repository.AuditLogRepository
	maxTeamSize int32
}

// NewEventService builds the event workflow. maxTeamSize caps TEAM event
// sizes; callers pass Config.Matchmaking.MaxTeamSize, zero falls back to the
// default.
func NewEventService(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	blacklistRepo repository.BlacklistRepository,
	auditLog repository.AuditLogRepository,
	maxTeamSize int32,
) EventService {
	if maxTeamSize <= 0 {
		maxTeamSize = domain.DefaultMaxTeamSize
	}
	return &eventService{
		guard:       guard{userRepo: userRepo, blacklistRepo: blacklistRepo},
		eventRepo:   eventRepo,
		auditLog:    auditLog,
		maxTeamSize: maxTeamSize,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, ownerID int64, title string, kind domain.EventKind, teamSize int32, description, eventDate *string) (*domain.Event, error) {
	if _, err := s.participant(ctx, ownerID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Validationf("event title must not be empty")
	}

	switch kind {
	case domain.EventKindPair:
		// Pair events always take target size 2, whatever the caller sent.
		teamSize = 2
	case domain.EventKindTeam:
		if teamSize < 2 || teamSize > s.maxTeamSize {
			return nil, domain.Validationf("team size must be between 2 and %d", s.maxTeamSize)
		}
	default:
		return nil, domain.Validationf("unknown event kind %q", kind)
	}

	if eventDate != nil {
		if _, err := time.Parse("2006-01-02", *eventDate); err != nil {
			return nil, domain.Validationf("event date must be YYYY-MM-DD")
		}
	}

	event := &domain.Event{
		OwnerID:     ownerID,
		Title:       title,
		Kind:        kind,
		TeamSize:    teamSize,
		Description: description,
		EventDate:   eventDate,
		Status:      domain.EventStatusOpen,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int32) (*domain.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) ListOpenEvents(ctx context.Context) ([]domain.Event, error) {
	return s.eventRepo.ListOpen(ctx)
}

func (s *eventService) MyEvents(ctx context.Context, ownerID int64) ([]domain.Event, error) {
	return s.eventRepo.ListByOwner(ctx, ownerID)
}

func (s *eventService) UpdateEvent(ctx context.Context, id int32, ownerID int64, upd domain.EventUpdate) error {
	if upd.Empty() {
		return domain.Validationf("nothing to update")
	}
	if upd.EventDate != nil {
		if _, err := time.Parse("2006-01-02", *upd.EventDate); err != nil {
			return domain.Validationf("event date must be YYYY-MM-DD")
		}
	}
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.OwnerID != ownerID {
		return domain.Authorizationf("only the owner may edit event %d", id)
	}
	_, err = s.eventRepo.Update(ctx, id, ownerID, upd)
	return err
}

func (s *eventService) CloseEvent(ctx context.Context, id int32, ownerID int64) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.OwnerID != ownerID {
		return domain.Authorizationf("only the owner may close event %d", id)
	}
	if event.Status == domain.EventStatusClosed {
		return domain.Statef("event %d is already closed", id)
	}
	ok, err := s.eventRepo.Close(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if ok {
		details := auditDetails("event_id=%d, owner_id=%d", id, ownerID)
		_ = s.auditLog.Create(ctx, domain.AuditEventClosed, details)
	}
	return nil
}

func (s *eventService) Statistics(ctx context.Context, id int32) (*domain.EventStatistics, error) {
	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.eventRepo.Statistics(ctx, id)
}
