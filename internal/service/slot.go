package service

import (
	"context"
	"strings"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/logger"
	"matchbot-backend/internal/repository"
)

type slotService struct {
	guard
	announcer
	slotRepo  repository.SlotRepository
	eventRepo repository.EventRepository
	reqRepo   repository.JoinRequestRepository
}

func NewSlotService(
	slotRepo repository.SlotRepository,
	eventRepo repository.EventRepository,
	groupRepo repository.GroupRepository,
	reqRepo repository.JoinRequestRepository,
	userRepo repository.UserRepository,
	blacklistRepo repository.BlacklistRepository,
	notifier Notifier,
	auditLog repository.AuditLogRepository,
) SlotService {
	return &slotService{
		guard:     guard{userRepo: userRepo, blacklistRepo: blacklistRepo},
		announcer: announcer{groupRepo: groupRepo, notifier: notifier, auditLog: auditLog},
		slotRepo:  slotRepo,
		eventRepo: eventRepo,
		reqRepo:   reqRepo,
	}
}

// CreateSlot validates the creator and every teammate before anything is
// written: one unresolved or ineligible teammate aborts the whole creation.
// The repository re-checks eligibility inside its transaction, so a
// concurrent creation cannot slip a user into two slots.
func (s *slotService) CreateSlot(ctx context.Context, eventID int32, creatorID int64, teammateHandles []string, description *string) (*domain.Slot, *domain.Group, error) {
	if _, err := s.participant(ctx, creatorID); err != nil {
		return nil, nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if event.Status != domain.EventStatusOpen {
		return nil, nil, domain.Statef("event %d is closed", eventID)
	}

	memberIDs, err := s.assembleMembers(ctx, event, creatorID, teammateHandles)
	if err != nil {
		return nil, nil, err
	}

	slot := &domain.Slot{
		EventID:     eventID,
		CreatorID:   creatorID,
		TargetSize:  event.TeamSize,
		Description: description,
	}
	created, err := s.slotRepo.Create(ctx, slot, memberIDs)
	if err != nil {
		return nil, nil, err
	}

	details := auditDetails("slot_id=%d, event_id=%d, creator_id=%d, members=%d",
		slot.ID, eventID, creatorID, len(memberIDs))
	_ = s.auditLog.Create(ctx, domain.AuditSlotCreated, details)

	var group *domain.Group
	if created.GroupID != nil {
		group, err = s.groupRepo.GetByID(ctx, *created.GroupID)
		if err != nil {
			return nil, nil, err
		}
		s.announceGroup(ctx, group)
	}
	return slot, group, nil
}

// assembleMembers resolves teammate contact handles to eligible users,
// all-or-nothing.
func (s *slotService) assembleMembers(ctx context.Context, event *domain.Event, creatorID int64, handles []string) ([]int64, error) {
	memberIDs := []int64{creatorID}
	if len(handles) == 0 {
		return memberIDs, nil
	}

	cleaned := make([]string, 0, len(handles))
	seen := map[string]bool{}
	for _, h := range handles {
		h = strings.TrimPrefix(strings.TrimSpace(h), "@")
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		cleaned = append(cleaned, h)
	}
	if int32(len(cleaned)+1) > event.TeamSize {
		return nil, domain.Validationf("%d members exceed the target size of %d", len(cleaned)+1, event.TeamSize)
	}

	users, err := s.userRepo.GetByContactHandles(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	byHandle := map[string]*domain.User{}
	for i := range users {
		if users[i].ContactHandle != nil {
			byHandle[*users[i].ContactHandle] = &users[i]
		}
	}

	for _, h := range cleaned {
		user, ok := byHandle[h]
		if !ok {
			return nil, domain.Validationf("teammate @%s is not registered", h)
		}
		if user.ID == creatorID {
			continue
		}
		if !user.ProfileComplete() {
			return nil, domain.Validationf("teammate @%s has an incomplete profile", h)
		}
		banned, err := s.blacklistRepo.IsBanned(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if banned {
			return nil, domain.Validationf("teammate @%s is banned", h)
		}
		memberIDs = append(memberIDs, user.ID)
	}
	return memberIDs, nil
}

func (s *slotService) GetSlot(ctx context.Context, id int32) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slot.Members, err = s.slotRepo.Members(ctx, id)
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *slotService) SpotsLeft(ctx context.Context, slotID int32) (int32, error) {
	return s.slotRepo.SpotsLeft(ctx, slotID)
}

func (s *slotService) ListOpenSlots(ctx context.Context, eventID int32) ([]domain.Slot, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.slotRepo.ListOpenByEvent(ctx, eventID)
}

func (s *slotService) MySlots(ctx context.Context, eventID int32, userID int64) ([]domain.Slot, error) {
	return s.slotRepo.ListUserSlots(ctx, eventID, userID)
}

func (s *slotService) MyActiveSlots(ctx context.Context, userID int64) ([]domain.Slot, error) {
	return s.slotRepo.ListAllUserActive(ctx, userID)
}

func (s *slotService) RemoveMember(ctx context.Context, slotID int32, actorID, memberID int64) error {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if actorID != slot.CreatorID && actorID != memberID {
		return domain.Authorizationf("user %d may not remove member %d from slot %d", actorID, memberID, slotID)
	}
	// Removing an absent member is a no-op.
	_, err = s.slotRepo.RemoveMember(ctx, slotID, memberID)
	return err
}

// DeleteSlot removes the slot with its members and pending requests; the
// requesters are told afterwards.
func (s *slotService) DeleteSlot(ctx context.Context, slotID int32, actorID int64) error {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.CreatorID != actorID {
		return domain.Authorizationf("only the creator may delete slot %d", slotID)
	}

	pending, err := s.reqRepo.ListPendingBySlot(ctx, slotID)
	if err != nil {
		return err
	}

	ok, err := s.slotRepo.Delete(ctx, slotID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("slot", slotID)
	}

	details := auditDetails("slot_id=%d, event_id=%d, creator_id=%d", slotID, slot.EventID, actorID)
	_ = s.auditLog.Create(ctx, domain.AuditSlotDeleted, details)

	eventTitle := ""
	if slot.EventTitle != nil {
		eventTitle = *slot.EventTitle
	}
	for _, req := range pending {
		if err := s.notifier.SlotDeleted(ctx, req.RequesterID, eventTitle); err != nil {
			logger.Warn("slot deletion notice failed", "slot_id", slotID, "requester_id", req.RequesterID, "error", err)
		}
	}
	return nil
}
