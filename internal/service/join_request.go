package service

import (
	"context"
	"errors"
	"time"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/logger"
	"matchbot-backend/internal/repository"
)

type joinRequestService struct {
	guard
	announcer
	reqRepo    repository.JoinRequestRepository
	slotRepo   repository.SlotRepository
	eventRepo  repository.EventRepository
	requestTTL time.Duration
	now        func() time.Time
}

func NewJoinRequestService(
	reqRepo repository.JoinRequestRepository,
	slotRepo repository.SlotRepository,
	eventRepo repository.EventRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	blacklistRepo repository.BlacklistRepository,
	notifier Notifier,
	auditLog repository.AuditLogRepository,
	requestTTL time.Duration,
) JoinRequestService {
	if requestTTL <= 0 {
		requestTTL = domain.DefaultRequestTTL
	}
	return &joinRequestService{
		guard:      guard{userRepo: userRepo, blacklistRepo: blacklistRepo},
		announcer:  announcer{groupRepo: groupRepo, notifier: notifier, auditLog: auditLog},
		reqRepo:    reqRepo,
		slotRepo:   slotRepo,
		eventRepo:  eventRepo,
		requestTTL: requestTTL,
		now:        time.Now,
	}
}

// CreateRequest files a pending bid to join a slot. The request inherits the
// configured TTL and the slot creator is told once the row is committed.
func (s *joinRequestService) CreateRequest(ctx context.Context, slotID int32, requesterID int64) (*domain.JoinRequest, error) {
	if _, err := s.participant(ctx, requesterID); err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !slot.Active {
		return nil, domain.Statef("slot %d is no longer active", slotID)
	}
	if slot.SpotsLeft() <= 0 {
		return nil, domain.Capacityf("slot %d is full", slotID)
	}

	event, err := s.eventRepo.GetByID(ctx, slot.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventStatusOpen {
		return nil, domain.Statef("event %d is closed", event.ID)
	}

	busy, err := s.slotRepo.HasActiveSlot(ctx, slot.EventID, requesterID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, domain.Validationf("user %d already has an active slot in event %d", requesterID, slot.EventID)
	}

	inGroup, err := s.groupRepo.UserInGroup(ctx, slot.EventID, requesterID)
	if err != nil {
		return nil, err
	}
	if inGroup {
		return nil, domain.Validationf("user %d is already in a formed group in event %d", requesterID, slot.EventID)
	}

	pending, err := s.reqRepo.HasPending(ctx, slotID, requesterID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.Validationf("user %d already has a pending request for slot %d", requesterID, slotID)
	}

	req := &domain.JoinRequest{
		SlotID:      slotID,
		RequesterID: requesterID,
		ExpiresAt:   s.now().Add(s.requestTTL),
	}
	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	full, err := s.reqRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.JoinRequestReceived(ctx, slot.CreatorID, full); err != nil {
		logger.Warn("join request notice failed", "request_id", req.ID, "creator_id", slot.CreatorID, "error", err)
	}
	return full, nil
}

// Accept commits the acceptance; the repository re-checks capacity and the
// requester's standing inside the transaction, so a concurrently filled slot
// comes back here as a CapacityError and a requester placed elsewhere as a
// ValidationError, the request already rejected either way. Notifications go
// out only after the commit.
func (s *joinRequestService) Accept(ctx context.Context, requestID int32, actorID int64) (*domain.JoinRequest, *domain.Group, error) {
	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if req.SlotCreatorID != actorID {
		return nil, nil, domain.Authorizationf("only the slot creator may accept request %d", requestID)
	}

	eventTitle := ""
	if req.EventTitle != nil {
		eventTitle = *req.EventTitle
	}

	outcome, err := s.reqRepo.Accept(ctx, requestID, s.now())
	if err != nil {
		var capErr *domain.CapacityError
		var valErr *domain.ValidationError
		if errors.As(err, &capErr) || errors.As(err, &valErr) {
			// The request was moved to REJECTED in the same transaction,
			// whether the slot filled first or the requester found a seat
			// elsewhere; tell them.
			if nerr := s.notifier.RequestRejected(ctx, req.RequesterID, eventTitle); nerr != nil {
				logger.Warn("rejection notice failed", "request_id", requestID, "error", nerr)
			}
		}
		return nil, nil, err
	}

	details := auditDetails("request_id=%d, slot_id=%d, requester_id=%d", requestID, outcome.SlotID, req.RequesterID)
	_ = s.auditLog.Create(ctx, domain.AuditRequestAccepted, details)

	if err := s.notifier.RequestAccepted(ctx, req.RequesterID, eventTitle); err != nil {
		logger.Warn("acceptance notice failed", "request_id", requestID, "error", err)
	}

	var group *domain.Group
	if outcome.GroupID != nil {
		group, err = s.groupRepo.GetByID(ctx, *outcome.GroupID)
		if err != nil {
			return outcome.Request, nil, err
		}
		s.announceGroup(ctx, group)
		for _, loserID := range outcome.RejectedRequesters {
			if err := s.notifier.RequestRejected(ctx, loserID, eventTitle); err != nil {
				logger.Warn("rejection notice failed", "slot_id", outcome.SlotID, "requester_id", loserID, "error", err)
			}
		}
	}
	return outcome.Request, group, nil
}

func (s *joinRequestService) Reject(ctx context.Context, requestID int32, actorID int64) error {
	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.SlotCreatorID != actorID {
		return domain.Authorizationf("only the slot creator may reject request %d", requestID)
	}
	if req.Terminal() {
		return domain.Statef("request %d is %s, not pending", requestID, req.Status)
	}
	if err := s.reqRepo.Reject(ctx, requestID); err != nil {
		return err
	}

	details := auditDetails("request_id=%d, slot_id=%d, requester_id=%d", requestID, req.SlotID, req.RequesterID)
	_ = s.auditLog.Create(ctx, domain.AuditRequestRejected, details)

	eventTitle := ""
	if req.EventTitle != nil {
		eventTitle = *req.EventTitle
	}
	if err := s.notifier.RequestRejected(ctx, req.RequesterID, eventTitle); err != nil {
		logger.Warn("rejection notice failed", "request_id", requestID, "error", err)
	}
	return nil
}

func (s *joinRequestService) Cancel(ctx context.Context, requestID int32, requesterID int64) error {
	ok, err := s.reqRepo.Cancel(ctx, requestID, requesterID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.RequesterID != requesterID {
		return domain.Authorizationf("only the requester may cancel request %d", requestID)
	}
	return domain.Statef("request %d is %s, not pending", requestID, req.Status)
}

func (s *joinRequestService) MyRequests(ctx context.Context, requesterID int64) ([]domain.JoinRequest, error) {
	return s.reqRepo.ListPendingByRequester(ctx, requesterID)
}

func (s *joinRequestService) IncomingRequests(ctx context.Context, creatorID int64) ([]domain.JoinRequest, error) {
	return s.reqRepo.ListIncoming(ctx, creatorID)
}

func (s *joinRequestService) SlotRequests(ctx context.Context, slotID int32, actorID int64) ([]domain.JoinRequest, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.CreatorID != actorID {
		return nil, domain.Authorizationf("only the creator may list requests of slot %d", slotID)
	}
	return s.reqRepo.ListPendingBySlot(ctx, slotID)
}
