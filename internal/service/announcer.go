package service

import (
	"context"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/logger"
	"matchbot-backend/internal/repository"
)

// announcer fans a freshly formed group out to its members, contact handles
// included. It runs strictly after the forming transaction committed;
// delivery failures only get logged.
type announcer struct {
	groupRepo repository.GroupRepository
	notifier  Notifier
	auditLog  repository.AuditLogRepository
}

func (a *announcer) announceGroup(ctx context.Context, group *domain.Group) {
	members, err := a.groupRepo.MembersWithContacts(ctx, group.ID)
	if err != nil {
		logger.Error("failed to load members of new group", "group_id", group.ID, "error", err)
		return
	}
	group.Members = members

	details := auditDetails("group_id=%d, event_id=%d, members=%d", group.ID, group.EventID, len(members))
	_ = a.auditLog.Create(ctx, domain.AuditGroupFormed, details)

	for _, m := range members {
		if err := a.notifier.GroupFormed(ctx, m.UserID, group, members); err != nil {
			logger.Warn("group formation notice failed", "group_id", group.ID, "user_id", m.UserID, "error", err)
		}
	}
}
