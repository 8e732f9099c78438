package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"matchbot-backend/internal/domain"
)

// CloseExpiredEvents force-closes open events whose date has passed.
// Active slots in those events stay untouched; only new sign-ups stop.
func (jr *JobRunner) CloseExpiredEvents() {
	jr.runWithRecovery("CloseExpiredEvents", func(log *slog.Logger) {
		ctx := context.Background()

		today := time.Now().UTC().Format("2006-01-02")
		closed, err := jr.store.EventRepository.CloseExpired(ctx, today)
		if err != nil {
			log.Error("Failed to close expired events", "error", err)
			return
		}

		log.Info("Closed expired events", "count", len(closed))

		for _, ev := range closed {
			log.Debug("Closed event", "event_id", ev.ID, "title", ev.Title, "event_date", ev.EventDate)
			details := fmt.Sprintf("event %d (%s) auto-closed, date %s", ev.ID, ev.Title, deref(ev.EventDate))
			if err := jr.store.AuditLogRepository.Create(ctx, domain.AuditEventAutoClosed, &details); err != nil {
				log.Error("Failed to record audit entry", "event_id", ev.ID, "error", err)
			}
		}
	})
}

// ExpireStaleRequests moves pending join requests past their deadline to
// EXPIRED so they no longer block new requests or clutter inboxes.
func (jr *JobRunner) ExpireStaleRequests() {
	jr.runWithRecovery("ExpireStaleRequests", func(log *slog.Logger) {
		ctx := context.Background()

		n, err := jr.store.JoinRequestRepository.ExpireStale(ctx, time.Now().UTC())
		if err != nil {
			log.Error("Failed to expire stale requests", "error", err)
			return
		}

		log.Info("Expired stale join requests", "count", n)

		if n > 0 {
			details := fmt.Sprintf("%d pending join requests expired", n)
			if err := jr.store.AuditLogRepository.Create(ctx, domain.AuditRequestsExpired, &details); err != nil {
				log.Error("Failed to record audit entry", "error", err)
			}
		}
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
