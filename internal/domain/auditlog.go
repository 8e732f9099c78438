package domain

// Audit event types written by the services and sweeps.
const (
	AuditEventAutoClosed = "event_auto_closed"
	AuditEventClosed     = "event_closed"
	AuditEventDeleted    = "event_deleted"
	AuditEventReopened   = "event_reopened"
	AuditSlotCreated     = "slot_created"
	AuditSlotDeleted     = "slot_deleted"
	AuditRequestAccepted = "request_accepted"
	AuditRequestRejected = "request_rejected"
	AuditRequestsExpired = "requests_expired"
	AuditGroupFormed     = "group_formed"
	AuditUserBanned      = "user_banned"
	AuditUserUnbanned    = "user_unbanned"
	AuditUserDeleted     = "user_deleted"
)

// AuditLog is an append-only trail of matchmaking transitions, readable by
// admins.
type AuditLog struct {
	ID        int32   `json:"id"`
	EventType string  `json:"event_type"`
	Details   *string `json:"details"`
	Timestamp string  `json:"timestamp"`
}
