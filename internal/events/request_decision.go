package events

import "time"

const RequestDecisionTopic = "dayoff.request.decision.v1"

// RequestDecisionEvent is emitted every time an admin decides, revokes or
// re-approves a request. Payroll consumers key off UsePTO.
type RequestDecisionEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  int64     `json:"request_id"`
	AccountID  string    `json:"account_id"`
	Date       string    `json:"date"`
	UsePTO     bool      `json:"use_pto"`
	Status     string    `json:"status"`
	DecidedBy  string    `json:"decided_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
