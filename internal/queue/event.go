// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types published on the explanation.events queue.
const (
	TypeSubmitted = "explanation.submitted"
	TypeResolved  = "explanation.resolved"
)

// ExplanationEvent is published when an explanation request is
// submitted or resolved. It carries enough information for downstream
// consumers to log or notify without querying the primary database.
// ManagerUsername and State are only meaningful for resolved events.
type ExplanationEvent struct {
	Type            string `json:"type"`
	ExplanationID   uint64 `json:"explanation_id"`
	StudentUsername string `json:"student_username"`
	StudentEmail    string `json:"student_email"`
	Class           string `json:"class"`
	LockPart        string `json:"lock_part"`
	State           string `json:"state"`
	ManagerUsername string `json:"manager_username,omitempty"`
	OccurredAt      string `json:"occurred_at"`
}
