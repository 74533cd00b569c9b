package model

import (
	"database/sql"
	"time"
)

// Explanation lifecycle states. A row starts as StatePending and is
// resolved exactly once to StateAccepted or StateDeclined; both are
// terminal. "delice" is the historical wire value for a declined
// request and is kept verbatim for storage and form compatibility.
const (
	StatePending  = "pending"
	StateAccepted = "accepted"
	StateDeclined = "delice"
)

// Explanation mirrors the `explanation` table: a student's request to
// unlock or excuse a locked assignment part, reviewed by a manager or
// admin. StudentUsername and StudentEmail are copied from the creating
// user at submission time so the row stays self-describing.
//
// Fields:
//  ID              – primary key identifier.
//  StudentUsername – username of the submitting student.
//  StudentEmail    – email of the submitting student.
//  Class           – class the request belongs to.
//  LockPart        – the locked assignment component.
//  Reason          – free-text justification.
//  State           – pending | accepted | delice.
//  ManagerUsername – reviewer's username (null until resolved).
//  CreatedAt       – timestamp of submission.
//  ResolvedAt      – when the request was resolved (null while pending).
type Explanation struct {
	ID              uint64         // explanation.id
	StudentUsername string         // explanation.student_username
	StudentEmail    string         // explanation.student_email
	Class           string         // explanation.class
	LockPart        string         // explanation.lock_part
	Reason          string         // explanation.reason
	State           string         // explanation.state
	ManagerUsername sql.NullString // explanation.manager_username (nullable)
	CreatedAt       time.Time      // explanation.created_at
	ResolvedAt      sql.NullTime   // explanation.resolved_at (nullable)
}

// Resolved reports whether the explanation has reached a terminal state.
func (e *Explanation) Resolved() bool { return e.State != StatePending }
