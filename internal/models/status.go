package models

import "fmt"

// ApplicationStatus is the lifecycle state of an Application. The
// string values are the exact wire values the clients exchange (note
// the capitalised "Pending"; it predates this server and is kept for
// compatibility).
type ApplicationStatus string

const (
	ApplicationPending    ApplicationStatus = "Pending"
	ApplicationPaid       ApplicationStatus = "paid"
	ApplicationRejected   ApplicationStatus = "rejected"
	ApplicationTerminated ApplicationStatus = "terminated"
)

// ParseApplicationStatus rejects anything outside the closed set.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch ApplicationStatus(s) {
	case ApplicationPending, ApplicationPaid, ApplicationRejected, ApplicationTerminated:
		return ApplicationStatus(s), nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// CanTransitionTo reports whether next is a legal move from s.
// Pending may move anywhere; paid is terminal except that paying an
// already-paid application is allowed (idempotent settlement) and a
// paid contract may still be terminated. Nothing ever returns to
// Pending.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case ApplicationPending:
		return next == ApplicationPaid || next == ApplicationRejected || next == ApplicationTerminated
	case ApplicationPaid:
		return next == ApplicationPaid || next == ApplicationTerminated
	default:
		return false
	}
}

// TuitionStatus is the moderation state of a Tuition posting.
type TuitionStatus string

const (
	TuitionPending  TuitionStatus = "pending"
	TuitionApproved TuitionStatus = "approved"
	TuitionRejected TuitionStatus = "rejected"
)

func ParseTuitionStatus(s string) (TuitionStatus, error) {
	switch TuitionStatus(s) {
	case TuitionPending, TuitionApproved, TuitionRejected:
		return TuitionStatus(s), nil
	}
	return "", fmt.Errorf("unknown tuition status %q", s)
}

// CanTransitionTo allows only pending -> approved|rejected; moderation
// decisions are final.
func (s TuitionStatus) CanTransitionTo(next TuitionStatus) bool {
	return s == TuitionPending && (next == TuitionApproved || next == TuitionRejected)
}
