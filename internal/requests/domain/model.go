package domain

import (
	"fmt"
	"time"

	"github.com/talenthub/portal-backend/internal/store"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

// Kind is the explicit discriminant carried by every request record.
type Kind string

const (
	KindLeave         Kind = "leave"
	KindITTicket      Kind = "it_ticket"
	KindProfileUpdate Kind = "profile_update"
)

var Kinds = []Kind{KindLeave, KindITTicket, KindProfileUpdate}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", validation.New("kind", fmt.Sprintf("unknown request kind %q", s))
}

// Collection is the document collection holding records of this kind.
func (k Kind) Collection() string {
	switch k {
	case KindLeave:
		return store.LeaveRequests
	case KindITTicket:
		return store.ITTickets
	case KindProfileUpdate:
		return store.ProfileUpdates
	}
	return ""
}

type Status string

const (
	StatusPending    Status = "Pending"
	StatusApproved   Status = "Approved"
	StatusRejected   Status = "Rejected"
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// InitialStatus is the status every new record of the kind starts in.
func (k Kind) InitialStatus() Status {
	if k == KindITTicket {
		return StatusOpen
	}
	return StatusPending
}

// SuccessStatus is the terminal status reached by approve.
func (k Kind) SuccessStatus() Status {
	if k == KindITTicket {
		return StatusResolved
	}
	return StatusApproved
}

// IsTerminal reports whether no transition may leave status.
func (k Kind) IsTerminal(s Status) bool {
	switch k {
	case KindITTicket:
		return s == StatusResolved
	default:
		return s == StatusApproved || s == StatusRejected
	}
}

// CanTransition encodes the per-kind state machine:
//
//	leave, profile_update: Pending -> Approved | Rejected
//	it_ticket:             Open -> In Progress -> Resolved, Open -> Resolved
func (k Kind) CanTransition(from, to Status) bool {
	switch k {
	case KindITTicket:
		switch from {
		case StatusOpen:
			return to == StatusInProgress || to == StatusResolved
		case StatusInProgress:
			return to == StatusResolved
		}
		return false
	case KindLeave, KindProfileUpdate:
		return from == StatusPending && (to == StatusApproved || to == StatusRejected)
	}
	return false
}

const (
	DefaultITCategory = "Hardware Fault"
	DefaultITPriority = "Low"
)

// Request is a tagged union over the three request kinds. Only the fields of
// its Kind are populated.
type Request struct {
	ID            string `json:"id"`
	Kind          Kind   `json:"kind"`
	UserID        string `json:"userId"`
	UserName      string `json:"userName"`
	SubmittedDate string `json:"submittedDate"`
	Status        Status `json:"status"`

	// leave
	Type      string `json:"type,omitempty"`
	Dates     string `json:"dates,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Reason    string `json:"reason,omitempty"`

	// it_ticket
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Description string `json:"description,omitempty"`

	// profile_update
	Updates *usersdomain.ProfileFields `json:"updates,omitempty"`
	Applied *usersdomain.ProfileFields `json:"applied,omitempty"`

	DecidedBy            string    `json:"decidedBy,omitempty"`
	DecidedAt            string    `json:"decidedAt,omitempty"`
	ReconciliationNeeded bool      `json:"reconciliationNeeded,omitempty"`
	ReconciliationReason string    `json:"reconciliationReason,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

type LeaveInput struct {
	Type      string `json:"type" validate:"required"`
	StartDate string `json:"startDate" validate:"required,date"`
	EndDate   string `json:"endDate" validate:"required,date"`
	Reason    string `json:"reason" validate:"required"`
}

type ITTicketInput struct {
	Category    string `json:"category"`
	Priority    string `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
	Description string `json:"description" validate:"required"`
}
