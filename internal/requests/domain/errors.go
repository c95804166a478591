package domain

import (
	"errors"

	"github.com/talenthub/portal-backend/internal/store"
)

var (
	ErrRequestNotFound   = store.ErrNotFound
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotApprover       = errors.New("only approver roles may change request status")
	// ErrReconciliationNeeded is wrapped when a profile update reached the
	// user record but its status write failed.
	ErrReconciliationNeeded = errors.New("profile applied but status write failed; flagged for reconciliation")
)
