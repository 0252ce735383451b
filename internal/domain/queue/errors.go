package queue

import "github.com/BruksfildServices01/barber-queue/internal/httperr"

// ===============================
// Engine errors
// ===============================

var (
	ErrNotFound           = httperr.ErrBusiness("not_found")
	ErrInvalidState       = httperr.ErrBusiness("invalid_state")
	ErrInvalidPosition    = httperr.ErrBusiness("invalid_position")
	ErrInvalidTransition  = httperr.ErrBusiness("invalid_transition")
	ErrConcurrentConflict = httperr.ErrBusiness("concurrent_conflict")

	ErrInvalidPriority = httperr.ErrBusiness("invalid_priority")
	ErrInvalidStatus   = httperr.ErrBusiness("invalid_status")
	ErrInvalidDate     = httperr.ErrBusiness("invalid_date")
	ErrInvalidTime     = httperr.ErrBusiness("invalid_time")
)
