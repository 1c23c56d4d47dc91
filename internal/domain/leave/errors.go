package leave

import "errors"

var (
	ErrBalanceNotFound     = errors.New("leave balance not found")
	ErrPolicyNotConfigured = errors.New("leave type has no policy configured")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrOverlappingLeave    = errors.New("overlapping leave request exists")
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrAlreadyProcessed    = errors.New("leave request already processed")
	ErrNotApproved         = errors.New("leave request is not approved")
)
