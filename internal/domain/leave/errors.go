package leave

import "errors"

var (
	ErrLeaveNotFound       = errors.New("Leave request not found")
	ErrOverlappingRequest  = errors.New("You already have a leave request overlapping these dates")
	ErrAlreadyDecided      = errors.New("Leave request has already been processed")
	ErrNotPending          = errors.New("Only pending leave requests can be cancelled")
	ErrNotAuthorized       = errors.New("You are not allowed to modify this leave request")
	ErrInsufficientBalance = errors.New("Insufficient leave balance for the requested type")
)
