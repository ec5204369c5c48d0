package attendance

import "errors"

var (
	ErrRecordNotFound    = errors.New("Attendance record not found")
	ErrAlreadyCheckedIn  = errors.New("Already checked in today")
	ErrNotCheckedIn      = errors.New("Please check in first")
	ErrAlreadyCheckedOut = errors.New("Already checked out today")
	ErrDuplicateRecord   = errors.New("Attendance record already exists for this date")
)
