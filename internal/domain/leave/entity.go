package leave

import (
	"time"
)

type Type string

const (
	TypePaid      Type = "paid"
	TypeSick      Type = "sick"
	TypeUnpaid    Type = "unpaid"
	TypeMaternity Type = "maternity"
	TypePaternity Type = "paternity"
	TypeCasual    Type = "casual"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Allotments is the canonical yearly quota per leave type. Types absent from
// the table are tracked without a cap.
var Allotments = map[Type]int{
	TypePaid:   20,
	TypeSick:   10,
	TypeCasual: 12,
}

// Request entity. A user never holds two non-rejected requests with
// overlapping date ranges.
type Request struct {
	ID     string
	UserID string

	Type      Type
	StartDate time.Time
	EndDate   time.Time
	TotalDays int
	Reason    string

	Status           Status
	ApprovedBy       *string
	ApproverComments *string
	ApprovedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields (for responses)
	EmployeeName *string
	EmployeeID   *string
	Department   *string
	ApproverName *string
}

// TotalDays is the inclusive day count of a leave range.
func TotalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// Overlaps reports whether [aStart,aEnd] and [bStart,bEnd] intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// ValidTypes lists the accepted leave type names.
func ValidTypes() []string {
	return []string{
		string(TypePaid), string(TypeSick), string(TypeUnpaid),
		string(TypeMaternity), string(TypePaternity), string(TypeCasual),
	}
}
