package notification

import "time"

type Type string

const (
	TypeInfo       Type = "info"
	TypeSuccess    Type = "success"
	TypeWarning    Type = "warning"
	TypeError      Type = "error"
	TypeLeave      Type = "leave"
	TypeAttendance Type = "attendance"
	TypePayroll    Type = "payroll"
)

type Notification struct {
	ID      string
	UserID  string
	Title   string
	Message string
	Type    Type
	Link    *string
	IsRead  bool
	ReadAt  *time.Time

	CreatedAt time.Time
}

// ValidTypes lists the accepted notification type names.
func ValidTypes() []string {
	return []string{
		string(TypeInfo), string(TypeSuccess), string(TypeWarning), string(TypeError),
		string(TypeLeave), string(TypeAttendance), string(TypePayroll),
	}
}
