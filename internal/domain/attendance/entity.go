package attendance

import (
	"time"
)

// Attendance is the daily clock record for one employee. At most one record
// exists per (EmployeeID, Date); Version backs the conditional writes that
// keep concurrent clock actions from stepping on each other.
type Attendance struct {
	ID                   string
	EmployeeID           string
	StoreID              string
	Date                 time.Time
	CheckInTime          *time.Time
	BreakStartTime       *time.Time
	BreakEndTime         *time.Time
	CheckOutTime         *time.Time
	BreakDurationMinutes *int
	CheckInLatitude      *float64
	CheckInLongitude     *float64
	CheckOutLatitude     *float64
	CheckOutLongitude    *float64
	Version              int
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// DTO
	StoreName *string
}
