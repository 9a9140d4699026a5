package attendance

import (
	"context"
)

// AttendanceRepository defines data access for attendance records. dateKey is
// the canonical calendar day in YYYY-MM-DD form; the engine computes it once
// per call so every query for the same logical day agrees.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns the employee's record for the day, or
	// (nil, nil) when no record exists yet.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, dateKey string) (*Attendance, error)

	// Create inserts the first record of the day. A concurrent insert for the
	// same (employee, day) returns ErrWriteConflict, never a second row.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// Update persists a transition only if the stored version still equals
	// expectedVersion; otherwise it returns ErrWriteConflict and writes
	// nothing.
	Update(ctx context.Context, att Attendance, expectedVersion int) (Attendance, error)

	// GetMyAttendance retrieves attendance history for a specific employee
	GetMyAttendance(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, int64, error)

	// List retrieves attendance records with filters and pagination (admin)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}
