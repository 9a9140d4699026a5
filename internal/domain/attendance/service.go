package attendance

import (
	"context"
)

// AttendanceService defines business logic for clock tracking
type AttendanceService interface {
	// SubmitAction runs one clock action through geofence and transition
	// validation and persists it. Exactly one write on success, none on any
	// failure.
	SubmitAction(ctx context.Context, employeeID string, req SubmitActionRequest) (AttendanceResponse, error)

	// GetCurrentState returns the derived clock state and today's record
	// without writing anything.
	GetCurrentState(ctx context.Context, employeeID string) (CurrentStateResponse, error)

	// GetMyAttendance retrieves attendance history for the authenticated employee
	GetMyAttendance(ctx context.Context, employeeID string, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
