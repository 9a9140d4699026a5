package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrNoStoreAssigned    = errors.New("employee has no assigned store")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidAction      = errors.New("unknown clock action")
	ErrWriteConflict      = errors.New("attendance record was modified concurrently")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// OutOfRangeError is returned when the reported position is outside the
// store's geofence. It carries the measured distance so callers can tell the
// employee how far off they are.
type OutOfRangeError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("you are %.0fm from the store, clock actions require being within %.0fm", e.DistanceMeters, e.RadiusMeters)
}

// InvalidTransitionError is returned when the submitted action is not legal
// from the current derived state.
type InvalidTransitionError struct {
	State  State
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("action %q is not allowed while %s", e.Action, e.State)
}
