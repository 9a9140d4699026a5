package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/storelink/storeops-backend-go/internal/domain/attendance"
	"github.com/storelink/storeops-backend-go/internal/domain/store"
	"github.com/storelink/storeops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Attendance domain errors that carry a payload
	var outOfRange *attendance.OutOfRangeError
	if errors.As(err, &outOfRange) {
		BadRequest(w, outOfRange.Error(), map[string]string{
			"distance_meters": fmt.Sprintf("%.0f", outOfRange.DistanceMeters),
			"radius_meters":   fmt.Sprintf("%.0f", outOfRange.RadiusMeters),
		})
		return
	}

	var invalidTransition *attendance.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		Conflict(w, invalidTransition.Error())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoStoreAssigned):
		Forbidden(w, "No store assigned. Contact your administrator")
	case errors.Is(err, attendance.ErrInvalidCoordinates):
		BadRequest(w, "Invalid coordinates", nil)
	case errors.Is(err, attendance.ErrInvalidAction):
		BadRequest(w, "Unknown clock action", nil)
	case errors.Is(err, attendance.ErrWriteConflict):
		Conflict(w, "Attendance was updated by another request, reload and retry")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Store domain errors
	case errors.Is(err, store.ErrStoreNotFound):
		NotFound(w, "Store not found")
	case errors.Is(err, store.ErrNotAssigned):
		Forbidden(w, "No store assigned. Contact your administrator")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
