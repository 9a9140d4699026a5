package attendance

import (
	"math"
	"time"

	"github.com/storelink/storeops-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type SubmitActionRequest struct {
	Action    Action  `json:"action"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *SubmitActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Action.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of check_in, break_start, break_end, check_out",
		})
	}

	if math.IsNaN(r.Latitude) || r.Latitude < -90 || r.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if math.IsNaN(r.Longitude) || r.Longitude < -180 || r.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID                   string   `json:"id"`
	EmployeeID           string   `json:"employee_id"`
	StoreID              string   `json:"store_id"`
	StoreName            *string  `json:"store_name,omitempty"`
	Date                 string   `json:"date"`
	CheckInTime          *string  `json:"check_in_time"`
	BreakStartTime       *string  `json:"break_start_time"`
	BreakEndTime         *string  `json:"break_end_time"`
	CheckOutTime         *string  `json:"check_out_time"`
	BreakDurationMinutes *int     `json:"break_duration_minutes"`
	CheckInLatitude      *float64 `json:"check_in_latitude"`
	CheckInLongitude     *float64 `json:"check_in_longitude"`
	CheckOutLatitude     *float64 `json:"check_out_latitude"`
	CheckOutLongitude    *float64 `json:"check_out_longitude"`
}

type CurrentStateResponse struct {
	State       State               `json:"state"`
	TodayRecord *AttendanceResponse `json:"today_record"`
}

type MyAttendanceFilter struct {
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceFilter struct {
	EmployeeID *string
	StoreID    *string
	StartDate  *string
	EndDate    *string
	Page       int
	Limit      int
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// MapToResponse converts an Attendance entity to its response shape.
func MapToResponse(att Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                   att.ID,
		EmployeeID:           att.EmployeeID,
		StoreID:              att.StoreID,
		StoreName:            att.StoreName,
		Date:                 att.Date.Format("2006-01-02"),
		CheckInTime:          timePtrToString(att.CheckInTime),
		BreakStartTime:       timePtrToString(att.BreakStartTime),
		BreakEndTime:         timePtrToString(att.BreakEndTime),
		CheckOutTime:         timePtrToString(att.CheckOutTime),
		BreakDurationMinutes: att.BreakDurationMinutes,
		CheckInLatitude:      att.CheckInLatitude,
		CheckInLongitude:     att.CheckInLongitude,
		CheckOutLatitude:     att.CheckOutLatitude,
		CheckOutLongitude:    att.CheckOutLongitude,
	}
}
