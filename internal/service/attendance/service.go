package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/storelink/storeops-backend-go/internal/config"
	"github.com/storelink/storeops-backend-go/internal/domain/attendance"
	"github.com/storelink/storeops-backend-go/internal/domain/store"
	"github.com/storelink/storeops-backend-go/internal/pkg/database"
	"github.com/storelink/storeops-backend-go/internal/pkg/geo"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	store.StoreRepository
	radiusMeters float64
	loc          *time.Location
	now          func() time.Time
}

// SubmitAction implements attendance.AttendanceService.
//
// The canonical "today" is the calendar date in the configured attendance
// timezone (UTC unless ATTENDANCE_TIMEZONE says otherwise); every query and
// write in one call uses that single date, so behavior at midnight only
// depends on that one clock. Timestamps themselves are stored in UTC.
func (a *AttendanceServiceImpl) SubmitAction(ctx context.Context, employeeID string, req attendance.SubmitActionRequest) (attendance.AttendanceResponse, error) {
	if !req.Action.IsValid() {
		return attendance.AttendanceResponse{}, attendance.ErrInvalidAction
	}
	if !geo.ValidCoordinates(req.Latitude, req.Longitude) {
		return attendance.AttendanceResponse{}, attendance.ErrInvalidCoordinates
	}

	st, err := a.StoreRepository.GetAssignedStore(ctx, employeeID)
	if err != nil {
		if errors.Is(err, store.ErrNotAssigned) {
			return attendance.AttendanceResponse{}, attendance.ErrNoStoreAssigned
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve assigned store: %w", err)
	}

	distance := geo.DistanceMeters(req.Latitude, req.Longitude, st.Latitude, st.Longitude)
	if distance > a.radiusMeters {
		return attendance.AttendanceResponse{}, &attendance.OutOfRangeError{
			DistanceMeters: distance,
			RadiusMeters:   a.radiusMeters,
		}
	}

	nowUTC := a.now().UTC()
	dateKey := nowUTC.In(a.loc).Format("2006-01-02")

	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, dateKey)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}

	state := attendance.DeriveState(rec)
	if _, ok := attendance.NextState(state, req.Action); !ok {
		return attendance.AttendanceResponse{}, &attendance.InvalidTransitionError{
			State:  state,
			Action: req.Action,
		}
	}

	var saved attendance.Attendance
	switch req.Action {
	case attendance.ActionCheckIn:
		day, _ := time.Parse("2006-01-02", dateKey)
		saved, err = a.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeID:       employeeID,
			StoreID:          st.ID,
			Date:             day,
			CheckInTime:      &nowUTC,
			CheckInLatitude:  &req.Latitude,
			CheckInLongitude: &req.Longitude,
		})

	case attendance.ActionBreakStart:
		updated := *rec
		updated.BreakStartTime = &nowUTC
		saved, err = a.AttendanceRepository.Update(ctx, updated, rec.Version)

	case attendance.ActionBreakEnd:
		updated := *rec
		updated.BreakEndTime = &nowUTC
		// Whole minutes, computed once when the break ends and never touched
		// again.
		minutes := int(math.Floor(nowUTC.Sub(*rec.BreakStartTime).Minutes()))
		updated.BreakDurationMinutes = &minutes
		saved, err = a.AttendanceRepository.Update(ctx, updated, rec.Version)

	case attendance.ActionCheckOut:
		updated := *rec
		updated.CheckOutTime = &nowUTC
		updated.CheckOutLatitude = &req.Latitude
		updated.CheckOutLongitude = &req.Longitude
		saved, err = a.AttendanceRepository.Update(ctx, updated, rec.Version)
	}

	if err != nil {
		if errors.Is(err, attendance.ErrWriteConflict) {
			return attendance.AttendanceResponse{}, attendance.ErrWriteConflict
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to persist clock action: %w", err)
	}

	return attendance.MapToResponse(saved), nil
}

// GetCurrentState implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetCurrentState(ctx context.Context, employeeID string) (attendance.CurrentStateResponse, error) {
	dateKey := a.now().UTC().In(a.loc).Format("2006-01-02")

	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, dateKey)
	if err != nil {
		return attendance.CurrentStateResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}

	resp := attendance.CurrentStateResponse{State: attendance.DeriveState(rec)}
	if rec != nil {
		mapped := attendance.MapToResponse(*rec)
		resp.TodayRecord = &mapped
	}

	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	attendances, total, err := a.AttendanceRepository.GetMyAttendance(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get my attendance: %w", err)
	}

	return buildListResponse(attendances, total, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	attendances, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	return buildListResponse(attendances, total, filter.Page, filter.Limit), nil
}

func buildListResponse(attendances []attendance.Attendance, total int64, page, limit int) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, attendance.MapToResponse(att))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		Attendances: responses,
	}
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	storeRepo store.StoreRepository,
	cfg config.AttendanceConfig,
) attendance.AttendanceService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepo,
		StoreRepository:      storeRepo,
		radiusMeters:         cfg.GeofenceRadiusMeters,
		loc:                  loc,
		now:                  time.Now,
	}
}
