package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/storelink/storeops-backend-go/internal/domain/attendance"
	"github.com/storelink/storeops-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	a.id, a.employee_id, a.store_id, a.date,
	a.check_in_time, a.break_start_time, a.break_end_time, a.check_out_time,
	a.break_duration_minutes,
	a.check_in_latitude, a.check_in_longitude,
	a.check_out_latitude, a.check_out_longitude,
	a.version, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row, att *attendance.Attendance) error {
	return row.Scan(
		&att.ID, &att.EmployeeID, &att.StoreID, &att.Date,
		&att.CheckInTime, &att.BreakStartTime, &att.BreakEndTime, &att.CheckOutTime,
		&att.BreakDurationMinutes,
		&att.CheckInLatitude, &att.CheckInLongitude,
		&att.CheckOutLatitude, &att.CheckOutLongitude,
		&att.Version, &att.CreatedAt, &att.UpdatedAt,
	)
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, dateKey string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.date = $2
		LIMIT 1
	`

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, query, employeeID, dateKey), &att)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No record for the day yet
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// Create implements attendance.AttendanceRepository. The unique index on
// (employee_id, date) is what makes concurrent first check-ins safe: the
// loser of the race gets zero rows back and an ErrWriteConflict.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att.ID = uuid.NewString()
	att.Version = 1

	query := `
		INSERT INTO attendances (
			id, employee_id, store_id, date,
			check_in_time, check_in_latitude, check_in_longitude, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID,
		att.EmployeeID,
		att.StoreID,
		att.Date,
		att.CheckInTime,
		att.CheckInLatitude,
		att.CheckInLongitude,
		att.Version,
	).Scan(&att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrWriteConflict
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// Update implements attendance.AttendanceRepository. The write only lands
// when the stored version still matches expectedVersion.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance, expectedVersion int) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			break_start_time = $1,
			break_end_time = $2,
			check_out_time = $3,
			break_duration_minutes = $4,
			check_out_latitude = $5,
			check_out_longitude = $6,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $7 AND version = $8
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.BreakStartTime,
		att.BreakEndTime,
		att.CheckOutTime,
		att.BreakDurationMinutes,
		att.CheckOutLatitude,
		att.CheckOutLongitude,
		att.ID,
		expectedVersion,
	).Scan(&att.Version, &att.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrWriteConflict
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return att, nil
}

// GetMyAttendance implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "a.employee_id = $1"
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+attendanceColumns+`, s.name AS store_name
		FROM attendances a
		LEFT JOIN stores s ON s.id = a.store_id
		WHERE %s
		ORDER BY a.date DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.StoreID, &att.Date,
			&att.CheckInTime, &att.BreakStartTime, &att.BreakEndTime, &att.CheckOutTime,
			&att.BreakDurationMinutes,
			&att.CheckInLatitude, &att.CheckInLongitude,
			&att.CheckOutLatitude, &att.CheckOutLongitude,
			&att.Version, &att.CreatedAt, &att.UpdatedAt,
			&att.StoreName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StoreID != nil && *filter.StoreID != "" {
		baseWhere += fmt.Sprintf(" AND a.store_id = $%d", argIdx)
		args = append(args, *filter.StoreID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+attendanceColumns+`, s.name AS store_name
		FROM attendances a
		LEFT JOIN stores s ON s.id = a.store_id
		WHERE %s
		ORDER BY a.date DESC, a.employee_id
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.StoreID, &att.Date,
			&att.CheckInTime, &att.BreakStartTime, &att.BreakEndTime, &att.CheckOutTime,
			&att.BreakDurationMinutes,
			&att.CheckInLatitude, &att.CheckInLongitude,
			&att.CheckOutLatitude, &att.CheckOutLongitude,
			&att.Version, &att.CreatedAt, &att.UpdatedAt,
			&att.StoreName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
