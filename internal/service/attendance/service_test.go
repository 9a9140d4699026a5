package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/storelink/storeops-backend-go/internal/domain/attendance"
	"github.com/storelink/storeops-backend-go/internal/domain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test store at the Eiffel Tower. nearbyLat is ~45m north of it, farLat is
// ~150m north, both on the same meridian.
const (
	storeLat  = 48.8584
	storeLon  = 2.2945
	nearbyLat = 48.8588
	farLat    = 48.8597477
)

type fakeStoreDirectory struct {
	assigned map[string]store.Store
}

func (f *fakeStoreDirectory) GetAssignedStore(ctx context.Context, employeeID string) (store.Store, error) {
	s, ok := f.assigned[employeeID]
	if !ok {
		return store.Store{}, store.ErrNotAssigned
	}
	return s, nil
}

func (f *fakeStoreDirectory) GetByID(ctx context.Context, id string) (store.Store, error) {
	for _, s := range f.assigned {
		if s.ID == id {
			return s, nil
		}
	}
	return store.Store{}, store.ErrStoreNotFound
}

func (f *fakeStoreDirectory) List(ctx context.Context) ([]store.Store, error) {
	var out []store.Store
	for _, s := range f.assigned {
		out = append(out, s)
	}
	return out, nil
}

// memoryAttendanceRepo mimics the conditional-write contract of the
// PostgreSQL repository: unique (employee, date) on insert, version match on
// update.
type memoryAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance // employeeID|date -> record
	seq     int
	updates int
}

func newMemoryAttendanceRepo() *memoryAttendanceRepo {
	return &memoryAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func recordKey(employeeID, dateKey string) string {
	return employeeID + "|" + dateKey
}

func (m *memoryAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, dateKey string) (*attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey(employeeID, dateKey)]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (m *memoryAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := recordKey(att.EmployeeID, att.Date.Format("2006-01-02"))
	if _, exists := m.records[key]; exists {
		return attendance.Attendance{}, attendance.ErrWriteConflict
	}
	m.seq++
	att.ID = fmt.Sprintf("att-%d", m.seq)
	att.Version = 1
	m.records[key] = att
	return att, nil
}

func (m *memoryAttendanceRepo) Update(ctx context.Context, att attendance.Attendance, expectedVersion int) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, rec := range m.records {
		if rec.ID != att.ID {
			continue
		}
		if rec.Version != expectedVersion {
			return attendance.Attendance{}, attendance.ErrWriteConflict
		}
		att.Version = rec.Version + 1
		m.records[key] = att
		m.updates++
		return att, nil
	}
	return attendance.Attendance{}, attendance.ErrWriteConflict
}

func (m *memoryAttendanceRepo) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Attendance
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Attendance
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

func (m *memoryAttendanceRepo) snapshot(employeeID, dateKey string) (attendance.Attendance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey(employeeID, dateKey)]
	return rec, ok
}

func assignedStores() *fakeStoreDirectory {
	return &fakeStoreDirectory{assigned: map[string]store.Store{
		"emp-1": {ID: "store-1", Name: "Downtown", Latitude: storeLat, Longitude: storeLon},
	}}
}

func newTestService(repo attendance.AttendanceRepository, stores store.StoreRepository, now func() time.Time) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: repo,
		StoreRepository:      stores,
		radiusMeters:         100,
		loc:                  time.UTC,
		now:                  now,
	}
}

func at(hour, minute, second int) time.Time {
	return time.Date(2026, 3, 9, hour, minute, second, 0, time.UTC)
}

func TestSubmitAction_CheckIn(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	svc := newTestService(repo, assignedStores(), func() time.Time { return at(9, 0, 0) })

	resp, err := svc.SubmitAction(context.Background(), "emp-1", attendance.SubmitActionRequest{
		Action:    attendance.ActionCheckIn,
		Latitude:  nearbyLat,
		Longitude: storeLon,
	})
	require.NoError(t, err)

	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, "store-1", resp.StoreID)
	assert.Equal(t, "2026-03-09", resp.Date)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, "2026-03-09 09:00:00", *resp.CheckInTime)
	require.NotNil(t, resp.CheckInLatitude)
	assert.Equal(t, nearbyLat, *resp.CheckInLatitude)
	assert.Nil(t, resp.CheckOutTime)
	assert.Nil(t, resp.BreakDurationMinutes)

	rec, ok := repo.snapshot("emp-1", "2026-03-09")
	require.True(t, ok)
	assert.Equal(t, 1, rec.Version)
}

func TestSubmitAction_FullDayLifecycle(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	current := at(9, 0, 0)
	svc := newTestService(repo, assignedStores(), func() time.Time { return current })
	ctx := context.Background()

	submit := func(action attendance.Action) (attendance.AttendanceResponse, error) {
		return svc.SubmitAction(ctx, "emp-1", attendance.SubmitActionRequest{
			Action:    action,
			Latitude:  nearbyLat,
			Longitude: storeLon,
		})
	}
	stateNow := func() attendance.State {
		st, err := svc.GetCurrentState(ctx, "emp-1")
		require.NoError(t, err)
		return st.State
	}

	assert.Equal(t, attendance.StateAbsent, stateNow())

	_, err := submit(attendance.ActionCheckIn)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatePresent, stateNow())

	current = at(12, 0, 0)
	_, err = submit(attendance.ActionBreakStart)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateOnBreak, stateNow())

	current = at(12, 17, 0)
	resp, err := submit(attendance.ActionBreakEnd)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatePresent, stateNow())
	require.NotNil(t, resp.BreakDurationMinutes)
	assert.Equal(t, 17, *resp.BreakDurationMinutes)

	current = at(17, 30, 0)
	resp, err = submit(attendance.ActionCheckOut)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateDone, stateNow())
	require.NotNil(t, resp.CheckOutTime)
	assert.Equal(t, "2026-03-09 17:30:00", *resp.CheckOutTime)

	// DONE is terminal: every further action that day is rejected and the
	// stored record stays byte-for-byte the same.
	before, ok := repo.snapshot("emp-1", "2026-03-09")
	require.True(t, ok)
	for _, action := range []attendance.Action{
		attendance.ActionCheckIn,
		attendance.ActionBreakStart,
		attendance.ActionBreakEnd,
		attendance.ActionCheckOut,
	} {
		_, err := submit(action)
		var transitionErr *attendance.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, attendance.StateDone, transitionErr.State)
		assert.Equal(t, action, transitionErr.Action)
	}
	after, _ := repo.snapshot("emp-1", "2026-03-09")
	assert.Equal(t, before, after)
}

func TestSubmitAction_BreakDurationWholeMinutes(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	current := at(8, 0, 0)
	svc := newTestService(repo, assignedStores(), func() time.Time { return current })
	ctx := context.Background()

	submit := func(action attendance.Action) (attendance.AttendanceResponse, error) {
		return svc.SubmitAction(ctx, "emp-1", attendance.SubmitActionRequest{
			Action:    action,
			Latitude:  nearbyLat,
			Longitude: storeLon,
		})
	}

	_, err := submit(attendance.ActionCheckIn)
	require.NoError(t, err)

	current = at(9, 0, 0)
	_, err = submit(attendance.ActionBreakStart)
	require.NoError(t, err)

	// 17 minutes and 45 seconds truncates to 17 whole minutes.
	current = at(9, 17, 45)
	resp, err := submit(attendance.ActionBreakEnd)
	require.NoError(t, err)
	require.NotNil(t, resp.BreakDurationMinutes)
	assert.Equal(t, 17, *resp.BreakDurationMinutes)
}

func TestSubmitAction_NoStoreAssigned(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	svc := newTestService(repo, &fakeStoreDirectory{assigned: map[string]store.Store{}}, func() time.Time { return at(9, 0, 0) })

	_, err := svc.SubmitAction(context.Background(), "emp-unassigned", attendance.SubmitActionRequest{
		Action:    attendance.ActionCheckIn,
		Latitude:  nearbyLat,
		Longitude: storeLon,
	})
	assert.ErrorIs(t, err, attendance.ErrNoStoreAssigned)

	_, ok := repo.snapshot("emp-unassigned", "2026-03-09")
	assert.False(t, ok, "no record may be created on a failed check-in")
}

func TestSubmitAction_OutOfRange(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	svc := newTestService(repo, assignedStores(), func() time.Time { return at(9, 0, 0) })

	_, err := svc.SubmitAction(context.Background(), "emp-1", attendance.SubmitActionRequest{
		Action:    attendance.ActionCheckIn,
		Latitude:  farLat,
		Longitude: storeLon,
	})

	var outOfRange *attendance.OutOfRangeError
	require.ErrorAs(t, err, &outOfRange)
	assert.InDelta(t, 150, outOfRange.DistanceMeters, 1)
	assert.Equal(t, float64(100), outOfRange.RadiusMeters)

	_, ok := repo.snapshot("emp-1", "2026-03-09")
	assert.False(t, ok, "no record may be created on a failed check-in")
}

func TestSubmitAction_InvalidCoordinates(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	svc := newTestService(repo, assignedStores(), func() time.Time { return at(9, 0, 0) })
	ctx := context.Background()

	bad := [][2]float64{
		{math.NaN(), storeLon},
		{storeLat, math.NaN()},
		{95, storeLon},
		{storeLat, -200},
	}
	for _, p := range bad {
		_, err := svc.SubmitAction(ctx, "emp-1", attendance.SubmitActionRequest{
			Action:    attendance.ActionCheckIn,
			Latitude:  p[0],
			Longitude: p[1],
		})
		assert.ErrorIs(t, err, attendance.ErrInvalidCoordinates)
	}

	_, ok := repo.snapshot("emp-1", "2026-03-09")
	assert.False(t, ok)
}

func TestSubmitAction_UnknownAction(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	svc := newTestService(repo, assignedStores(), func() time.Time { return at(9, 0, 0) })

	_, err := svc.SubmitAction(context.Background(), "emp-1", attendance.SubmitActionRequest{
		Action:    "lunch",
		Latitude:  nearbyLat,
		Longitude: storeLon,
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidAction)
}

func TestSubmitAction_IllegalTransitionsWriteNothing(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		prepare []attendance.Action
		illegal []attendance.Action
		state   attendance.State
	}{
		{"absent", nil, []attendance.Action{attendance.ActionBreakStart, attendance.ActionBreakEnd, attendance.ActionCheckOut}, attendance.StateAbsent},
		{"present", []attendance.Action{attendance.ActionCheckIn}, []attendance.Action{attendance.ActionCheckIn, attendance.ActionBreakEnd}, attendance.StatePresent},
		{"on break", []attendance.Action{attendance.ActionCheckIn, attendance.ActionBreakStart}, []attendance.Action{attendance.ActionCheckIn, attendance.ActionBreakStart, attendance.ActionCheckOut}, attendance.StateOnBreak},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			repo := newMemoryAttendanceRepo()
			svc := newTestService(repo, assignedStores(), func() time.Time { return at(9, 0, 0) })

			for _, action := range c.prepare {
				_, err := svc.SubmitAction(ctx, "emp-1", attendance.SubmitActionRequest{
					Action:    action,
					Latitude:  nearbyLat,
					Longitude: storeLon,
				})
				require.NoError(t, err)
			}
			before, _ := repo.snapshot("emp-1", "2026-03-09")
			updatesBefore := repo.updates

			for _, action := range c.illegal {
				_, err := svc.SubmitAction(ctx, "emp-1", attendance.SubmitActionRequest{
					Action:    action,
					Latitude:  nearbyLat,
					Longitude: storeLon,
				})
				var transitionErr *attendance.InvalidTransitionError
				require.ErrorAs(t, err, &transitionErr)
				assert.Equal(t, c.state, transitionErr.State)
				assert.Equal(t, action, transitionErr.Action)
			}

			after, _ := repo.snapshot("emp-1", "2026-03-09")
			assert.Equal(t, before, after)
			assert.Equal(t, updatesBefore, repo.updates)
		})
	}
}

func TestSubmitAction_ConcurrentCheckIn(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	svc := newTestService(repo, assignedStores(), func() time.Time { return at(9, 0, 0) })
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SubmitAction(ctx, "emp-1", attendance.SubmitActionRequest{
				Action:    attendance.ActionCheckIn,
				Latitude:  nearbyLat,
				Longitude: storeLon,
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		// Losers see either the conditional-write conflict or, if they read
		// after the winner's insert, a plain invalid transition.
		var transitionErr *attendance.InvalidTransitionError
		if !errors.Is(err, attendance.ErrWriteConflict) && !errors.As(err, &transitionErr) {
			t.Errorf("unexpected error from concurrent check-in: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent check-in may succeed")

	rec, ok := repo.snapshot("emp-1", "2026-03-09")
	require.True(t, ok)
	require.NotNil(t, rec.CheckInTime)
	assert.Equal(t, 1, rec.Version, "a single check-in write must have landed")
}

type conflictOnUpdateRepo struct {
	attendance.AttendanceRepository
}

func (r conflictOnUpdateRepo) Update(ctx context.Context, att attendance.Attendance, expectedVersion int) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrWriteConflict
}

func TestSubmitAction_StaleVersionConflict(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	svc := newTestService(repo, assignedStores(), func() time.Time { return at(9, 0, 0) })
	ctx := context.Background()

	_, err := svc.SubmitAction(ctx, "emp-1", attendance.SubmitActionRequest{
		Action:    attendance.ActionCheckIn,
		Latitude:  nearbyLat,
		Longitude: storeLon,
	})
	require.NoError(t, err)

	conflicted := newTestService(conflictOnUpdateRepo{repo}, assignedStores(), func() time.Time { return at(12, 0, 0) })
	_, err = conflicted.SubmitAction(ctx, "emp-1", attendance.SubmitActionRequest{
		Action:    attendance.ActionBreakStart,
		Latitude:  nearbyLat,
		Longitude: storeLon,
	})
	assert.ErrorIs(t, err, attendance.ErrWriteConflict)

	rec, _ := repo.snapshot("emp-1", "2026-03-09")
	assert.Nil(t, rec.BreakStartTime, "a conflicted write must leave the record untouched")
}

func TestSubmitAction_NewDayStartsAbsent(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	current := time.Date(2026, 3, 9, 23, 50, 0, 0, time.UTC)
	svc := newTestService(repo, assignedStores(), func() time.Time { return current })
	ctx := context.Background()

	submit := func(action attendance.Action) error {
		_, err := svc.SubmitAction(ctx, "emp-1", attendance.SubmitActionRequest{
			Action:    action,
			Latitude:  nearbyLat,
			Longitude: storeLon,
		})
		return err
	}

	require.NoError(t, submit(attendance.ActionCheckIn))
	require.NoError(t, submit(attendance.ActionCheckOut))

	// Past midnight in the attendance timezone it is a fresh day: the
	// employee is ABSENT again and a new check-in opens a second record.
	current = time.Date(2026, 3, 10, 0, 10, 0, 0, time.UTC)
	st, err := svc.GetCurrentState(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateAbsent, st.State)

	require.NoError(t, submit(attendance.ActionCheckIn))

	_, day1 := repo.snapshot("emp-1", "2026-03-09")
	_, day2 := repo.snapshot("emp-1", "2026-03-10")
	assert.True(t, day1)
	assert.True(t, day2)
}

func TestGetCurrentState_ReadOnly(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	svc := newTestService(repo, assignedStores(), func() time.Time { return at(9, 0, 0) })
	ctx := context.Background()

	st, err := svc.GetCurrentState(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateAbsent, st.State)
	assert.Nil(t, st.TodayRecord)

	_, err = svc.SubmitAction(ctx, "emp-1", attendance.SubmitActionRequest{
		Action:    attendance.ActionCheckIn,
		Latitude:  nearbyLat,
		Longitude: storeLon,
	})
	require.NoError(t, err)

	first, err := svc.GetCurrentState(ctx, "emp-1")
	require.NoError(t, err)
	second, err := svc.GetCurrentState(ctx, "emp-1")
	require.NoError(t, err)

	assert.Equal(t, attendance.StatePresent, first.State)
	assert.Equal(t, first, second, "repeated reads without writes must agree")
	assert.Equal(t, 0, repo.updates, "reads must not write")
}

func TestGetMyAttendance_Pagination(t *testing.T) {
	repo := newMemoryAttendanceRepo()
	current := at(9, 0, 0)
	svc := newTestService(repo, assignedStores(), func() time.Time { return current })
	ctx := context.Background()

	for day := 9; day < 14; day++ {
		current = time.Date(2026, 3, day, 9, 0, 0, 0, time.UTC)
		_, err := svc.SubmitAction(ctx, "emp-1", attendance.SubmitActionRequest{
			Action:    attendance.ActionCheckIn,
			Latitude:  nearbyLat,
			Longitude: storeLon,
		})
		require.NoError(t, err)
	}

	resp, err := svc.GetMyAttendance(ctx, "emp-1", attendance.MyAttendanceFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)

	badDate := "not-a-date"
	_, err = svc.GetMyAttendance(ctx, "emp-1", attendance.MyAttendanceFilter{StartDate: &badDate})
	assert.Error(t, err)
}
