package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mess-admin-go/internal/models"
)

func TestMarkAttendanceTwiceKeepsOneRecord(t *testing.T) {
	s, db := newTestService(t, day(2024, 1, 16))
	ctx := context.Background()
	asha := createAsha(t, s)

	first, err := s.MarkAttendance(ctx, MarkInput{
		MemberID: asha.ID,
		Date:     time.Date(2024, 1, 16, 8, 0, 0, 0, ist),
		Status:   models.Present,
		MealType: &models.MealType{Breakfast: true, Lunch: true},
	})
	require.NoError(t, err)
	require.Equal(t, "2024-01-16", first.Date)
	require.Equal(t, 1, first.Month)
	require.Equal(t, 2024, first.Year)
	require.True(t, first.MealType.Lunch)

	second, err := s.MarkAttendance(ctx, MarkInput{
		MemberID: asha.ID,
		Date:     time.Date(2024, 1, 16, 21, 0, 0, 0, ist),
		Status:   models.Absent,
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, models.Absent, second.Status)
	require.True(t, second.MealType.Lunch, "meal flags are kept when not supplied")

	var n int64
	require.NoError(t, db.Model(&models.Attendance{}).Where("member_id = ?", asha.ID).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

// The test database allows a single open connection, so these marks are
// serialized by the pool. This checks that repeated upserts from many
// goroutines converge on one row; it does not reproduce a race between two
// database connections.
func TestMarkAttendanceSameDayConverges(t *testing.T) {
	s, db := newTestService(t, day(2024, 1, 16))
	ctx := context.Background()
	asha := createAsha(t, s)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := models.Present
			if i%2 == 1 {
				status = models.Absent
			}
			_, err := s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID, Date: day(2024, 1, 16), Status: status})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var n int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestMarkAttendanceDefaultsAndErrors(t *testing.T) {
	s, _ := newTestService(t, day(2024, 1, 16))
	ctx := context.Background()
	asha := createAsha(t, s)

	rec, err := s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID, Date: day(2024, 1, 17)})
	require.NoError(t, err)
	require.Equal(t, models.Present, rec.Status)

	_, err = s.MarkAttendance(ctx, MarkInput{MemberID: "missing", Date: day(2024, 1, 17)})
	require.True(t, IsNotFound(err))

	_, err = s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID})
	require.True(t, IsValidation(err))

	_, err = s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID, Date: day(2024, 1, 17), Status: "late"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Fields, "status")
}

func TestToggleAttendanceCycles(t *testing.T) {
	s, _ := newTestService(t, day(2024, 1, 16))
	ctx := context.Background()
	asha := createAsha(t, s)

	want := []models.AttendanceStatus{models.Present, models.Absent, models.Holiday, models.Present}
	for _, w := range want {
		rec, err := s.ToggleAttendance(ctx, asha.ID, day(2024, 1, 16))
		require.NoError(t, err)
		require.Equal(t, w, rec.Status)
	}

	_, err := s.ToggleAttendance(ctx, "missing", day(2024, 1, 16))
	require.True(t, IsNotFound(err))
}

func TestBulkMarkKeepsEarlierWrites(t *testing.T) {
	s, db := newTestService(t, day(2024, 1, 16))
	ctx := context.Background()
	asha := createAsha(t, s)
	ravi, err := s.CreateMember(ctx, NewMember{
		Name: "Ravi", Phone: "9123456780", FoodTime: models.FoodTimeOne,
		PaymentPlan: models.PlanMonthly, PlanAmount: 2000,
	})
	require.NoError(t, err)

	res, err := s.BulkMarkAttendance(ctx, BulkMarkInput{
		Date:    day(2024, 1, 16),
		Members: []string{asha.ID, "missing", ravi.ID},
		Status:  models.Holiday,
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	require.Len(t, res.Failed, 1)
	require.Equal(t, "missing", res.Failed[0].MemberID)
	require.Equal(t, "Member not found", res.Failed[0].Message)
	for _, r := range res.Records {
		require.Equal(t, models.Holiday, r.Status)
	}

	var logs []models.ActivityLog
	require.NoError(t, db.Where("entity = ?", models.EntityAttendance).Find(&logs).Error)
	require.Len(t, logs, 1)

	_, err = s.BulkMarkAttendance(ctx, BulkMarkInput{Date: day(2024, 1, 16)})
	require.True(t, IsValidation(err))
}

func TestBulkMarkCancelledReportsRemaining(t *testing.T) {
	s, _ := newTestService(t, day(2024, 1, 16))
	asha := createAsha(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.BulkMarkAttendance(ctx, BulkMarkInput{
		Date:    day(2024, 1, 16),
		Members: []string{asha.ID, "other"},
	})
	require.NoError(t, err)
	require.Empty(t, res.Records)
	require.Len(t, res.Failed, 2)
	require.Equal(t, asha.ID, res.Failed[0].MemberID)
	require.Equal(t, "Request cancelled", res.Failed[0].Message)
	require.Equal(t, "other", res.Failed[1].MemberID)
}

func TestBulkMarkHidesStorageErrors(t *testing.T) {
	s, db := newTestService(t, day(2024, 1, 16))
	ctx := context.Background()
	asha := createAsha(t, s)
	require.NoError(t, db.Migrator().DropTable(&models.Attendance{}))

	res, err := s.BulkMarkAttendance(ctx, BulkMarkInput{
		Date:    day(2024, 1, 16),
		Members: []string{asha.ID, "missing"},
	})
	require.NoError(t, err)
	require.Empty(t, res.Records)
	require.Len(t, res.Failed, 2)
	require.Equal(t, "Failed to mark attendance", res.Failed[0].Message)
	require.NotContains(t, res.Failed[0].Message, "attendances")
	require.Equal(t, "Member not found", res.Failed[1].Message)
}

func TestAttendanceStatsEmptyMonth(t *testing.T) {
	s, _ := newTestService(t, day(2024, 1, 16))

	stats, err := s.AttendanceStats(context.Background(), Period{Month: 7, Year: 2023})
	require.NoError(t, err)
	require.NotNil(t, stats)
	require.Empty(t, stats)
}

func TestAttendanceStatsGroupsByStatus(t *testing.T) {
	s, _ := newTestService(t, day(2024, 1, 20))
	ctx := context.Background()
	asha := createAsha(t, s)

	for d, st := range map[int]models.AttendanceStatus{
		15: models.Present, 16: models.Present, 17: models.Absent, 18: models.Holiday,
	} {
		_, err := s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID, Date: day(2024, 1, d), Status: st})
		require.NoError(t, err)
	}
	_, err := s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID, Date: day(2024, 2, 1)})
	require.NoError(t, err)

	stats, err := s.AttendanceStats(ctx, Period{Month: 1, Year: 2024})
	require.NoError(t, err)
	require.Equal(t, []StatusCount{
		{Status: models.Absent, Count: 1},
		{Status: models.Holiday, Count: 1},
		{Status: models.Present, Count: 2},
	}, stats)

	// No period means the current month.
	stats, err = s.AttendanceStats(ctx, Period{})
	require.NoError(t, err)
	require.Len(t, stats, 3)
}

func TestMemberAttendanceSummary(t *testing.T) {
	s, _ := newTestService(t, day(2024, 1, 20))
	ctx := context.Background()
	asha := createAsha(t, s)

	for d, st := range map[int]models.AttendanceStatus{
		15: models.Present, 16: models.Present, 17: models.Absent,
	} {
		_, err := s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID, Date: day(2024, 1, d), Status: st})
		require.NoError(t, err)
	}

	out, err := s.AttendanceForMember(ctx, asha.ID, Period{Month: 1, Year: 2024})
	require.NoError(t, err)
	require.Len(t, out.Attendance, 3)
	require.Equal(t, "2024-01-17", out.Attendance[0].Date)
	require.Equal(t, 3, out.Stats.TotalDays)
	require.Equal(t, 2, out.Stats.PresentDays)
	require.Equal(t, 1, out.Stats.AbsentDays)
	require.Equal(t, 66.67, out.Stats.AttendancePercentage)

	none, err := s.AttendanceForMember(ctx, asha.ID, Period{Month: 3, Year: 2024})
	require.NoError(t, err)
	require.Empty(t, none.Attendance)
	require.Zero(t, none.Stats.AttendancePercentage)
}

func TestTodayAttendance(t *testing.T) {
	s, _ := newTestService(t, time.Date(2024, 1, 16, 12, 0, 0, 0, ist))
	ctx := context.Background()
	asha := createAsha(t, s)
	ravi, err := s.CreateMember(ctx, NewMember{
		Name: "Ravi", Phone: "9123456780", FoodTime: models.FoodTimeOne,
		PaymentPlan: models.PlanMonthly, PlanAmount: 2000,
	})
	require.NoError(t, err)
	_, err = s.CreateMember(ctx, NewMember{
		Name: "Zoya", Phone: "9000000003", FoodTime: models.FoodTimeOne,
		PaymentPlan: models.PlanMonthly, PlanAmount: 2000,
	})
	require.NoError(t, err)

	_, err = s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID, Date: day(2024, 1, 16)})
	require.NoError(t, err)
	_, err = s.MarkAttendance(ctx, MarkInput{MemberID: ravi.ID, Date: day(2024, 1, 16), Status: models.Absent})
	require.NoError(t, err)
	_, err = s.MarkAttendance(ctx, MarkInput{MemberID: ravi.ID, Date: day(2024, 1, 15)})
	require.NoError(t, err)

	today, err := s.TodayAttendance(ctx)
	require.NoError(t, err)
	require.Equal(t, "2024-01-16", today.Date)
	require.Len(t, today.Marked, 2)
	require.Equal(t, 1, today.TotalPresent)
	require.Equal(t, 1, today.TotalAbsent)
	require.Len(t, today.Unmarked, 1)
	require.Equal(t, "Zoya", today.Unmarked[0].Name)
	require.NotNil(t, today.Marked[0].Member)
}

func TestMonthlyAttendance(t *testing.T) {
	s, _ := newTestService(t, day(2024, 1, 20))
	ctx := context.Background()
	asha := createAsha(t, s)

	_, err := s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID, Date: day(2024, 1, 3)})
	require.NoError(t, err)
	_, err = s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID, Date: day(2024, 1, 2)})
	require.NoError(t, err)
	_, err = s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID, Date: day(2023, 12, 31)})
	require.NoError(t, err)

	records, err := s.MonthlyAttendance(ctx, Period{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "2024-01-02", records[0].Date)
	require.Equal(t, "Asha", records[0].Member.Name)

	dec, err := s.MonthlyAttendance(ctx, Period{Month: 12, Year: 2023})
	require.NoError(t, err)
	require.Len(t, dec, 1)
}
