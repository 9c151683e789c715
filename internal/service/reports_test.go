package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mess-admin-go/internal/models"
)

func seedReports(t *testing.T, s *Service) (asha, ravi *models.Member) {
	t.Helper()
	ctx := context.Background()
	asha = createAsha(t, s)
	ravi, err := s.CreateMember(ctx, NewMember{
		Name: "Ravi", Phone: "9123456780", FoodTime: models.FoodTimeThree,
		PaymentPlan: models.PlanMonthly, PlanAmount: 3000, JoiningDate: ptr(day(2024, 1, 5)),
	})
	require.NoError(t, err)
	gone, err := s.CreateMember(ctx, NewMember{
		Name: "Gone", Phone: "9000000002", FoodTime: models.FoodTimeTwo,
		PaymentPlan: models.PlanMonthly, PlanAmount: 2500, JoiningDate: ptr(day(2023, 10, 1)),
	})
	require.NoError(t, err)
	_, err = s.UpdateMember(ctx, gone.ID, MemberChanges{IsActive: ptr(false)})
	require.NoError(t, err)

	for _, in := range []PaymentInput{
		{MemberID: gone.ID, Amount: 2500, PaymentDate: ptr(day(2023, 10, 1)), PaymentMethod: models.MethodCash},
		{MemberID: asha.ID, Amount: 1650, PaymentDate: ptr(day(2024, 1, 16)), PaymentMethod: models.MethodUPI},
		{MemberID: ravi.ID, Amount: 3000, PaymentDate: ptr(day(2024, 2, 5)), PaymentMethod: models.MethodUPI},
		{MemberID: asha.ID, Amount: 1650, PaymentDate: ptr(day(2024, 2, 1)), PaymentMethod: models.MethodCash},
	} {
		_, err := s.RecordPayment(ctx, in)
		require.NoError(t, err)
	}
	return asha, ravi
}

func TestMemberStats(t *testing.T) {
	s, _ := newTestService(t, day(2024, 2, 10))
	seedReports(t, s)

	st, err := s.MemberStats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, st.TotalMembers)
	require.EqualValues(t, 2, st.ActiveMembers)
	require.EqualValues(t, 1, st.InactiveMembers)
	require.Equal(t, []Bucket{{ID: "2 times", Count: 2}, {ID: "3 times", Count: 1}}, st.FoodTimeDistribution)
	require.Equal(t, []Bucket{{ID: "15days", Count: 1}, {ID: "monthly", Count: 2}}, st.PaymentPlanDistribution)
}

func TestMemberStatsEmpty(t *testing.T) {
	s, _ := newTestService(t, day(2024, 2, 10))

	st, err := s.MemberStats(context.Background())
	require.NoError(t, err)
	require.Zero(t, st.TotalMembers)
	require.NotNil(t, st.FoodTimeDistribution)
	require.Empty(t, st.FoodTimeDistribution)
}

func TestPaymentStats(t *testing.T) {
	s, _ := newTestService(t, day(2024, 2, 10))
	seedReports(t, s)
	ctx := context.Background()

	st, err := s.PaymentStats(ctx, Period{Month: 2, Year: 2024})
	require.NoError(t, err)
	require.Equal(t, 4650.0, st.CurrentPeriod.TotalRevenue)
	require.EqualValues(t, 2, st.CurrentPeriod.TotalPayments)
	require.Equal(t, 2325.0, st.CurrentPeriod.AveragePayment)
	require.Equal(t, []MethodStat{
		{Method: models.MethodCash, Count: 1, Amount: 1650},
		{Method: models.MethodUPI, Count: 1, Amount: 3000},
	}, st.PaymentMethodStats)

	// Six months back from Feb 10 is Aug 10, so October is in and sorted first.
	require.Equal(t, []MonthRevenue{
		{ID: MonthKey{Month: 10, Year: 2023}, Revenue: 2500, Count: 1},
		{ID: MonthKey{Month: 1, Year: 2024}, Revenue: 1650, Count: 1},
		{ID: MonthKey{Month: 2, Year: 2024}, Revenue: 4650, Count: 2},
	}, st.MonthlyRevenue)

	// A month without a year does not filter.
	all, err := s.PaymentStats(ctx, Period{Month: 2})
	require.NoError(t, err)
	require.EqualValues(t, 4, all.CurrentPeriod.TotalPayments)
	require.Equal(t, 8800.0, all.CurrentPeriod.TotalRevenue)
}

func TestPaymentStatsEmpty(t *testing.T) {
	s, _ := newTestService(t, day(2024, 2, 10))

	st, err := s.PaymentStats(context.Background(), Period{Month: 1, Year: 2020})
	require.NoError(t, err)
	require.Equal(t, PeriodTotals{}, st.CurrentPeriod)
	require.Empty(t, st.MonthlyRevenue)
	require.NotNil(t, st.PaymentMethodStats)
	require.Empty(t, st.PaymentMethodStats)
}

func TestDashboard(t *testing.T) {
	s, _ := newTestService(t, day(2024, 2, 10))
	asha, ravi := seedReports(t, s)
	ctx := context.Background()

	_, err := s.MarkAttendance(ctx, MarkInput{MemberID: asha.ID, Date: day(2024, 2, 10)})
	require.NoError(t, err)
	_, err = s.MarkAttendance(ctx, MarkInput{MemberID: ravi.ID, Date: day(2024, 2, 10), Status: models.Absent})
	require.NoError(t, err)

	d, err := s.Dashboard(ctx)
	require.NoError(t, err)

	require.EqualValues(t, 3, d.Members.Total)
	require.EqualValues(t, 2, d.Members.Active)
	require.EqualValues(t, 1, d.Members.Inactive)

	require.Equal(t, 4650.0, d.Revenue.CurrentMonth)
	require.EqualValues(t, 2, d.Revenue.PaymentsThisMonth)
	require.Equal(t, 8800.0, d.Revenue.Total)
	require.Equal(t, 4650.0, d.Revenue.ExpectedMonthly)

	require.EqualValues(t, 1, d.Attendance.PresentToday)
	require.EqualValues(t, 2, d.Attendance.TotalMarked)

	// Asha paid Feb 1 on a 15 day plan, so she is due Feb 16; Ravi is due Mar 5.
	require.Zero(t, d.PendingPayments)

	require.Equal(t, []Bucket{{ID: "2 times", Count: 1}, {ID: "3 times", Count: 1}}, d.FoodTimeDistribution)
	require.Equal(t, []PlanBucket{
		{ID: "15days", Count: 1, TotalAmount: 1650},
		{ID: "monthly", Count: 1, TotalAmount: 3000},
	}, d.PaymentPlanDistribution)
	require.Len(t, d.MonthlyRevenue, 3)

	// Three registrations, one update and four payments; single marks are not logged.
	require.Len(t, d.RecentActivities, 8)
	require.Len(t, d.RecentMembers, 3)
	require.Equal(t, "Gone", d.RecentMembers[0].Name)
}

func TestDashboardEmpty(t *testing.T) {
	s, _ := newTestService(t, day(2024, 2, 10))

	d, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	require.Zero(t, d.Members.Total)
	require.Zero(t, d.Revenue.Total)
	require.Empty(t, d.RecentActivities)
	require.Empty(t, d.RecentMembers)
	require.Empty(t, d.MonthlyRevenue)
}
