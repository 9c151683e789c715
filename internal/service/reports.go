package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"mess-admin-go/internal/models"
)

// Bucket is one group of a distribution, keyed by the grouped value.
type Bucket struct {
	ID    string `json:"_id"`
	Count int64  `json:"count"`
}

type PlanBucket struct {
	ID          string  `json:"_id"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

type MemberStats struct {
	TotalMembers            int64    `json:"totalMembers"`
	ActiveMembers           int64    `json:"activeMembers"`
	InactiveMembers         int64    `json:"inactiveMembers"`
	FoodTimeDistribution    []Bucket `json:"foodTimeDistribution"`
	PaymentPlanDistribution []Bucket `json:"paymentPlanDistribution"`
}

func (s *Service) MemberStats(ctx context.Context) (*MemberStats, error) {
	db := s.conn(ctx)
	out := &MemberStats{}
	active, inactive, err := countByActive(db)
	if err != nil {
		return nil, translate(err, "member stats", "Member")
	}
	out.ActiveMembers, out.InactiveMembers = active, inactive
	out.TotalMembers = active + inactive

	if out.FoodTimeDistribution, err = distribution(db.Model(&models.Member{}), "food_time"); err != nil {
		return nil, translate(err, "member stats", "Member")
	}
	if out.PaymentPlanDistribution, err = distribution(db.Model(&models.Member{}), "payment_plan"); err != nil {
		return nil, translate(err, "member stats", "Member")
	}
	return out, nil
}

func countByActive(db *gorm.DB) (active, inactive int64, err error) {
	var rows []struct {
		IsActive bool
		Count    int64
	}
	err = db.Model(&models.Member{}).
		Select("is_active, COUNT(*) AS count").
		Group("is_active").
		Scan(&rows).Error
	for _, r := range rows {
		if r.IsActive {
			active = r.Count
		} else {
			inactive = r.Count
		}
	}
	return active, inactive, err
}

// distribution groups q by column. column is always a constant from this
// package, never user input.
func distribution(q *gorm.DB, column string) ([]Bucket, error) {
	out := []Bucket{}
	err := q.Select(column + " AS id, COUNT(*) AS count").
		Group(column).
		Order(column).
		Scan(&out).Error
	return out, err
}

type PeriodTotals struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalPayments  int64   `json:"totalPayments"`
	AveragePayment float64 `json:"averagePayment"`
}

type MonthKey struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type MonthRevenue struct {
	ID      MonthKey `json:"_id"`
	Revenue float64  `json:"revenue"`
	Count   int64    `json:"count"`
}

type MethodStat struct {
	Method models.PaymentMethod `json:"_id"`
	Count  int64                `json:"count"`
	Amount float64              `json:"amount"`
}

type PaymentStats struct {
	CurrentPeriod      PeriodTotals   `json:"currentPeriod"`
	MonthlyRevenue     []MonthRevenue `json:"monthlyRevenue"`
	PaymentMethodStats []MethodStat   `json:"paymentMethodStats"`
}

// PaymentStats totals the ledger. The period filter applies only when both
// month and year are given; the monthly series always covers the last six
// months.
func (s *Service) PaymentStats(ctx context.Context, p Period) (*PaymentStats, error) {
	db := s.conn(ctx)
	scoped := func() *gorm.DB {
		q := db.Model(&models.Payment{})
		if p.Complete() {
			q = q.Where("month = ? AND year = ?", p.Month, p.Year)
		}
		return q
	}

	out := &PaymentStats{PaymentMethodStats: []MethodStat{}}
	err := scoped().
		Select("COALESCE(SUM(amount), 0) AS total_revenue, COUNT(*) AS total_payments, COALESCE(AVG(amount), 0) AS average_payment").
		Scan(&out.CurrentPeriod).Error
	if err != nil {
		return nil, translate(err, "payment stats", "Payment")
	}

	if out.MonthlyRevenue, err = s.monthlyRevenue(db); err != nil {
		return nil, translate(err, "payment stats", "Payment")
	}

	err = scoped().
		Select("payment_method AS method, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("payment_method").
		Order("payment_method").
		Scan(&out.PaymentMethodStats).Error
	if err != nil {
		return nil, translate(err, "payment stats", "Payment")
	}
	return out, nil
}

func (s *Service) monthlyRevenue(db *gorm.DB) ([]MonthRevenue, error) {
	since := s.localNow().AddDate(0, -6, 0).UTC()
	var rows []struct {
		Month   int
		Year    int
		Revenue float64
		Count   int64
	}
	err := db.Model(&models.Payment{}).
		Select("month, year, COALESCE(SUM(amount), 0) AS revenue, COUNT(*) AS count").
		Where("payment_date >= ?", since).
		Group("year, month").
		Order("year asc, month asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]MonthRevenue, 0, len(rows))
	for _, r := range rows {
		out = append(out, MonthRevenue{ID: MonthKey{Month: r.Month, Year: r.Year}, Revenue: r.Revenue, Count: r.Count})
	}
	return out, nil
}

type RecentMember struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	FoodTime    models.FoodTime `json:"foodTime"`
	PaymentPlan models.PlanType `json:"paymentPlan"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Dashboard struct {
	Members struct {
		Total    int64 `json:"total"`
		Active   int64 `json:"active"`
		Inactive int64 `json:"inactive"`
	} `json:"members"`
	Revenue struct {
		CurrentMonth      float64 `json:"currentMonth"`
		Total             float64 `json:"total"`
		PaymentsThisMonth int64   `json:"paymentsThisMonth"`
		ExpectedMonthly   float64 `json:"expectedMonthly"`
	} `json:"revenue"`
	Attendance struct {
		PresentToday int64 `json:"presentToday"`
		TotalMarked  int64 `json:"totalMarked"`
	} `json:"attendance"`
	PendingPayments         int64                `json:"pendingPayments"`
	FoodTimeDistribution    []Bucket             `json:"foodTimeDistribution"`
	PaymentPlanDistribution []PlanBucket         `json:"paymentPlanDistribution"`
	MonthlyRevenue          []MonthRevenue       `json:"monthlyRevenue"`
	RecentActivities        []models.ActivityLog `json:"recentActivities"`
	RecentMembers           []RecentMember       `json:"recentMembers"`
}

const (
	dashboardActivities = 10
	dashboardMembers    = 5
)

// Dashboard assembles the overview snapshot. Distributions only count active
// members; the current month and today are taken in the mess's zone.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := s.conn(ctx)
	now := s.localNow()
	out := &Dashboard{
		PaymentPlanDistribution: []PlanBucket{},
		RecentActivities:        []models.ActivityLog{},
		RecentMembers:           []RecentMember{},
	}
	fail := func(err error) (*Dashboard, error) {
		return nil, translate(err, "dashboard", "Dashboard")
	}

	active, inactive, err := countByActive(db)
	if err != nil {
		return fail(err)
	}
	out.Members.Total, out.Members.Active, out.Members.Inactive = active+inactive, active, inactive

	err = db.Model(&models.Member{}).Where("is_active = ?", true).
		Select("COALESCE(SUM(plan_amount), 0)").Scan(&out.Revenue.ExpectedMonthly).Error
	if err != nil {
		return fail(err)
	}

	var month struct {
		Revenue float64
		Count   int64
	}
	err = db.Model(&models.Payment{}).
		Where("month = ? AND year = ?", int(now.Month()), now.Year()).
		Select("COALESCE(SUM(amount), 0) AS revenue, COUNT(*) AS count").
		Scan(&month).Error
	if err != nil {
		return fail(err)
	}
	out.Revenue.CurrentMonth, out.Revenue.PaymentsThisMonth = month.Revenue, month.Count

	err = db.Model(&models.Payment{}).Select("COALESCE(SUM(amount), 0)").Scan(&out.Revenue.Total).Error
	if err != nil {
		return fail(err)
	}

	today := models.DayOf(now, s.loc)
	if err := db.Model(&models.Attendance{}).Where("day = ?", today).Count(&out.Attendance.TotalMarked).Error; err != nil {
		return fail(err)
	}
	err = db.Model(&models.Attendance{}).
		Where("day = ? AND status = ?", today, models.Present).
		Count(&out.Attendance.PresentToday).Error
	if err != nil {
		return fail(err)
	}

	if err := s.pendingQuery(ctx).Count(&out.PendingPayments).Error; err != nil {
		return fail(err)
	}

	activeMembers := func() *gorm.DB { return db.Model(&models.Member{}).Where("is_active = ?", true) }
	if out.FoodTimeDistribution, err = distribution(activeMembers(), "food_time"); err != nil {
		return fail(err)
	}
	err = activeMembers().
		Select("payment_plan AS id, COUNT(*) AS count, COALESCE(SUM(plan_amount), 0) AS total_amount").
		Group("payment_plan").
		Order("payment_plan").
		Scan(&out.PaymentPlanDistribution).Error
	if err != nil {
		return fail(err)
	}

	if out.MonthlyRevenue, err = s.monthlyRevenue(db); err != nil {
		return fail(err)
	}

	if err := db.Order("created_at desc").Limit(dashboardActivities).Find(&out.RecentActivities).Error; err != nil {
		return fail(err)
	}
	err = db.Model(&models.Member{}).
		Select("id, name, phone, food_time, payment_plan, created_at").
		Order("created_at desc").
		Limit(dashboardMembers).
		Scan(&out.RecentMembers).Error
	if err != nil {
		return fail(err)
	}
	return out, nil
}
