package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mess-admin-go/internal/models"
)

type MarkInput struct {
	MemberID string                  `json:"memberId" validate:"required"`
	Date     time.Time               `json:"date"`
	Status   models.AttendanceStatus `json:"status" validate:"omitempty,attstatus"`
	MealType *models.MealType        `json:"mealType"`
}

type BulkMarkInput struct {
	Date    time.Time               `json:"date"`
	Members []string                `json:"members" validate:"required,min=1,dive,required"`
	Status  models.AttendanceStatus `json:"status" validate:"omitempty,attstatus"`
}

type BulkFailure struct {
	MemberID string `json:"memberId"`
	Message  string `json:"message"`
}

// BulkResult lists what a bulk mark wrote and what it could not. Writes are
// independent: a failure for one member keeps the others.
type BulkResult struct {
	Records []models.Attendance `json:"records"`
	Failed  []BulkFailure       `json:"failed"`
}

// MarkAttendance records status for the member on the calendar day of
// in.Date, overwriting an existing record for that day.
func (s *Service) MarkAttendance(ctx context.Context, in MarkInput) (*models.Attendance, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, invalid("date", "date is a required field")
	}
	status := in.Status
	if status == "" {
		status = models.Present
	}

	var rec *models.Attendance
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = s.mark(tx, in.MemberID, models.DayOf(in.Date, s.loc), status, in.MealType)
		return err
	})
	if err != nil {
		return nil, translate(err, "mark attendance", "Member")
	}
	return rec, nil
}

// ToggleAttendance advances the member's status for the day along the
// present, absent, holiday cycle; an unmarked day becomes present.
func (s *Service) ToggleAttendance(ctx context.Context, memberID string, date time.Time) (*models.Attendance, error) {
	if memberID == "" {
		return nil, invalid("memberId", "memberId is a required field")
	}
	if date.IsZero() {
		return nil, invalid("date", "date is a required field")
	}
	day := models.DayOf(date, s.loc)

	var rec *models.Attendance
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Attendance
		var status models.AttendanceStatus
		err := tx.Where("member_id = ? AND day = ?", memberID, day).Take(&current).Error
		switch {
		case err == nil:
			status = current.Status
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		rec, err = s.mark(tx, memberID, day, models.NextStatus(status), nil)
		return err
	})
	if err != nil {
		return nil, translate(err, "toggle attendance", "Member")
	}
	return rec, nil
}

// BulkMarkAttendance applies the same status to every listed member.
func (s *Service) BulkMarkAttendance(ctx context.Context, in BulkMarkInput) (*BulkResult, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, invalid("date", "date is a required field")
	}
	status := in.Status
	if status == "" {
		status = models.Present
	}
	day := models.DayOf(in.Date, s.loc)

	out := &BulkResult{Records: []models.Attendance{}, Failed: []BulkFailure{}}
	for i, memberID := range in.Members {
		if ctx.Err() != nil {
			for _, rest := range in.Members[i:] {
				out.Failed = append(out.Failed, BulkFailure{MemberID: rest, Message: "Request cancelled"})
			}
			break
		}
		rec, err := s.mark(s.conn(ctx), memberID, day, status, nil)
		if err != nil {
			out.Failed = append(out.Failed, BulkFailure{MemberID: memberID, Message: bulkFailureMessage(err)})
			continue
		}
		out.Records = append(out.Records, *rec)
	}

	if len(out.Records) > 0 {
		s.logActivity(ctx, models.ActionUpdate, models.EntityAttendance, "",
			fmt.Sprintf("Attendance marked %s for %d members on %s", status, len(out.Records), day),
			map[string]interface{}{"date": day, "status": status, "failed": len(out.Failed)})
	}
	return out, nil
}

// bulkFailureMessage keeps storage details out of the per-member report.
func bulkFailureMessage(err error) string {
	err = translate(err, "bulk mark", "Member")
	var se *StorageError
	if errors.As(err, &se) {
		return "Failed to mark attendance"
	}
	return err.Error()
}

// mark upserts on (member_id, day). The unique index makes concurrent marks
// for the same pair converge on one row.
func (s *Service) mark(tx *gorm.DB, memberID, day string, status models.AttendanceStatus, meals *models.MealType) (*models.Attendance, error) {
	var exists int64
	if err := tx.Model(&models.Member{}).Where("id = ?", memberID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, &NotFoundError{Entity: "Member"}
	}

	rec := models.Attendance{MemberID: memberID, Date: day, Status: status}
	cols := []string{"status", "updated_at"}
	if meals != nil {
		rec.MealType = *meals
		cols = append(cols, "meal_breakfast", "meal_lunch", "meal_dinner")
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(&rec).Error
	if err != nil {
		return nil, err
	}

	var stored models.Attendance
	if err := tx.Where("member_id = ? AND day = ?", memberID, day).Take(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// MonthlyAttendance returns every record of the period with a member summary.
// An incomplete period falls back to the current month.
func (s *Service) MonthlyAttendance(ctx context.Context, p Period) ([]models.Attendance, error) {
	p = s.orCurrentMonth(p)
	out := []models.Attendance{}
	err := s.conn(ctx).Preload("Member").
		Where("month = ? AND year = ?", p.Month, p.Year).
		Order("day asc").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, "monthly attendance", "Attendance")
	}
	return out, nil
}

type TodayAttendance struct {
	Date         string              `json:"date"`
	Marked       []models.Attendance `json:"marked"`
	Unmarked     []models.Member     `json:"unmarked"`
	TotalPresent int                 `json:"totalPresent"`
	TotalAbsent  int                 `json:"totalAbsent"`
}

func (s *Service) TodayAttendance(ctx context.Context) (*TodayAttendance, error) {
	day := models.DayOf(s.now(), s.loc)
	out := &TodayAttendance{Date: day, Marked: []models.Attendance{}, Unmarked: []models.Member{}}

	db := s.conn(ctx)
	if err := db.Preload("Member").Where("day = ?", day).Find(&out.Marked).Error; err != nil {
		return nil, translate(err, "today attendance", "Attendance")
	}
	err := db.Where("is_active = ?", true).
		Where("id NOT IN (?)", db.Model(&models.Attendance{}).Select("member_id").Where("day = ?", day)).
		Order("name asc").
		Find(&out.Unmarked).Error
	if err != nil {
		return nil, translate(err, "today attendance", "Member")
	}

	for _, a := range out.Marked {
		switch a.Status {
		case models.Present:
			out.TotalPresent++
		case models.Absent:
			out.TotalAbsent++
		}
	}
	return out, nil
}

type AttendanceSummary struct {
	TotalDays            int     `json:"totalDays"`
	PresentDays          int     `json:"presentDays"`
	AbsentDays           int     `json:"absentDays"`
	HolidayDays          int     `json:"holidayDays"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

type MemberAttendance struct {
	Attendance []models.Attendance `json:"attendance"`
	Stats      AttendanceSummary   `json:"stats"`
}

// AttendanceForMember lists the member's records, newest first, limited to
// the period when it is complete.
func (s *Service) AttendanceForMember(ctx context.Context, memberID string, p Period) (*MemberAttendance, error) {
	q := s.conn(ctx).Where("member_id = ?", memberID).Order("day desc")
	if p.Complete() {
		q = q.Where("month = ? AND year = ?", p.Month, p.Year)
	}
	out := &MemberAttendance{Attendance: []models.Attendance{}}
	if err := q.Find(&out.Attendance).Error; err != nil {
		return nil, translate(err, "member attendance", "Attendance")
	}
	out.Stats = summarize(out.Attendance)
	return out, nil
}

func summarize(records []models.Attendance) AttendanceSummary {
	st := AttendanceSummary{TotalDays: len(records)}
	for _, a := range records {
		switch a.Status {
		case models.Present:
			st.PresentDays++
		case models.Absent:
			st.AbsentDays++
		case models.Holiday:
			st.HolidayDays++
		}
	}
	if st.TotalDays > 0 {
		pct := float64(st.PresentDays) / float64(st.TotalDays) * 100
		st.AttendancePercentage = math.Round(pct*100) / 100
	}
	return st
}

type StatusCount struct {
	Status models.AttendanceStatus `json:"_id"`
	Count  int64                   `json:"count"`
}

// AttendanceStats counts records per status for the period. A period with no
// records yields an empty list.
func (s *Service) AttendanceStats(ctx context.Context, p Period) ([]StatusCount, error) {
	p = s.orCurrentMonth(p)
	out := []StatusCount{}
	err := s.conn(ctx).Model(&models.Attendance{}).
		Select("status, COUNT(*) AS count").
		Where("month = ? AND year = ?", p.Month, p.Year).
		Group("status").
		Order("status").
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, "attendance stats", "Attendance")
	}
	return out, nil
}

func (s *Service) orCurrentMonth(p Period) Period {
	if p.Complete() {
		return p
	}
	now := s.localNow()
	if p.Month == 0 {
		p.Month = int(now.Month())
	}
	if p.Year == 0 {
		p.Year = now.Year()
	}
	return p
}
