package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance is one member's record for one calendar day. Date is the day in
// the mess's zone (YYYY-MM-DD), stored in column day; (MemberID, Date) is
// unique.
type Attendance struct {
	ID       string           `gorm:"primaryKey;size:36" json:"_id"`
	MemberID string           `gorm:"size:36;not null;uniqueIndex:idx_attendance_member_day,priority:1" json:"memberId"`
	Member   *MemberSummary   `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Date     string           `gorm:"column:day;size:10;not null;uniqueIndex:idx_attendance_member_day,priority:2" json:"date"`
	Status   AttendanceStatus `gorm:"size:10;not null;index" json:"status"`
	Month    int              `gorm:"not null;index:idx_attendance_period,priority:2" json:"month"`
	Year     int              `gorm:"not null;index:idx_attendance_period,priority:1" json:"year"`
	MealType MealType         `gorm:"embedded;embeddedPrefix:meal_" json:"mealType"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MealType struct {
	Breakfast bool `gorm:"not null;default:false" json:"breakfast"`
	Lunch     bool `gorm:"not null;default:false" json:"lunch"`
	Dinner    bool `gorm:"not null;default:false" json:"dinner"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave derives Month and Year from Date so the period index can never
// disagree with the day it indexes.
func (a *Attendance) BeforeSave(tx *gorm.DB) error {
	day, err := time.Parse(DayLayout, a.Date)
	if err != nil {
		return fmt.Errorf("attendance date %q: %w", a.Date, err)
	}
	a.Month = int(day.Month())
	a.Year = day.Year()
	return nil
}

// DayOf truncates t to its calendar day in loc.
func DayOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}
