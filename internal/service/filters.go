package service

import (
	"strconv"
	"strings"

	"mess-admin-go/internal/models"
)

// Period is an optional (month, year) bucket. Zero fields are unset.
type Period struct {
	Month int
	Year  int
}

// NewPeriod parses raw query values. Empty strings leave the field unset.
func NewPeriod(month, year string) (Period, error) {
	var p Period
	if month = strings.TrimSpace(month); month != "" {
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			return Period{}, invalid("month", "month must be between 1 and 12")
		}
		p.Month = m
	}
	if year = strings.TrimSpace(year); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1 {
			return Period{}, invalid("year", "year must be a positive number")
		}
		p.Year = y
	}
	return p, nil
}

func (p Period) Complete() bool { return p.Month != 0 && p.Year != 0 }

// MemberFilter holds the validated criteria of a member listing.
type MemberFilter struct {
	search string
	plan   models.PlanType
	active *bool
}

func NewMemberFilter(search, plan, active string) (MemberFilter, error) {
	f := MemberFilter{search: strings.TrimSpace(search)}
	if plan = strings.TrimSpace(plan); plan != "" {
		if !models.PlanType(plan).Valid() {
			return MemberFilter{}, invalid("paymentPlan", "paymentPlan must be one of monthly, 15days, nasta, custom")
		}
		f.plan = models.PlanType(plan)
	}
	switch active = strings.TrimSpace(active); active {
	case "":
	case "true", "false":
		v := active == "true"
		f.active = &v
	default:
		return MemberFilter{}, invalid("isActive", "isActive must be true or false")
	}
	return f, nil
}

// PaymentFilter narrows a payment listing by member and period.
type PaymentFilter struct {
	memberID string
	period   Period
}

func NewPaymentFilter(memberID string, period Period) PaymentFilter {
	return PaymentFilter{memberID: strings.TrimSpace(memberID), period: period}
}

// ActivityFilter bounds the activity feed.
type ActivityFilter struct {
	limit  int
	entity models.Entity
}

const maxActivityLimit = 100

func NewActivityFilter(limit, entity string, defaultLimit int) (ActivityFilter, error) {
	f := ActivityFilter{limit: defaultLimit}
	if limit = strings.TrimSpace(limit); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return ActivityFilter{}, invalid("limit", "limit must be a positive number")
		}
		f.limit = n
	}
	if f.limit < 1 {
		f.limit = 20
	}
	if f.limit > maxActivityLimit {
		f.limit = maxActivityLimit
	}
	switch e := models.Entity(strings.TrimSpace(entity)); e {
	case "":
	case models.EntityMember, models.EntityAttendance, models.EntityPayment, models.EntitySystem:
		f.entity = e
	default:
		return ActivityFilter{}, invalid("entity", "entity must be one of member, attendance, payment, system")
	}
	return f, nil
}
