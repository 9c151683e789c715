package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"mess-admin-go/internal/models"
)

// Service implements the mess's record keeping on top of a gorm database.
// Calendar days (attendance, month/year buckets, due dates) are counted in loc.
type Service struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func New(db *gorm.DB, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, loc: loc, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Service) localNow() time.Time {
	return s.now().In(s.loc)
}

// Today is the current time in the mess zone.
func (s *Service) Today() time.Time { return s.localNow() }

// ParseDate accepts a calendar day (2006-01-02, read in loc) or an RFC 3339
// timestamp.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(models.DayLayout, raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, invalid("date", "date must be YYYY-MM-DD or an RFC 3339 timestamp")
	}
	return t.In(loc), nil
}

func utcPtr(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
