package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"mess-admin-go/internal/models"
	"mess-admin-go/internal/service"
)

type markRequest struct {
	MemberID string           `json:"memberId"`
	Date     string           `json:"date"`
	Status   string           `json:"status"`
	MealType *models.MealType `json:"mealType"`
}

type bulkMarkRequest struct {
	Date    string   `json:"date"`
	Members []string `json:"members"`
	Status  string   `json:"status"`
}

// markDate resolves the day a mark applies to; no date means today.
func (s *Server) markDate(raw string) (time.Time, error) {
	t, err := s.date(raw)
	if err != nil || !t.IsZero() {
		return t, err
	}
	return s.svc.Today(), nil
}

func (s *Server) monthlyAttendance(c *gin.Context) {
	p, ok := s.period(c)
	if !ok {
		return
	}
	records, err := s.svc.MonthlyAttendance(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondList(c, records, len(records))
}

func (s *Server) todayAttendance(c *gin.Context) {
	today, err := s.svc.TodayAttendance(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, 200, today)
}

func (s *Server) attendanceStats(c *gin.Context) {
	p, ok := s.period(c)
	if !ok {
		return
	}
	stats, err := s.svc.AttendanceStats(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, 200, stats)
}

func (s *Server) memberAttendance(c *gin.Context) {
	p, ok := s.period(c)
	if !ok {
		return
	}
	out, err := s.svc.AttendanceForMember(c.Request.Context(), c.Param("memberId"), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, 200, out)
}

func (s *Server) markAttendance(c *gin.Context) {
	var req markRequest
	if !s.bindBody(c, "attendance_mark", &req) {
		return
	}
	day, err := s.markDate(req.Date)
	if err != nil {
		s.fail(c, err)
		return
	}

	rec, err := s.svc.MarkAttendance(c.Request.Context(), service.MarkInput{
		MemberID: req.MemberID,
		Date:     day,
		Status:   models.AttendanceStatus(req.Status),
		MealType: req.MealType,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	respondMessage(c, 200, "Attendance marked successfully", rec)
}

func (s *Server) toggleAttendance(c *gin.Context) {
	var req markRequest
	if !s.bindBody(c, "attendance_toggle", &req) {
		return
	}
	day, err := s.markDate(req.Date)
	if err != nil {
		s.fail(c, err)
		return
	}

	rec, err := s.svc.ToggleAttendance(c.Request.Context(), req.MemberID, day)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondMessage(c, 200, fmt.Sprintf("Attendance set to %s", rec.Status), rec)
}

func (s *Server) bulkMarkAttendance(c *gin.Context) {
	var req bulkMarkRequest
	if !s.bindBody(c, "attendance_bulk", &req) {
		return
	}
	day, err := s.markDate(req.Date)
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.svc.BulkMarkAttendance(c.Request.Context(), service.BulkMarkInput{
		Date:    day,
		Members: req.Members,
		Status:  models.AttendanceStatus(req.Status),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, gin.H{
		"success": true,
		"message": fmt.Sprintf("Attendance marked for %d members", len(res.Records)),
		"count":   len(res.Records),
		"data":    res.Records,
		"failed":  res.Failed,
	})
}
