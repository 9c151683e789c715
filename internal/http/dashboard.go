package http

import (
	"github.com/gin-gonic/gin"

	"mess-admin-go/internal/service"
)

func (s *Server) dashboardStats(c *gin.Context) {
	d, err := s.svc.Dashboard(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, 200, d)
}

func (s *Server) activities(c *gin.Context) {
	f, err := service.NewActivityFilter(c.Query("limit"), c.Query("entity"), s.cfg.ActivityFeedLimit)
	if err != nil {
		s.fail(c, err)
		return
	}
	logs, err := s.svc.Activities(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondList(c, logs, len(logs))
}
