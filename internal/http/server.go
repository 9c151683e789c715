package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"

	"mess-admin-go/internal/config"
	"mess-admin-go/internal/service"
)

type Server struct {
	cfg     *config.Config
	svc     *service.Service
	schemas map[string]*gojsonschema.Schema
}

func NewServer(cfg *config.Config, svc *service.Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors(cfg))
	r.Use(logging())
	r.Use(requestTimeout(time.Duration(cfg.ReqTimeoutSec) * time.Second))

	s := &Server{cfg: cfg, svc: svc, schemas: loadSchemas()}

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK", "message": "Server is running"})
	})

	admin := api.Group("")
	if cfg.AdminTokenHash != "" {
		admin.Use(adminAuth(cfg.AdminTokenHash))
	}
	{
		admin.GET("/members", s.listMembers)
		admin.GET("/members/stats", s.memberStats)
		admin.GET("/members/:id", s.getMember)
		admin.POST("/members", s.createMember)
		admin.PUT("/members/:id", s.updateMember)
		admin.DELETE("/members/:id", s.deleteMember)

		admin.GET("/attendance/monthly", s.monthlyAttendance)
		admin.GET("/attendance/today", s.todayAttendance)
		admin.GET("/attendance/stats", s.attendanceStats)
		admin.GET("/attendance/member/:memberId", s.memberAttendance)
		admin.POST("/attendance/mark", s.markAttendance)
		admin.POST("/attendance/toggle", s.toggleAttendance)
		admin.POST("/attendance/bulk-mark", s.bulkMarkAttendance)

		admin.GET("/payments", s.listPayments)
		admin.GET("/payments/stats", s.paymentStats)
		admin.GET("/payments/pending", s.pendingPayments)
		admin.GET("/payments/member/:memberId", s.memberPayments)
		admin.POST("/payments", s.createPayment)
		admin.DELETE("/payments/:id", s.deletePayment)

		admin.GET("/dashboard/stats", s.dashboardStats)
		admin.GET("/dashboard/activities", s.activities)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"success": false, "message": "Route not found"})
	})
	return r
}

func cors(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.AllowOrigins)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// requestTimeout bounds the storage work of every request. d <= 0 disables it.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
