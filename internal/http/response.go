package http

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"mess-admin-go/internal/service"
)

func respond(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, code int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

func respondList(c *gin.Context, data interface{}, count int) {
	c.JSON(200, gin.H{"success": true, "count": count, "data": data})
}

func badRequest(c *gin.Context, message string, details interface{}) {
	body := gin.H{"success": false, "message": message}
	if details != nil {
		body["details"] = details
	}
	c.AbortWithStatusJSON(400, body)
}

// fail maps a service error to its HTTP status. Unexpected errors are logged
// and only described in debug mode.
func (s *Server) fail(c *gin.Context, err error) {
	var (
		ve *service.ValidationError
		de *service.DuplicateError
		nf *service.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		var details interface{}
		if len(ve.Fields) > 0 {
			details = ve.Fields
		}
		badRequest(c, ve.Error(), details)
	case errors.As(err, &de):
		badRequest(c, de.Error(), nil)
	case errors.As(err, &nf):
		c.AbortWithStatusJSON(404, gin.H{"success": false, "message": nf.Error()})
	default:
		log.Printf("%s %s: %+v", c.Request.Method, c.Request.URL.Path, err)
		body := gin.H{"success": false, "message": "Something went wrong!"}
		if s.cfg.Debug {
			body["error"] = err.Error()
		}
		c.AbortWithStatusJSON(500, body)
	}
}
