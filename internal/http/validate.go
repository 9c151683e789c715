package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"

	"mess-admin-go/internal/service"
)

//go:embed schemas/*.schema.json
var schemaFiles embed.FS

var schemaNames = []string{
	"member_create",
	"member_update",
	"payment_create",
	"attendance_mark",
	"attendance_toggle",
	"attendance_bulk",
}

func loadSchemas() map[string]*gojsonschema.Schema {
	out := make(map[string]*gojsonschema.Schema, len(schemaNames))
	for _, name := range schemaNames {
		raw, err := schemaFiles.ReadFile("schemas/" + name + ".schema.json")
		if err != nil {
			panic(err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			panic(err)
		}
		out[name] = schema
	}
	return out
}

// bindBody validates the raw request body against the named schema and
// decodes it into dst. It writes the 400 response itself and reports false
// when the body is rejected.
func (s *Server) bindBody(c *gin.Context, schema string, dst interface{}) bool {
	raw, err := c.GetRawData()
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		badRequest(c, "Request body is required", nil)
		return false
	}

	res, err := s.schemas[schema].Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		badRequest(c, "Request body is not valid JSON", nil)
		return false
	}
	if !res.Valid() {
		d := []string{}
		for _, e := range res.Errors() {
			d = append(d, e.String())
		}
		badRequest(c, "Request body failed validation", d)
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		badRequest(c, "Request body failed validation", []string{err.Error()})
		return false
	}
	return true
}

// amount reads a JSON number or numeric string. Empty means zero.
func amount(n json.Number) (float64, error) {
	if n == "" {
		return 0, nil
	}
	return strconv.ParseFloat(string(n), 64)
}

// date parses an optional date field; empty yields the zero time.
func (s *Server) date(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	return service.ParseDate(raw, s.svc.Location())
}

func (s *Server) datePtr(raw string) (*time.Time, error) {
	t, err := s.date(raw)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

func (s *Server) period(c *gin.Context) (service.Period, bool) {
	p, err := service.NewPeriod(c.Query("month"), c.Query("year"))
	if err != nil {
		s.fail(c, err)
		return service.Period{}, false
	}
	return p, true
}
