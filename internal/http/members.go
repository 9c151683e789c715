package http

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mess-admin-go/internal/models"
	"mess-admin-go/internal/service"
)

type memberRequest struct {
	Name             string      `json:"name"`
	Phone            string      `json:"phone"`
	Address          string      `json:"address"`
	EmergencyContact string      `json:"emergencyContact"`
	FoodTime         string      `json:"foodTime"`
	PaymentPlan      string      `json:"paymentPlan"`
	PlanAmount       json.Number `json:"planAmount"`
	JoiningDate      string      `json:"joiningDate"`
	InitialPayment   *struct {
		Amount        json.Number `json:"amount"`
		PaymentMethod string      `json:"paymentMethod"`
		TransactionID string      `json:"transactionId"`
		Notes         string      `json:"notes"`
	} `json:"initialPayment"`
}

func (s *Server) listMembers(c *gin.Context) {
	f, err := service.NewMemberFilter(c.Query("search"), c.Query("paymentPlan"), c.Query("isActive"))
	if err != nil {
		s.fail(c, err)
		return
	}
	members, err := s.svc.ListMembers(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondList(c, members, len(members))
}

func (s *Server) getMember(c *gin.Context) {
	m, err := s.svc.GetMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, 200, m)
}

func (s *Server) createMember(c *gin.Context) {
	var req memberRequest
	if !s.bindBody(c, "member_create", &req) {
		return
	}

	in := service.NewMember{
		Name:             req.Name,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		FoodTime:         models.FoodTime(req.FoodTime),
		PaymentPlan:      models.PlanType(req.PaymentPlan),
	}
	var err error
	if in.PlanAmount, err = amount(req.PlanAmount); err != nil {
		badRequest(c, "planAmount must be a number", nil)
		return
	}
	if in.JoiningDate, err = s.datePtr(req.JoiningDate); err != nil {
		s.fail(c, err)
		return
	}
	if ip := req.InitialPayment; ip != nil {
		a, err := amount(ip.Amount)
		if err != nil {
			badRequest(c, "initialPayment.amount must be a number", nil)
			return
		}
		in.InitialPayment = &service.InitialPayment{
			Amount:        a,
			PaymentMethod: models.PaymentMethod(ip.PaymentMethod),
			TransactionID: ip.TransactionID,
			Notes:         ip.Notes,
		}
	}

	m, err := s.svc.CreateMember(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondMessage(c, 201, "Member created successfully", m)
}

func (s *Server) updateMember(c *gin.Context) {
	var input map[string]interface{}
	if !s.bindBody(c, "member_update", &input) {
		return
	}

	var ch service.MemberChanges
	if v, ok := input["name"].(string); ok {
		ch.Name = &v
	}
	if v, ok := input["phone"].(string); ok {
		ch.Phone = &v
	}
	if v, ok := input["address"].(string); ok {
		ch.Address = &v
	}
	if v, ok := input["emergencyContact"].(string); ok {
		ch.EmergencyContact = &v
	}
	if v, ok := input["foodTime"].(string); ok {
		ft := models.FoodTime(v)
		ch.FoodTime = &ft
	}
	if v, ok := input["paymentPlan"].(string); ok {
		p := models.PlanType(v)
		ch.PaymentPlan = &p
	}
	if v, ok := input["isActive"].(bool); ok {
		ch.IsActive = &v
	}

	var err error
	if ch.PlanAmount, err = numberField(input, "planAmount"); err != nil {
		s.fail(c, err)
		return
	}
	if ch.OutstandingBalance, err = numberField(input, "outstandingBalance"); err != nil {
		s.fail(c, err)
		return
	}
	if v, ok := input["joiningDate"].(string); ok {
		if ch.JoiningDate, err = s.datePtr(v); err != nil {
			s.fail(c, err)
			return
		}
	}
	if raw, present := input["nextPaymentDue"]; present {
		due := time.Time{}
		if v, ok := raw.(string); ok && v != "" {
			if due, err = s.date(v); err != nil {
				s.fail(c, err)
				return
			}
		}
		ch.NextPaymentDue = &due
	}

	m, err := s.svc.UpdateMember(c.Request.Context(), c.Param("id"), ch)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondMessage(c, 200, "Member updated successfully", m)
}

// numberField reads a number that may arrive as a JSON number or a numeric
// string.
func numberField(input map[string]interface{}, key string) (*float64, error) {
	switch v := input[key].(type) {
	case float64:
		return &v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &service.ValidationError{
				Message: key + " must be a number",
				Fields:  map[string]string{key: key + " must be a number"},
			}
		}
		return &f, nil
	}
	return nil, nil
}

func (s *Server) deleteMember(c *gin.Context) {
	if err := s.svc.DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	respondMessage(c, 200, "Member deleted successfully", nil)
}

func (s *Server) memberStats(c *gin.Context) {
	st, err := s.svc.MemberStats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, 200, st)
}
