package http

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"mess-admin-go/internal/models"
	"mess-admin-go/internal/service"
)

type paymentRequest struct {
	MemberID      string      `json:"memberId"`
	Amount        json.Number `json:"amount"`
	PaymentDate   string      `json:"paymentDate"`
	PaymentMethod string      `json:"paymentMethod"`
	TransactionID string      `json:"transactionId"`
	Notes         string      `json:"notes"`
}

func (s *Server) listPayments(c *gin.Context) {
	p, ok := s.period(c)
	if !ok {
		return
	}
	payments, err := s.svc.ListPayments(c.Request.Context(), service.NewPaymentFilter(c.Query("memberId"), p))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondList(c, payments, len(payments))
}

func (s *Server) createPayment(c *gin.Context) {
	var req paymentRequest
	if !s.bindBody(c, "payment_create", &req) {
		return
	}

	in := service.PaymentInput{
		MemberID:      req.MemberID,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}
	var err error
	if in.Amount, err = amount(req.Amount); err != nil {
		badRequest(c, "amount must be a number", nil)
		return
	}
	if in.PaymentDate, err = s.datePtr(req.PaymentDate); err != nil {
		s.fail(c, err)
		return
	}

	p, err := s.svc.RecordPayment(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondMessage(c, 201, "Payment recorded successfully", p)
}

func (s *Server) memberPayments(c *gin.Context) {
	out, err := s.svc.PaymentsForMember(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, 200, out)
}

func (s *Server) paymentStats(c *gin.Context) {
	p, ok := s.period(c)
	if !ok {
		return
	}
	st, err := s.svc.PaymentStats(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, 200, st)
}

func (s *Server) pendingPayments(c *gin.Context) {
	pending, err := s.svc.PendingPayments(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respondList(c, pending, len(pending))
}

func (s *Server) deletePayment(c *gin.Context) {
	if err := s.svc.DeletePayment(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	respondMessage(c, 200, "Payment deleted successfully", nil)
}
