package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"mess-admin-go/internal/models"
)

type PaymentInput struct {
	MemberID      string               `json:"memberId" validate:"required"`
	Amount        float64              `json:"amount" validate:"gte=0"`
	PaymentDate   *time.Time           `json:"paymentDate"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"omitempty,method"`
	TransactionID string               `json:"transactionId"`
	Notes         string               `json:"notes"`
}

// RecordPayment books a payment and rolls it into the member in one
// transaction: ledger row, totalPaid, lastPaymentDate and nextPaymentDue.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	var (
		m models.Member
		p *models.Payment
	)
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", in.MemberID).Error; err != nil {
			return err
		}
		var err error
		p, err = s.applyPayment(tx, &m, in)
		return err
	})
	if err != nil {
		return nil, translate(err, "record payment", "Member")
	}

	s.logActivity(ctx, models.ActionCreate, models.EntityPayment, p.ID,
		fmt.Sprintf("Payment of ₹%s received from %s", formatAmount(p.Amount), m.Name),
		map[string]interface{}{"memberId": m.ID, "amount": p.Amount, "paymentMethod": p.PaymentMethod})
	return p, nil
}

// applyPayment must run inside a transaction. It updates m in memory to
// match what was written.
func (s *Service) applyPayment(tx *gorm.DB, m *models.Member, in PaymentInput) (*models.Payment, error) {
	date := s.localNow()
	if in.PaymentDate != nil && !in.PaymentDate.IsZero() {
		date = in.PaymentDate.In(s.loc)
	}
	method := in.PaymentMethod
	if method == "" {
		method = models.MethodCash
	}

	p := models.Payment{
		MemberID:      m.ID,
		Amount:        in.Amount,
		PaymentDate:   date,
		PaymentMethod: method,
		TransactionID: in.TransactionID,
		Notes:         in.Notes,
	}
	if err := tx.Create(&p).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"total_paid":        gorm.Expr("total_paid + ?", in.Amount),
		"last_payment_date": date.UTC(),
	}
	due, advance := models.NextDueDate(m.PaymentPlan, date)
	if advance {
		updates["next_payment_due"] = due.UTC()
	}
	res := tx.Model(&models.Member{}).Where("id = ?", m.ID).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	m.TotalPaid += in.Amount
	m.LastPaymentDate = utcPtr(date)
	if advance {
		m.NextPaymentDue = utcPtr(due)
	}
	return &p, nil
}

// DeletePayment removes a ledger row and takes its amount back off the
// member's totalPaid, never below zero. The due date is left as it is.
func (s *Service) DeletePayment(ctx context.Context, id string) error {
	var p models.Payment
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&p).Error; err != nil {
			return err
		}
		return tx.Model(&models.Member{}).Where("id = ?", p.MemberID).
			Update("total_paid", gorm.Expr("CASE WHEN total_paid > ? THEN total_paid - ? ELSE 0 END", p.Amount, p.Amount)).
			Error
	})
	if err != nil {
		return translate(err, "delete payment", "Payment")
	}

	s.logActivity(ctx, models.ActionDelete, models.EntityPayment, p.ID,
		fmt.Sprintf("Payment of ₹%s deleted", formatAmount(p.Amount)),
		map[string]interface{}{"memberId": p.MemberID, "amount": p.Amount})
	return nil
}

// ListPayments returns the newest payments first with a member summary.
func (s *Service) ListPayments(ctx context.Context, f PaymentFilter) ([]models.Payment, error) {
	q := s.conn(ctx).Preload("Member").Order("payment_date desc")
	if f.memberID != "" {
		q = q.Where("member_id = ?", f.memberID)
	}
	if f.period.Month != 0 {
		q = q.Where("month = ?", f.period.Month)
	}
	if f.period.Year != 0 {
		q = q.Where("year = ?", f.period.Year)
	}

	out := []models.Payment{}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err, "list payments", "Payment")
	}
	return out, nil
}

type MemberPayments struct {
	Payments  []models.Payment `json:"payments"`
	TotalPaid float64          `json:"totalPaid"`
}

// PaymentsForMember returns the member's ledger and a total summed from it,
// independent of the member's stored rollup.
func (s *Service) PaymentsForMember(ctx context.Context, memberID string) (*MemberPayments, error) {
	out := &MemberPayments{Payments: []models.Payment{}}
	db := s.conn(ctx)
	if err := db.Where("member_id = ?", memberID).Order("payment_date desc").Find(&out.Payments).Error; err != nil {
		return nil, translate(err, "member payments", "Payment")
	}
	for _, p := range out.Payments {
		out.TotalPaid += p.Amount
	}
	return out, nil
}

type PendingMember struct {
	ID                 string          `json:"_id"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	PaymentPlan        models.PlanType `json:"paymentPlan"`
	PlanAmount         float64         `json:"planAmount"`
	NextPaymentDue     *time.Time      `json:"nextPaymentDue"`
	OutstandingBalance float64         `json:"outstandingBalance"`
}

// PendingPayments lists active members whose due date has passed.
func (s *Service) PendingPayments(ctx context.Context) ([]PendingMember, error) {
	out := []PendingMember{}
	err := s.pendingQuery(ctx).
		Select("id, name, phone, payment_plan, plan_amount, next_payment_due, outstanding_balance").
		Order("next_payment_due asc").
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, "pending payments", "Member")
	}
	return out, nil
}

func (s *Service) pendingQuery(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Model(&models.Member{}).
		Where("is_active = ? AND next_payment_due IS NOT NULL AND next_payment_due <= ?", true, s.now().UTC())
}

func formatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}
