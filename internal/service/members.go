package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"mess-admin-go/internal/models"
)

type InitialPayment struct {
	Amount        float64              `json:"amount" validate:"gte=0"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"omitempty,method"`
	TransactionID string               `json:"transactionId"`
	Notes         string               `json:"notes"`
}

type NewMember struct {
	Name             string          `json:"name" validate:"required"`
	Phone            string          `json:"phone" validate:"required,phone10"`
	FoodTime         models.FoodTime `json:"foodTime" validate:"required,foodtime"`
	PaymentPlan      models.PlanType `json:"paymentPlan" validate:"required,plan"`
	PlanAmount       float64         `json:"planAmount" validate:"gte=0"`
	JoiningDate      *time.Time      `json:"joiningDate"`
	Address          string          `json:"address"`
	EmergencyContact string          `json:"emergencyContact" validate:"omitempty,phone10"`
	InitialPayment   *InitialPayment `json:"initialPayment"`
}

// MemberChanges is a partial update; nil fields are left alone.
type MemberChanges struct {
	Name               *string          `json:"name" validate:"omitempty,min=1"`
	Phone              *string          `json:"phone" validate:"omitempty,min=1,phone10"`
	Address            *string          `json:"address"`
	EmergencyContact   *string          `json:"emergencyContact" validate:"omitempty,phone10"`
	FoodTime           *models.FoodTime `json:"foodTime" validate:"omitempty,foodtime"`
	PaymentPlan        *models.PlanType `json:"paymentPlan" validate:"omitempty,plan"`
	PlanAmount         *float64         `json:"planAmount" validate:"omitempty,gte=0"`
	JoiningDate        *time.Time       `json:"joiningDate"`
	IsActive           *bool            `json:"isActive"`
	NextPaymentDue     *time.Time       `json:"nextPaymentDue"`
	OutstandingBalance *float64         `json:"outstandingBalance" validate:"omitempty,gte=0"`
}

const initialPaymentNote = "Initial payment at registration"

// CreateMember registers a member. The first due date is counted from the
// joining date. A positive initial payment is booked through the regular
// payment path, dated at the joining date, in the same transaction.
func (s *Service) CreateMember(ctx context.Context, in NewMember) (*models.Member, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := check(in); err != nil {
		return nil, err
	}

	joined := s.localNow()
	if in.JoiningDate != nil && !in.JoiningDate.IsZero() {
		joined = in.JoiningDate.In(s.loc)
	}

	m := models.Member{
		Name:             in.Name,
		Phone:            in.Phone,
		Address:          strings.TrimSpace(in.Address),
		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
		FoodTime:         in.FoodTime,
		PaymentPlan:      in.PaymentPlan,
		PlanAmount:       in.PlanAmount,
		JoiningDate:      joined.UTC(),
		IsActive:         true,
	}
	if due, ok := models.NextDueDate(m.PaymentPlan, joined); ok {
		m.NextPaymentDue = utcPtr(due)
	}

	var initial *models.Payment
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Member{}).Where("phone = ?", m.Phone).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return errPhoneTaken
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		ip := in.InitialPayment
		if ip == nil || ip.Amount <= 0 {
			return nil
		}
		notes := ip.Notes
		if notes == "" {
			notes = initialPaymentNote
		}
		p, err := s.applyPayment(tx, &m, PaymentInput{
			MemberID:      m.ID,
			Amount:        ip.Amount,
			PaymentDate:   &joined,
			PaymentMethod: ip.PaymentMethod,
			TransactionID: ip.TransactionID,
			Notes:         notes,
		})
		initial = p
		return err
	})
	if err != nil {
		return nil, translate(err, "create member", "Member")
	}

	s.logActivity(ctx, models.ActionCreate, models.EntityMember, m.ID, fmt.Sprintf("New member added: %s", m.Name), nil)
	if initial != nil {
		s.logActivity(ctx, models.ActionCreate, models.EntityPayment, initial.ID,
			fmt.Sprintf("Initial payment of ₹%s received from %s", formatAmount(initial.Amount), m.Name),
			map[string]interface{}{"memberId": m.ID, "amount": initial.Amount})
	}
	return &m, nil
}

// UpdateMember applies changes. Changing the plan recomputes the due date
// from the last payment, or from the joining date when nothing was paid yet.
// An explicit nextPaymentDue wins over the recomputed one.
func (s *Service) UpdateMember(ctx context.Context, id string, ch MemberChanges) (*models.Member, error) {
	if err := check(ch); err != nil {
		return nil, err
	}

	var m models.Member
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}

		if ch.Phone != nil && *ch.Phone != m.Phone {
			var taken int64
			if err := tx.Model(&models.Member{}).Where("phone = ? AND id <> ?", *ch.Phone, m.ID).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return errPhoneTaken
			}
			m.Phone = *ch.Phone
		}
		if ch.Name != nil {
			m.Name = strings.TrimSpace(*ch.Name)
		}
		if ch.Address != nil {
			m.Address = strings.TrimSpace(*ch.Address)
		}
		if ch.EmergencyContact != nil {
			m.EmergencyContact = strings.TrimSpace(*ch.EmergencyContact)
		}
		if ch.FoodTime != nil {
			m.FoodTime = *ch.FoodTime
		}
		if ch.PlanAmount != nil {
			m.PlanAmount = *ch.PlanAmount
		}
		if ch.JoiningDate != nil && !ch.JoiningDate.IsZero() {
			m.JoiningDate = ch.JoiningDate.UTC()
		}
		if ch.IsActive != nil {
			m.IsActive = *ch.IsActive
		}
		if ch.OutstandingBalance != nil {
			m.OutstandingBalance = *ch.OutstandingBalance
		}
		if ch.PaymentPlan != nil && *ch.PaymentPlan != m.PaymentPlan {
			m.PaymentPlan = *ch.PaymentPlan
			if due, ok := models.NextDueDate(m.PaymentPlan, s.localNow()); ok {
				m.NextPaymentDue = utcPtr(due)
			}
		}
		if ch.NextPaymentDue != nil {
			if ch.NextPaymentDue.IsZero() {
				m.NextPaymentDue = nil
			} else {
				m.NextPaymentDue = utcPtr(*ch.NextPaymentDue)
			}
		}
		return tx.Save(&m).Error
	})
	if err != nil {
		return nil, translate(err, "update member", "Member")
	}

	s.logActivity(ctx, models.ActionUpdate, models.EntityMember, m.ID, fmt.Sprintf("Member updated: %s", m.Name), nil)
	return &m, nil
}

// DeleteMember removes the member record only. Its payments and attendance
// stay in their ledgers and simply lose their member summary.
func (s *Service) DeleteMember(ctx context.Context, id string) error {
	var m models.Member
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&m).Error
	})
	if err != nil {
		return translate(err, "delete member", "Member")
	}

	s.logActivity(ctx, models.ActionDelete, models.EntityMember, m.ID, fmt.Sprintf("Member deleted: %s", m.Name), nil)
	return nil
}

func (s *Service) GetMember(ctx context.Context, id string) (*models.Member, error) {
	var m models.Member
	if err := s.conn(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get member", "Member")
	}
	return &m, nil
}

// ListMembers returns the newest registrations first.
func (s *Service) ListMembers(ctx context.Context, f MemberFilter) ([]models.Member, error) {
	q := s.conn(ctx).Order("created_at desc")
	if f.search != "" {
		like := "%" + strings.ToLower(f.search) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR phone LIKE ?)", like, like)
	}
	if f.plan != "" {
		q = q.Where("payment_plan = ?", f.plan)
	}
	if f.active != nil {
		q = q.Where("is_active = ?", *f.active)
	}

	out := []models.Member{}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err, "list members", "Member")
	}
	return out, nil
}
