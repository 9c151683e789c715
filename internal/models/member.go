package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Member struct {
	ID               string    `gorm:"primaryKey;size:36" json:"_id"`
	Name             string    `gorm:"not null" json:"name"`
	Phone            string    `gorm:"uniqueIndex;size:10;not null" json:"phone"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `gorm:"size:10" json:"emergencyContact,omitempty"`
	FoodTime         FoodTime  `gorm:"size:16;not null;index" json:"foodTime"`
	PaymentPlan      PlanType  `gorm:"size:16;not null;index" json:"paymentPlan"`
	PlanAmount       float64   `gorm:"not null" json:"planAmount"`
	JoiningDate      time.Time `gorm:"not null" json:"joiningDate"`
	IsActive         bool      `gorm:"not null;index" json:"isActive"`

	// Rollup of the payment ledger, maintained by the payment write path.
	LastPaymentDate    *time.Time `json:"lastPaymentDate,omitempty"`
	NextPaymentDue     *time.Time `gorm:"index" json:"nextPaymentDue,omitempty"`
	TotalPaid          float64    `gorm:"not null;default:0" json:"totalPaid"`
	OutstandingBalance float64    `gorm:"not null;default:0" json:"outstandingBalance"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MemberSummary is the subset of a member loaded next to ledger rows.
type MemberSummary struct {
	ID          string   `gorm:"primaryKey" json:"_id"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	FoodTime    FoodTime `json:"foodTime,omitempty"`
	PaymentPlan PlanType `json:"paymentPlan,omitempty"`
}

func (MemberSummary) TableName() string { return "members" }
