package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is a ledger row. Rows are never edited; they are only created or
// deleted.
type Payment struct {
	ID            string         `gorm:"primaryKey;size:36" json:"_id"`
	MemberID      string         `gorm:"size:36;not null;index:idx_payment_member_date,priority:1" json:"memberId"`
	Member        *MemberSummary `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Amount        float64        `gorm:"not null" json:"amount"`
	PaymentDate   time.Time      `gorm:"not null;index:idx_payment_member_date,priority:2,sort:desc" json:"paymentDate"`
	PaymentMethod PaymentMethod  `gorm:"size:16;not null;index" json:"paymentMethod"`
	TransactionID string         `json:"transactionId,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	Month         int            `gorm:"not null;index:idx_payment_period,priority:2" json:"month"`
	Year          int            `gorm:"not null;index:idx_payment_period,priority:1" json:"year"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate stamps the id and the month/year bucket. PaymentDate must
// already be expressed in the mess's zone; it is stored in UTC afterwards.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Month = int(p.PaymentDate.Month())
	p.Year = p.PaymentDate.Year()
	p.PaymentDate = p.PaymentDate.UTC()
	return nil
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodUPI, MethodCard, MethodBankTransfer:
		return true
	}
	return false
}
