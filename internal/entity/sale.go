package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Resultado da chamada do closer.
const (
	OutcomeSale       = "sale"
	OutcomeNoInterest = "no_interest"
	OutcomeNoAnswer   = "no_answer"
	OutcomeReschedule = "reschedule"
)

// ErrSaleAlreadyDecided: o update condicional de aprovação não encontrou a
// venda em "pending". Alguém decidiu antes.
var ErrSaleAlreadyDecided = errors.New("sale already decided")

// Status de aprovação. pending -> approved|rejected, ambos terminais.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type Sale struct {
	ID             string     `json:"id"`
	LeadID         string     `json:"lead_id"`
	CloserID       string     `json:"closer_id"`
	ProductID      string     `json:"product_id"`
	ValueCents     int64      `json:"value_cents"`
	Outcome        string     `json:"outcome"`
	ApprovalStatus string     `json:"approval_status"`
	ApprovedBy     string     `json:"approved_by,omitempty"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func NewSale(leadID, closerID, productID string, valueCents int64) (*Sale, error) {
	sale := &Sale{
		ID:             uuid.New().String(),
		LeadID:         leadID,
		CloserID:       closerID,
		ProductID:      productID,
		ValueCents:     valueCents,
		Outcome:        OutcomeSale,
		ApprovalStatus: ApprovalPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := sale.Validate(); err != nil {
		return nil, err
	}

	return sale, nil
}

func (s *Sale) Validate() error {
	if s.LeadID == "" {
		return errors.New("lead_id is required")
	}
	if s.CloserID == "" {
		return errors.New("closer_id is required")
	}
	if s.ProductID == "" {
		return errors.New("product_id is required")
	}
	if s.ValueCents <= 0 {
		return errors.New("value must be greater than zero")
	}
	return nil
}

func ValidOutcome(outcome string) bool {
	switch outcome {
	case OutcomeSale, OutcomeNoInterest, OutcomeNoAnswer, OutcomeReschedule:
		return true
	}
	return false
}
