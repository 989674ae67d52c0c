package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Papéis que recebem comissão. No máximo UMA comissão por (venda, papel).
const (
	RoleSDR    = "sdr"
	RoleCloser = "closer"
)

const (
	CommissionPending = "pending"
	CommissionPaid    = "paid"
)

type Commission struct {
	ID            string    `json:"id"`
	SaleID        string    `json:"sale_id"`
	LeadID        string    `json:"lead_id"`
	RecipientID   string    `json:"recipient_id"`
	RecipientRole string    `json:"recipient_role"`
	SaleCents     int64     `json:"sale_cents"`
	Percent       float64   `json:"percent"` // percentual congelado na aprovação
	AmountCents   int64     `json:"amount_cents"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewCommission congela o percentual resolvido no momento da aprovação.
// Mudança de regra depois da aprovação não recalcula nada.
func NewCommission(sale *Sale, recipientID, role string, percent float64) *Commission {
	return &Commission{
		ID:            uuid.New().String(),
		SaleID:        sale.ID,
		LeadID:        sale.LeadID,
		RecipientID:   recipientID,
		RecipientRole: role,
		SaleCents:     sale.ValueCents,
		Percent:       percent,
		AmountCents:   CommissionAmountCents(sale.ValueCents, percent),
		Status:        CommissionPending,
		CreatedAt:     time.Now(),
	}
}

func CommissionAmountCents(valueCents int64, percent float64) int64 {
	return int64(math.Round(float64(valueCents) * percent / 100))
}
