package usecase

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type CreateLeadInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Source         string `json:"source"`
	SDRID          string `json:"sdr_id"`
	EstimatedCents int64  `json:"estimated_cents"`
}

type RecordSaleInput struct {
	LeadID     string `json:"lead_id"`
	CloserID   string `json:"closer_id"`
	ProductID  string `json:"product_id"`
	ValueCents int64  `json:"value_cents"`
	Outcome    string `json:"outcome"`
}

type RecordSaleOutput struct {
	SaleID         string `json:"sale_id,omitempty"`
	ApprovalStatus string `json:"approval_status,omitempty"`
	LeadStatus     string `json:"lead_status"`
}

type DecideSaleInput struct {
	SaleID            string `json:"sale_id"`
	AdminID           string `json:"admin_id"`
	Action            string `json:"action"`
	OverrideProductID string `json:"override_product_id,omitempty"`
}

type DecideSaleOutput struct {
	SaleID         string               `json:"sale_id"`
	ApprovalStatus string               `json:"approval_status"`
	LeadStatus     string               `json:"lead_status,omitempty"`
	Commissions    []*entity.Commission `json:"commissions"`
}

type LeaderboardRow struct {
	UserID           string  `json:"user_id"`
	UserName         string  `json:"user_name"`
	LeadsCount       int     `json:"leads_count"`
	ConversionsCount int     `json:"conversions_count"`
	CommissionCents  int64   `json:"commission_cents"`
	ConversionRate   float64 `json:"conversion_rate"`
}

type SummarizeInput struct {
	Role string
	From time.Time
	To   time.Time
}
