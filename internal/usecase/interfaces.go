package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// Repositórios devolvem (nil, nil) quando o registro não existe;
// o usecase decide se isso vira NotFound.

type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	// UpdateStatus carimba o marco do status (qualified_at, scheduled_at).
	UpdateStatus(ctx context.Context, leadID, status string, at time.Time) error
	// Claim é compare-and-set: só vence se assignment_status = available.
	Claim(ctx context.Context, leadID, closerID string, at time.Time) (bool, error)
	// Release só funciona se o lead ainda não estiver assigned.
	Release(ctx context.Context, leadID string) (bool, error)
}

type SaleRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Sale, error)
	// CreateWithLeadTransition grava a venda e move o lead na mesma transação.
	CreateWithLeadTransition(ctx context.Context, sale *entity.Sale, leadStatus string) error
	// ApplyDecision aplica venda + lead + comissões como unidade atômica.
	// Devolve entity.ErrSaleAlreadyDecided se o CAS em approval_status perder.
	ApplyDecision(ctx context.Context, writes DecisionWrites) error
}

// DecisionWrites é tudo que uma decisão precisa persistir junto.
type DecisionWrites struct {
	Sale        *entity.Sale // já com status final, approved_by e decided_at
	LeadStatus  string       // vazio = lead fica como está (rejeição)
	Commissions []*entity.Commission
}

type CommissionRepository interface {
	ListBySaleID(ctx context.Context, saleID string) ([]*entity.Commission, error)
}

type CommissionRuleRepository interface {
	// ActiveRules devolve as regras ativas aplicáveis ao produto
	// (específicas dele + curingas de papel/pessoa).
	ActiveRules(ctx context.Context, productID string) ([]entity.CommissionRule, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Product, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

type LeaderboardRepository interface {
	Summarize(ctx context.Context, role string, from, to time.Time) ([]LeaderboardRow, error)
}

type QueueProducerInterface interface {
	PublishSaleApproved(ctx context.Context, payload queue.SaleApprovedPayload) error
}
