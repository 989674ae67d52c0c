package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// DecideSaleUseCase é o motor de aprovação: dado um admin e uma ação,
// fecha o status da venda e, na aprovação, distribui as comissões.
//
// Tudo que a decisão escreve (venda + lead + comissões) vai ao banco como
// UMA unidade atômica via SaleRepository.ApplyDecision. Repetir a chamada
// depois de uma decisão terminal devolve AlreadyDecided — nunca reprocessa,
// nunca duplica comissão.
type DecideSaleUseCase struct {
	Sales    SaleRepository
	Leads    LeadRepository
	Products ProductRepository
	Users    UserRepository
	Rules    CommissionRuleRepository
	Queue    QueueProducerInterface // opcional; falha de publicação não derruba a decisão
}

func NewDecideSaleUseCase(
	sales SaleRepository,
	leads LeadRepository,
	products ProductRepository,
	users UserRepository,
	rules CommissionRuleRepository,
	producer QueueProducerInterface,
) *DecideSaleUseCase {
	return &DecideSaleUseCase{
		Sales:    sales,
		Leads:    leads,
		Products: products,
		Users:    users,
		Rules:    rules,
		Queue:    producer,
	}
}

func (uc *DecideSaleUseCase) Execute(ctx context.Context, input DecideSaleInput) (*DecideSaleOutput, error) {
	if input.Action != ActionApprove && input.Action != ActionReject {
		return nil, NewValidation(fmt.Sprintf("ação %q não existe", input.Action))
	}

	admin, err := uc.Users.FindByID(ctx, input.AdminID)
	if err != nil {
		return nil, NewPersistence("falha ao buscar admin", err)
	}
	if admin == nil {
		return nil, NewNotFound("admin não encontrado")
	}
	if admin.Role != entity.UserRoleAdmin {
		return nil, NewValidation("apenas admins decidem vendas")
	}

	sale, err := uc.Sales.FindByID(ctx, input.SaleID)
	if err != nil {
		return nil, NewPersistence("falha ao buscar venda", err)
	}
	if sale == nil {
		return nil, NewNotFound("venda não encontrada")
	}

	// Guarda de idempotência: decisão terminal nunca é reprocessada.
	if sale.ApprovalStatus != entity.ApprovalPending {
		return nil, NewAlreadyDecided(fmt.Sprintf("venda já está %s", sale.ApprovalStatus))
	}

	now := time.Now()
	sale.ApprovedBy = input.AdminID
	sale.DecidedAt = &now
	sale.UpdatedAt = now

	if input.Action == ActionReject {
		return uc.reject(ctx, sale)
	}
	return uc.approve(ctx, sale, input.OverrideProductID)
}

// reject fecha a venda sem nenhum efeito de comissão; o lead fica como o
// desfecho do closer o deixou.
func (uc *DecideSaleUseCase) reject(ctx context.Context, sale *entity.Sale) (*DecideSaleOutput, error) {
	sale.ApprovalStatus = entity.ApprovalRejected

	err := uc.Sales.ApplyDecision(ctx, DecisionWrites{Sale: sale})
	if errors.Is(err, entity.ErrSaleAlreadyDecided) {
		return nil, NewAlreadyDecided("venda já foi decidida")
	}
	if err != nil {
		return nil, NewPersistence("falha ao gravar rejeição", err)
	}

	return &DecideSaleOutput{
		SaleID:         sale.ID,
		ApprovalStatus: sale.ApprovalStatus,
		Commissions:    []*entity.Commission{},
	}, nil
}

func (uc *DecideSaleUseCase) approve(ctx context.Context, sale *entity.Sale, overrideProductID string) (*DecideSaleOutput, error) {
	lead, err := uc.Leads.FindByID(ctx, sale.LeadID)
	if err != nil {
		return nil, NewPersistence("falha ao buscar lead da venda", err)
	}
	if lead == nil {
		return nil, NewNotFound("lead da venda não encontrado")
	}

	productID := sale.ProductID
	if overrideProductID != "" {
		productID = overrideProductID
	}
	product, err := uc.Products.FindByID(ctx, productID)
	if err != nil {
		return nil, NewPersistence("falha ao buscar produto", err)
	}
	if product == nil {
		return nil, NewNotFound("produto não encontrado")
	}
	if !product.Active {
		return nil, NewValidation("produto inativo")
	}

	rules, err := uc.Rules.ActiveRules(ctx, product.ID)
	if err != nil {
		return nil, NewPersistence("falha ao buscar regras de comissão", err)
	}

	// Percentuais resolvidos UMA vez, aqui, e congelados na comissão.
	var commissions []*entity.Commission
	if lead.SDRID != "" {
		if pct := ResolvePercent(product, rules, entity.RoleSDR, lead.SDRID); pct > 0 {
			commissions = append(commissions, entity.NewCommission(sale, lead.SDRID, entity.RoleSDR, pct))
		}
	}
	if pct := ResolvePercent(product, rules, entity.RoleCloser, sale.CloserID); pct > 0 {
		commissions = append(commissions, entity.NewCommission(sale, sale.CloserID, entity.RoleCloser, pct))
	}

	sale.ApprovalStatus = entity.ApprovalApproved

	err = uc.Sales.ApplyDecision(ctx, DecisionWrites{
		Sale:        sale,
		LeadStatus:  entity.LeadStatusConverted,
		Commissions: commissions,
	})
	if errors.Is(err, entity.ErrSaleAlreadyDecided) {
		return nil, NewAlreadyDecided("venda já foi decidida")
	}
	if err != nil {
		return nil, NewPersistence("falha ao gravar aprovação", err)
	}

	uc.publishApproved(ctx, sale, commissions)

	return &DecideSaleOutput{
		SaleID:         sale.ID,
		ApprovalStatus: sale.ApprovalStatus,
		LeadStatus:     entity.LeadStatusConverted,
		Commissions:    commissions,
	}, nil
}

// publishApproved roda DEPOIS do commit. A decisão já é durável; falha de
// broker vira log, não erro para o admin.
func (uc *DecideSaleUseCase) publishApproved(ctx context.Context, sale *entity.Sale, commissions []*entity.Commission) {
	if uc.Queue == nil {
		return
	}

	payload := queue.SaleApprovedPayload{
		SaleID:     sale.ID,
		LeadID:     sale.LeadID,
		ProductID:  sale.ProductID,
		ValueCents: sale.ValueCents,
		ApprovedBy: sale.ApprovedBy,
	}
	for _, c := range commissions {
		notice := queue.CommissionNotice{
			CommissionID: c.ID,
			RecipientID:  c.RecipientID,
			Role:         c.RecipientRole,
			Percent:      c.Percent,
			AmountCents:  c.AmountCents,
		}
		if u, err := uc.Users.FindByID(ctx, c.RecipientID); err == nil && u != nil {
			notice.RecipientName = u.Name
			notice.RecipientEmail = u.Email
		}
		payload.Commissions = append(payload.Commissions, notice)
	}

	if err := uc.Queue.PublishSaleApproved(ctx, payload); err != nil {
		log.Printf("⚠️ venda %s aprovada no banco, mas falhou a publicação na fila: %v", sale.ID, err)
	}
}
