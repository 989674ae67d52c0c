package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// RecordSaleUseCase registra o desfecho de uma chamada do closer.
// Só o desfecho "sale" cria uma venda pendente de aprovação; os demais
// apenas movem (ou não) o lead.
type RecordSaleUseCase struct {
	Leads    LeadRepository
	Sales    SaleRepository
	Products ProductRepository
}

func NewRecordSaleUseCase(leads LeadRepository, sales SaleRepository, products ProductRepository) *RecordSaleUseCase {
	return &RecordSaleUseCase{Leads: leads, Sales: sales, Products: products}
}

func (uc *RecordSaleUseCase) Execute(ctx context.Context, input RecordSaleInput) (*RecordSaleOutput, error) {
	if !entity.ValidOutcome(input.Outcome) {
		return nil, NewValidation(fmt.Sprintf("desfecho %q não existe", input.Outcome))
	}

	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, NewPersistence("falha ao buscar lead", err)
	}
	if lead == nil {
		return nil, NewNotFound("lead não encontrado")
	}

	if lead.AssignmentStatus != entity.AssignmentAssigned || lead.CloserID != input.CloserID {
		return nil, NewValidation("lead não está reivindicado por este closer")
	}

	switch input.Outcome {
	case entity.OutcomeSale:
		return uc.recordSale(ctx, lead, input)
	case entity.OutcomeNoInterest:
		if entity.IsTerminalLeadStatus(lead.Status) {
			return nil, NewInvalidTransition(fmt.Sprintf("lead em status terminal %q", lead.Status))
		}
		if err := uc.Leads.UpdateStatus(ctx, lead.ID, entity.LeadStatusLost, time.Now()); err != nil {
			return nil, NewPersistence("falha ao marcar lead como perdido", err)
		}
		return &RecordSaleOutput{LeadStatus: entity.LeadStatusLost}, nil
	case entity.OutcomeReschedule:
		if lead.Status != entity.LeadStatusScheduled {
			return nil, NewInvalidTransition("só leads agendados podem ser reagendados")
		}
		// recarimba scheduled_at, status fica igual
		if err := uc.Leads.UpdateStatus(ctx, lead.ID, entity.LeadStatusScheduled, time.Now()); err != nil {
			return nil, NewPersistence("falha ao reagendar lead", err)
		}
		return &RecordSaleOutput{LeadStatus: entity.LeadStatusScheduled}, nil
	default: // no_answer: registrado, nada muda
		return &RecordSaleOutput{LeadStatus: lead.Status}, nil
	}
}

func (uc *RecordSaleUseCase) recordSale(ctx context.Context, lead *entity.Lead, input RecordSaleInput) (*RecordSaleOutput, error) {
	if input.ValueCents <= 0 {
		return nil, NewValidation("venda exige valor maior que zero")
	}
	if input.ProductID == "" {
		return nil, NewValidation("venda exige produto")
	}

	product, err := uc.Products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, NewPersistence("falha ao buscar produto", err)
	}
	if product == nil {
		return nil, NewNotFound("produto não encontrado")
	}
	if !product.Active {
		return nil, NewValidation("produto inativo")
	}

	if !entity.CanTransitionLead(lead.Status, entity.LeadStatusPendingApproval) {
		return nil, NewInvalidTransition(fmt.Sprintf("lead em %q não pode receber venda", lead.Status))
	}

	sale, err := entity.NewSale(lead.ID, input.CloserID, input.ProductID, input.ValueCents)
	if err != nil {
		return nil, NewValidation(err.Error())
	}

	if err := uc.Sales.CreateWithLeadTransition(ctx, sale, entity.LeadStatusPendingApproval); err != nil {
		return nil, NewPersistence("falha ao gravar venda", err)
	}

	return &RecordSaleOutput{
		SaleID:         sale.ID,
		ApprovalStatus: sale.ApprovalStatus,
		LeadStatus:     entity.LeadStatusPendingApproval,
	}, nil
}
