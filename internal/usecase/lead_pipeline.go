package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// LeadPipeline é o dono do estado do lead. O Kanban do front pede o que
// quiser; quem valida a transição é aqui, sempre.
type LeadPipeline struct {
	Leads LeadRepository
	Users UserRepository
}

func NewLeadPipeline(leads LeadRepository, users UserRepository) *LeadPipeline {
	return &LeadPipeline{Leads: leads, Users: users}
}

func (p *LeadPipeline) Create(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if input.SDRID != "" {
		sdr, err := p.Users.FindByID(ctx, input.SDRID)
		if err != nil {
			return nil, NewPersistence("falha ao buscar SDR", err)
		}
		if sdr == nil {
			return nil, NewNotFound("SDR não encontrado")
		}
		if sdr.Role != entity.UserRoleSDR {
			return nil, NewValidation("usuário informado não tem papel de SDR")
		}
	}

	lead, err := entity.NewLead(input.Name, input.Email, input.Phone, input.Source, input.SDRID, input.EstimatedCents)
	if err != nil {
		return nil, NewValidation(err.Error())
	}

	if err := p.Leads.Create(ctx, lead); err != nil {
		return nil, NewPersistence("falha ao gravar lead", err)
	}

	return lead, nil
}

// Advance move o lead um passo à frente no funil (ou para lost).
// pending_approval e converted são reservados ao fluxo de venda/aprovação.
func (p *LeadPipeline) Advance(ctx context.Context, leadID, targetStatus string) (*entity.Lead, error) {
	lead, err := p.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if entity.EngineReservedStatus(targetStatus) {
		return nil, NewInvalidTransition(fmt.Sprintf("status %q só é atingível pelo fluxo de aprovação", targetStatus))
	}
	if !entity.CanTransitionLead(lead.Status, targetStatus) {
		return nil, NewInvalidTransition(fmt.Sprintf("transição %s -> %s não é permitida", lead.Status, targetStatus))
	}

	now := time.Now()
	if err := p.Leads.UpdateStatus(ctx, lead.ID, targetStatus, now); err != nil {
		return nil, NewPersistence("falha ao atualizar status do lead", err)
	}

	lead.Status = targetStatus
	switch targetStatus {
	case entity.LeadStatusQualified:
		lead.QualifiedAt = &now
	case entity.LeadStatusScheduled:
		lead.ScheduledAt = &now
	}
	return lead, nil
}

// Release coloca um lead qualificado/agendado na vitrine dos closers.
func (p *LeadPipeline) Release(ctx context.Context, leadID string) (*entity.Lead, error) {
	lead, err := p.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if lead.Status != entity.LeadStatusQualified && lead.Status != entity.LeadStatusScheduled {
		return nil, NewInvalidTransition("só leads qualificados ou agendados podem ser liberados")
	}
	if lead.AssignmentStatus == entity.AssignmentAssigned {
		return nil, NewAlreadyClaimed("lead já está atribuído a um closer")
	}

	ok, err := p.Leads.Release(ctx, lead.ID)
	if err != nil {
		return nil, NewPersistence("falha ao liberar lead", err)
	}
	if !ok {
		// alguém reivindicou entre a leitura e o update condicional
		return nil, NewAlreadyClaimed("lead já está atribuído a um closer")
	}

	lead.AssignmentStatus = entity.AssignmentAvailable
	return lead, nil
}

// Claim é o compare-and-set do closer: exatamente um vencedor por lead.
func (p *LeadPipeline) Claim(ctx context.Context, leadID, closerID string) (*entity.Lead, error) {
	closer, err := p.Users.FindByID(ctx, closerID)
	if err != nil {
		return nil, NewPersistence("falha ao buscar closer", err)
	}
	if closer == nil {
		return nil, NewNotFound("closer não encontrado")
	}
	if closer.Role != entity.UserRoleCloser {
		return nil, NewValidation("usuário informado não tem papel de closer")
	}

	now := time.Now()
	ok, err := p.Leads.Claim(ctx, leadID, closerID, now)
	if err != nil {
		return nil, NewPersistence("falha ao reivindicar lead", err)
	}
	if !ok {
		lead, err := p.Leads.FindByID(ctx, leadID)
		if err != nil {
			return nil, NewPersistence("falha ao buscar lead", err)
		}
		if lead == nil {
			return nil, NewNotFound("lead não encontrado")
		}
		return nil, NewAlreadyClaimed("lead não está disponível para claim")
	}

	lead, err := p.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (p *LeadPipeline) MarkLost(ctx context.Context, leadID string) (*entity.Lead, error) {
	lead, err := p.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if entity.IsTerminalLeadStatus(lead.Status) {
		return nil, NewInvalidTransition(fmt.Sprintf("lead em status terminal %q", lead.Status))
	}

	if err := p.Leads.UpdateStatus(ctx, lead.ID, entity.LeadStatusLost, time.Now()); err != nil {
		return nil, NewPersistence("falha ao marcar lead como perdido", err)
	}

	lead.Status = entity.LeadStatusLost
	return lead, nil
}

func (p *LeadPipeline) Get(ctx context.Context, leadID string) (*entity.Lead, error) {
	return p.loadLead(ctx, leadID)
}

func (p *LeadPipeline) loadLead(ctx context.Context, leadID string) (*entity.Lead, error) {
	lead, err := p.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, NewPersistence("falha ao buscar lead", err)
	}
	if lead == nil {
		return nil, NewNotFound("lead não encontrado")
	}
	return lead, nil
}
