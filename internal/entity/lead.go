package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status do funil de leads.
// "pending_approval" é o limbo entre a chamada com venda e a aprovação do
// admin — NÃO é o mesmo que "converted". Só o motor de aprovação converte.
const (
	LeadStatusNew             = "new"
	LeadStatusQualified       = "qualified"
	LeadStatusScheduled       = "scheduled"
	LeadStatusPendingApproval = "pending_approval"
	LeadStatusConverted       = "converted"
	LeadStatusLost            = "lost"
)

// Status de atribuição (quem está trabalhando o lead).
const (
	AssignmentUnassigned = "unassigned"
	AssignmentAvailable  = "available"
	AssignmentAssigned   = "assigned"
)

type Lead struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Source           string     `json:"source,omitempty"` // canal de origem (ads, indicação, orgânico...)
	Status           string     `json:"status"`
	AssignmentStatus string     `json:"assignment_status"`
	SDRID            string     `json:"sdr_id,omitempty"`
	CloserID         string     `json:"closer_id,omitempty"`
	EstimatedCents   int64      `json:"estimated_cents"`
	QualifiedAt      *time.Time `json:"qualified_at,omitempty"`
	ScheduledAt      *time.Time `json:"scheduled_at,omitempty"`
	ClaimedAt        *time.Time `json:"claimed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewLead(name, email, phone, source, sdrID string, estimatedCents int64) (*Lead, error) {
	lead := &Lead{
		ID:               uuid.New().String(),
		Name:             name,
		Email:            email,
		Phone:            phone,
		Source:           source,
		SDRID:            sdrID,
		EstimatedCents:   estimatedCents,
		Status:           LeadStatusNew,
		AssignmentStatus: AssignmentUnassigned,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Email == "" && l.Phone == "" {
		return errors.New("at least one contact (email or phone) is required")
	}
	if l.EstimatedCents < 0 {
		return errors.New("estimated value must not be negative")
	}
	return nil
}

// Transições legais do funil. Sem pulo de etapa, sem volta.
// "lost" é alcançável de qualquer status não-terminal.
var leadTransitions = map[string]map[string]bool{
	LeadStatusNew:             {LeadStatusQualified: true, LeadStatusLost: true},
	LeadStatusQualified:       {LeadStatusScheduled: true, LeadStatusLost: true},
	LeadStatusScheduled:       {LeadStatusPendingApproval: true, LeadStatusLost: true},
	LeadStatusPendingApproval: {LeadStatusConverted: true, LeadStatusLost: true},
	LeadStatusConverted:       {},
	LeadStatusLost:            {},
}

func CanTransitionLead(from, to string) bool {
	nexts, ok := leadTransitions[from]
	if !ok {
		return false
	}
	return nexts[to]
}

func IsTerminalLeadStatus(status string) bool {
	return status == LeadStatusConverted || status == LeadStatusLost
}

// EngineReservedStatus: destinos que o advance público não aceita.
// pending_approval só entra via registro de chamada; converted só via aprovação.
func EngineReservedStatus(status string) bool {
	return status == LeadStatusPendingApproval || status == LeadStatusConverted
}
