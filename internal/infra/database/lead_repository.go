package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, name, email, phone, source, status, assignment_status,
			sdr_id, estimated_cents, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		nullString(lead.Email),
		nullString(lead.Phone),
		nullString(lead.Source),
		lead.Status,
		lead.AssignmentStatus,
		nullString(lead.SDRID),
		lead.EstimatedCents,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao inserir lead: %w", err)
	}

	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, name, email, phone, source, status, assignment_status,
		       sdr_id, closer_id, estimated_cents,
		       qualified_at, scheduled_at, claimed_at, created_at, updated_at
		FROM leads
		WHERE id = $1
	`

	var lead entity.Lead
	var email, phone, source, sdrID, closerID sql.NullString
	var qualifiedAt, scheduledAt, claimedAt sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.Name,
		&email,
		&phone,
		&source,
		&lead.Status,
		&lead.AssignmentStatus,
		&sdrID,
		&closerID,
		&lead.EstimatedCents,
		&qualifiedAt,
		&scheduledAt,
		&claimedAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar lead: %w", err)
	}

	lead.Email = email.String
	lead.Phone = phone.String
	lead.Source = source.String
	lead.SDRID = sdrID.String
	lead.CloserID = closerID.String
	if qualifiedAt.Valid {
		lead.QualifiedAt = &qualifiedAt.Time
	}
	if scheduledAt.Valid {
		lead.ScheduledAt = &scheduledAt.Time
	}
	if claimedAt.Valid {
		lead.ClaimedAt = &claimedAt.Time
	}

	return &lead, nil
}

// UpdateStatus troca o status e carimba o marco correspondente.
func (r *LeadRepository) UpdateStatus(ctx context.Context, leadID, status string, at time.Time) error {
	var query string
	switch status {
	case entity.LeadStatusQualified:
		query = `UPDATE leads SET status = $1, qualified_at = $2, updated_at = NOW() WHERE id = $3`
	case entity.LeadStatusScheduled:
		query = `UPDATE leads SET status = $1, scheduled_at = $2, updated_at = NOW() WHERE id = $3`
	default:
		query = `UPDATE leads SET status = $1, updated_at = $2 WHERE id = $3`
	}

	result, err := r.DB.ExecContext(ctx, query, status, at, leadID)
	if err != nil {
		return fmt.Errorf("falha ao atualizar status do lead: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("lead %s não encontrado", leadID)
	}
	return nil
}

// Claim é um compare-and-set: um UPDATE condicional, nunca
// read-then-write. Exatamente um closer vence a corrida.
func (r *LeadRepository) Claim(ctx context.Context, leadID, closerID string, at time.Time) (bool, error) {
	query := `
		UPDATE leads
		SET assignment_status = $1, closer_id = $2, claimed_at = $3, updated_at = NOW()
		WHERE id = $4 AND assignment_status = $5
	`

	result, err := r.DB.ExecContext(ctx, query,
		entity.AssignmentAssigned, closerID, at, leadID, entity.AssignmentAvailable)
	if err != nil {
		return false, fmt.Errorf("falha ao reivindicar lead: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Release condicional: se um claim chegou antes, ninguém é sobrescrito.
func (r *LeadRepository) Release(ctx context.Context, leadID string) (bool, error) {
	query := `
		UPDATE leads
		SET assignment_status = $1, updated_at = NOW()
		WHERE id = $2 AND assignment_status <> $3
	`

	result, err := r.DB.ExecContext(ctx, query,
		entity.AssignmentAvailable, leadID, entity.AssignmentAssigned)
	if err != nil {
		return false, fmt.Errorf("falha ao liberar lead: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
