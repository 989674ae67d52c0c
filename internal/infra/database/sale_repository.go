package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type SaleRepository struct {
	DB *sql.DB
}

func NewSaleRepository(db *sql.DB) *SaleRepository {
	return &SaleRepository{DB: db}
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `
		SELECT id, lead_id, closer_id, product_id, value_cents, outcome,
		       approval_status, approved_by, decided_at, created_at, updated_at
		FROM sales
		WHERE id = $1
	`

	var sale entity.Sale
	var approvedBy sql.NullString
	var decidedAt sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&sale.ID,
		&sale.LeadID,
		&sale.CloserID,
		&sale.ProductID,
		&sale.ValueCents,
		&sale.Outcome,
		&sale.ApprovalStatus,
		&approvedBy,
		&decidedAt,
		&sale.CreatedAt,
		&sale.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar venda: %w", err)
	}

	sale.ApprovedBy = approvedBy.String
	if decidedAt.Valid {
		sale.DecidedAt = &decidedAt.Time
	}

	return &sale, nil
}

// CreateWithLeadTransition grava a venda e move o lead na MESMA transação.
// Ou os dois entram, ou nenhum.
func (r *SaleRepository) CreateWithLeadTransition(ctx context.Context, sale *entity.Sale, leadStatus string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (
			id, lead_id, closer_id, product_id, value_cents, outcome,
			approval_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		sale.ID, sale.LeadID, sale.CloserID, sale.ProductID, sale.ValueCents,
		sale.Outcome, sale.ApprovalStatus, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao inserir venda: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2`,
		leadStatus, sale.LeadID,
	)
	if err != nil {
		return fmt.Errorf("falha ao mover lead: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("lead %s não encontrado ao gravar venda", sale.LeadID)
	}

	return tx.Commit()
}

// ApplyDecision aplica a decisão do admin como unidade atômica:
// CAS no approval_status + transição do lead + inserts de comissão.
// O índice único em (sale_id, recipient_role) é o cinto de segurança
// contra comissão duplicada; violação dele sobe como erro, nunca é engolida.
func (r *SaleRepository) ApplyDecision(ctx context.Context, writes usecase.DecisionWrites) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	sale := writes.Sale
	result, err := tx.ExecContext(ctx, `
		UPDATE sales
		SET approval_status = $1, approved_by = $2, decided_at = $3, updated_at = NOW()
		WHERE id = $4 AND approval_status = $5
	`,
		sale.ApprovalStatus, sale.ApprovedBy, sale.DecidedAt, sale.ID, entity.ApprovalPending,
	)
	if err != nil {
		return fmt.Errorf("falha ao atualizar venda: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		// outra decisão venceu a corrida
		return entity.ErrSaleAlreadyDecided
	}

	if writes.LeadStatus != "" {
		result, err = tx.ExecContext(ctx,
			`UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2`,
			writes.LeadStatus, sale.LeadID,
		)
		if err != nil {
			return fmt.Errorf("falha ao mover lead: %w", err)
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return fmt.Errorf("lead %s não encontrado ao decidir venda", sale.LeadID)
		}
	}

	for _, c := range writes.Commissions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO commissions (
				id, sale_id, lead_id, recipient_id, recipient_role,
				sale_cents, percent, amount_cents, status, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			c.ID, c.SaleID, c.LeadID, c.RecipientID, c.RecipientRole,
			c.SaleCents, c.Percent, c.AmountCents, c.Status, c.CreatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return fmt.Errorf("comissão duplicada para (venda=%s, papel=%s): %w", c.SaleID, c.RecipientRole, err)
			}
			return fmt.Errorf("falha ao inserir comissão: %w", err)
		}
	}

	return tx.Commit()
}
