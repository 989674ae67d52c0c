package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CommissionRepository struct {
	DB *sql.DB
}

func NewCommissionRepository(db *sql.DB) *CommissionRepository {
	return &CommissionRepository{DB: db}
}

func (r *CommissionRepository) ListBySaleID(ctx context.Context, saleID string) ([]*entity.Commission, error) {
	query := `
		SELECT id, sale_id, lead_id, recipient_id, recipient_role,
		       sale_cents, percent, amount_cents, status, created_at
		FROM commissions
		WHERE sale_id = $1
		ORDER BY recipient_role
	`

	rows, err := r.DB.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar comissões: %w", err)
	}
	defer rows.Close()

	var commissions []*entity.Commission
	for rows.Next() {
		var c entity.Commission
		if err := rows.Scan(
			&c.ID, &c.SaleID, &c.LeadID, &c.RecipientID, &c.RecipientRole,
			&c.SaleCents, &c.Percent, &c.AmountCents, &c.Status, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("falha ao escanear comissão: %w", err)
		}
		commissions = append(commissions, &c)
	}

	return commissions, rows.Err()
}
