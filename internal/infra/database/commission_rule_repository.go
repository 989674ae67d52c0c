package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CommissionRuleRepository struct {
	DB *sql.DB
}

func NewCommissionRuleRepository(db *sql.DB) *CommissionRuleRepository {
	return &CommissionRuleRepository{DB: db}
}

// ActiveRules traz as regras ativas do produto mais os curingas globais.
// A precedência entre elas é decidida pelo resolvedor, não aqui.
func (r *CommissionRuleRepository) ActiveRules(ctx context.Context, productID string) ([]entity.CommissionRule, error) {
	query := `
		SELECT id, product_id, role, user_id, percent, active
		FROM commission_rules
		WHERE active = TRUE AND (product_id IS NULL OR product_id = $1)
	`

	rows, err := r.DB.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar regras de comissão: %w", err)
	}
	defer rows.Close()

	var rules []entity.CommissionRule
	for rows.Next() {
		var rule entity.CommissionRule
		var ruleProductID, userID sql.NullString
		if err := rows.Scan(&rule.ID, &ruleProductID, &rule.Role, &userID, &rule.Percent, &rule.Active); err != nil {
			return nil, fmt.Errorf("falha ao escanear regra: %w", err)
		}
		rule.ProductID = ruleProductID.String
		rule.UserID = userID.String
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}
