package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeaderboardRepository struct {
	DB *sql.DB
}

func NewLeaderboardRepository(db *sql.DB) *LeaderboardRepository {
	return &LeaderboardRepository{DB: db}
}

// Cada métrica sai de uma subconsulta própria — join com fan-out é o jeito
// clássico de contar a mesma venda duas vezes no ranking.
const sdrSummaryQuery = `
	SELECT u.id, u.name,
		(SELECT COUNT(*) FROM leads l
			WHERE l.sdr_id = u.id AND l.created_at >= $1 AND l.created_at < $2) AS leads_count,
		(SELECT COUNT(DISTINCT s.id) FROM sales s
			JOIN leads l ON l.id = s.lead_id
			WHERE l.sdr_id = u.id AND s.approval_status = 'approved'
			  AND s.decided_at >= $1 AND s.decided_at < $2) AS conversions_count,
		(SELECT COALESCE(SUM(c.amount_cents), 0) FROM commissions c
			WHERE c.recipient_id = u.id AND c.recipient_role = 'sdr'
			  AND c.created_at >= $1 AND c.created_at < $2) AS commission_cents
	FROM users u
	WHERE u.role = 'sdr' AND u.active = TRUE
`

const closerSummaryQuery = `
	SELECT u.id, u.name,
		(SELECT COUNT(*) FROM leads l
			WHERE l.closer_id = u.id AND l.claimed_at >= $1 AND l.claimed_at < $2) AS leads_count,
		(SELECT COUNT(DISTINCT s.id) FROM sales s
			WHERE s.closer_id = u.id AND s.approval_status = 'approved'
			  AND s.decided_at >= $1 AND s.decided_at < $2) AS conversions_count,
		(SELECT COALESCE(SUM(c.amount_cents), 0) FROM commissions c
			WHERE c.recipient_id = u.id AND c.recipient_role = 'closer'
			  AND c.created_at >= $1 AND c.created_at < $2) AS commission_cents
	FROM users u
	WHERE u.role = 'closer' AND u.active = TRUE
`

func (r *LeaderboardRepository) Summarize(ctx context.Context, role string, from, to time.Time) ([]usecase.LeaderboardRow, error) {
	var query string
	switch role {
	case entity.UserRoleSDR:
		query = sdrSummaryQuery
	case entity.UserRoleCloser:
		query = closerSummaryQuery
	default:
		return nil, fmt.Errorf("role desconhecido: %s", role)
	}

	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("falha ao agregar ranking: %w", err)
	}
	defer rows.Close()

	var result []usecase.LeaderboardRow
	for rows.Next() {
		var row usecase.LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.UserName, &row.LeadsCount, &row.ConversionsCount, &row.CommissionCents); err != nil {
			return nil, fmt.Errorf("falha ao escanear linha do ranking: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
