package usecase

import (
	"context"
	"sort"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// LeaderboardUseCase: leitura pura para os rankings do dashboard.
// A agregação pesada fica no SQL; aqui só taxa de conversão e desempate.
type LeaderboardUseCase struct {
	Repo LeaderboardRepository
}

func NewLeaderboardUseCase(repo LeaderboardRepository) *LeaderboardUseCase {
	return &LeaderboardUseCase{Repo: repo}
}

func (uc *LeaderboardUseCase) Summarize(ctx context.Context, input SummarizeInput) ([]LeaderboardRow, error) {
	if input.Role != entity.UserRoleSDR && input.Role != entity.UserRoleCloser {
		return nil, NewValidation("role deve ser sdr ou closer")
	}
	if !input.From.Before(input.To) {
		return nil, NewValidation("período inválido: início deve vir antes do fim")
	}

	rows, err := uc.Repo.Summarize(ctx, input.Role, input.From, input.To)
	if err != nil {
		return nil, NewPersistence("falha ao agregar ranking", err)
	}

	for i := range rows {
		if rows[i].LeadsCount > 0 {
			rows[i].ConversionRate = float64(rows[i].ConversionsCount) / float64(rows[i].LeadsCount)
		}
	}

	// comissão desc, depois conversões desc, depois id para estabilidade
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CommissionCents != rows[j].CommissionCents {
			return rows[i].CommissionCents > rows[j].CommissionCents
		}
		if rows[i].ConversionsCount != rows[j].ConversionsCount {
			return rows[i].ConversionsCount > rows[j].ConversionsCount
		}
		return rows[i].UserID < rows[j].UserID
	})

	return rows, nil
}
