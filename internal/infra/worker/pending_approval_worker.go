package worker

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

// PendingApprovalWorker vigia a fila de aprovação: venda parada em
// "pending" além da janela vira log + métrica para o dashboard do admin.
type PendingApprovalWorker struct {
	db           *sql.DB
	staleWindow  time.Duration
	tickInterval time.Duration
}

func NewPendingApprovalWorker(db *sql.DB) *PendingApprovalWorker {
	return &PendingApprovalWorker{
		db:           db,
		staleWindow:  4 * time.Hour,
		tickInterval: 5 * time.Minute,
	}
}

func (w *PendingApprovalWorker) Start(ctx context.Context) {
	log.Println("🕒 Worker de aprovações pendentes iniciado (janela de 4h)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.checkStale(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Worker de aprovações pendentes encerrado")
			return
		case <-ticker.C:
			w.checkStale(ctx)
		}
	}
}

func (w *PendingApprovalWorker) checkStale(ctx context.Context) {
	query := `
		SELECT id, lead_id, value_cents, created_at
		FROM sales
		WHERE approval_status = 'pending'
		  AND created_at < NOW() - make_interval(secs => $1)
	`

	rows, err := w.db.QueryContext(ctx, query, w.staleWindow.Seconds())
	if err != nil {
		log.Printf("❌ Erro ao buscar vendas pendentes: %v", err)
		return
	}
	defer rows.Close()

	staleCount := 0
	for rows.Next() {
		var saleID, leadID string
		var valueCents int64
		var createdAt time.Time

		if err := rows.Scan(&saleID, &leadID, &valueCents, &createdAt); err != nil {
			log.Printf("⚠️ Erro ao escanear venda pendente: %v", err)
			continue
		}

		elapsed := time.Since(createdAt)
		log.Printf("⏱️ Venda aguardando decisão: sale=%s lead=%s valor=%d esperando=%s",
			saleID, leadID, valueCents, elapsed.Round(time.Minute))
		staleCount++
	}

	middleware.SetStalePendingSales(staleCount)
	if staleCount > 0 {
		log.Printf("📋 %d venda(s) pendentes além da janela de aprovação", staleCount)
	}
}
