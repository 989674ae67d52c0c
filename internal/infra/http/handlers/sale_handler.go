package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type SaleHandler struct {
	RecordUC    *usecase.RecordSaleUseCase
	Sales       usecase.SaleRepository
	Commissions usecase.CommissionRepository
}

func NewSaleHandler(recordUC *usecase.RecordSaleUseCase, sales usecase.SaleRepository, commissions usecase.CommissionRepository) *SaleHandler {
	return &SaleHandler{RecordUC: recordUC, Sales: sales, Commissions: commissions}
}

// HandleRecord: o closer registra o desfecho da chamada.
func (h *SaleHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	var input usecase.RecordSaleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	output, err := h.RecordUC.Execute(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if output.SaleID != "" {
		status = http.StatusCreated
	}
	respondJSON(w, status, output)
}

type saleDetail struct {
	Sale        *entity.Sale         `json:"sale"`
	Commissions []*entity.Commission `json:"commissions"`
}

// HandleGet: leitura plana para os dashboards.
func (h *SaleHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	saleID := chi.URLParam(r, "id")

	sale, err := h.Sales.FindByID(r.Context(), saleID)
	if err != nil {
		respondError(w, usecase.NewPersistence("falha ao buscar venda", err))
		return
	}
	if sale == nil {
		respondError(w, usecase.NewNotFound("venda não encontrada"))
		return
	}

	commissions, err := h.Commissions.ListBySaleID(r.Context(), saleID)
	if err != nil {
		respondError(w, usecase.NewPersistence("falha ao listar comissões", err))
		return
	}
	if commissions == nil {
		commissions = []*entity.Commission{}
	}

	respondJSON(w, http.StatusOK, saleDetail{Sale: sale, Commissions: commissions})
}
