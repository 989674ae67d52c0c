package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ApprovalHandler struct {
	DecideUC *usecase.DecideSaleUseCase
}

func NewApprovalHandler(decideUC *usecase.DecideSaleUseCase) *ApprovalHandler {
	return &ApprovalHandler{DecideUC: decideUC}
}

// HandleDecide: o admin aprova ou rejeita uma venda pendente.
// Retentativas são seguras: decisão repetida devolve 409 ALREADY_DECIDED.
func (h *ApprovalHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	var input usecase.DecideSaleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}
	input.SaleID = chi.URLParam(r, "id")

	output, err := h.DecideUC.Execute(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.RecordDecision(input.Action)
	middleware.RecordCommissions(len(output.Commissions))

	respondJSON(w, http.StatusOK, output)
}
