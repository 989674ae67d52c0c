package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadHandler struct {
	Pipeline *usecase.LeadPipeline
}

func NewLeadHandler(pipeline *usecase.LeadPipeline) *LeadHandler {
	return &LeadHandler{Pipeline: pipeline}
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	lead, err := h.Pipeline.Create(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Pipeline.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	lead, err := h.Pipeline.Advance(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Pipeline.Release(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CloserID string `json:"closer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	lead, err := h.Pipeline.Claim(r.Context(), chi.URLParam(r, "id"), body.CloserID)
	if err != nil {
		if usecase.ErrCode(err) == usecase.CodeAlreadyClaimed {
			middleware.RecordClaim("lost")
		}
		respondError(w, err)
		return
	}

	middleware.RecordClaim("won")
	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleMarkLost(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Pipeline.MarkLost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lead)
}
