package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError traduz a taxonomia de erro do domínio para HTTP.
// Nenhum erro é engolido: o que não for do domínio vira 500 com log.
func respondError(w http.ResponseWriter, err error) {
	code := usecase.ErrCode(err)

	status := http.StatusInternalServerError
	switch code {
	case usecase.CodeNotFound:
		status = http.StatusNotFound
	case usecase.CodeValidation:
		status = http.StatusBadRequest
	case usecase.CodeInvalidTransition:
		status = http.StatusUnprocessableEntity
	case usecase.CodeAlreadyClaimed, usecase.CodeAlreadyDecided:
		status = http.StatusConflict
	case usecase.CodePersistence:
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		log.Printf("❌ erro interno: %v", err)
	}

	respondJSON(w, status, errorResponse{Code: code, Error: err.Error()})
}
