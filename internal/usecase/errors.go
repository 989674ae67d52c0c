package usecase

import "errors"

// Códigos da taxonomia de erro exposta para a UI de admin.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeAlreadyClaimed    = "ALREADY_CLAIMED"
	CodeAlreadyDecided    = "ALREADY_DECIDED"
	CodeValidation        = "VALIDATION_ERROR"
	CodePersistence       = "PERSISTENCE_FAILURE"
)

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewNotFound(msg string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func NewInvalidTransition(msg string) *DomainError {
	return &DomainError{Code: CodeInvalidTransition, Message: msg}
}

func NewAlreadyClaimed(msg string) *DomainError {
	return &DomainError{Code: CodeAlreadyClaimed, Message: msg}
}

func NewAlreadyDecided(msg string) *DomainError {
	return &DomainError{Code: CodeAlreadyDecided, Message: msg}
}

func NewValidation(msg string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: msg}
}

// NewPersistence embrulha o erro de storage sem escondê-lo do chamador.
func NewPersistence(msg string, err error) *DomainError {
	return &DomainError{Code: CodePersistence, Message: msg, Err: err}
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// ErrCode extrai o código da taxonomia; vazio se não for DomainError.
func ErrCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
