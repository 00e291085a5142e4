package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// ValidationError lista completa de incumplimientos de una factura.
// errors.Is(err, ErrInvalidInput) es cierto para cualquier *ValidationError.
type ValidationError struct {
	Violaciones []string
}

// NewValidationError construye el error a partir de la lista devuelta por el validador.
func NewValidationError(violaciones []string) *ValidationError {
	return &ValidationError{Violaciones: violaciones}
}

func (e *ValidationError) Error() string {
	if len(e.Violaciones) == 0 {
		return ErrInvalidInput.Error()
	}
	return "factura inválida: " + strings.Join(e.Violaciones, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
