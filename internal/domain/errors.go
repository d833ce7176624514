package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser un entero positivo")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrValidation        = errors.New("entrada inválida")
	ErrPersistence       = errors.New("error de persistencia")
)
