package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrAlreadyLinked = errors.New("la entidad del proveedor ya está vinculada; desvincular primero")
	ErrCycle         = errors.New("la categoría formaría un ciclo en el árbol")
	ErrInUse         = errors.New("el atributo está referenciado y no puede eliminarse")
	ErrNotPending    = errors.New("el elemento del inbox ya fue decidido")
)
