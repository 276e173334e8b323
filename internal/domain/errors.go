package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrPricingRequired    = errors.New("el producto certificado requiere precio de venta")
	ErrPriceBelowCost     = errors.New("el precio de venta no puede ser menor al costo")
	ErrAlreadyCancelled   = errors.New("la venta ya está cancelada")
	ErrRefundExceedsTotal = errors.New("el reembolso excede el total de la venta")
	ErrOrderNotCertified  = errors.New("el pedido no está certificado")
)
