package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas salvo decimal).
// Los errores tipados de abajo responden a errors.Is con el sentinel de su categoría.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrPersistence       = errors.New("error de persistencia")
)

// ValidationError entrada mal formada (cantidad no positiva, selección vacía, etc.).
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NotFoundError recurso referenciado inexistente (pedido, ítem, material).
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError construye un NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StockDeficiency detalle de un ítem sin stock suficiente.
type StockDeficiency struct {
	ItemID    string
	ItemName  string
	ItemType  string
	Unit      string
	Required  decimal.Decimal
	Available decimal.Decimal
	Shortfall decimal.Decimal
}

// InsufficientStockError lleva la lista completa de faltantes, no solo el primero.
type InsufficientStockError struct {
	Deficiencies []StockDeficiency
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Deficiencies))
	for _, d := range e.Deficiencies {
		name := d.ItemName
		if name == "" {
			name = d.ItemID
		}
		parts = append(parts, fmt.Sprintf("%s (requerido %s, disponible %s, faltan %s)",
			name, d.Required.String(), d.Available.String(), d.Shortfall.String()))
	}
	return "stock insuficiente: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InvalidTransitionError transición de pedido no alcanzable desde el estado actual.
type InvalidTransitionError struct {
	OrderID string
	From    string
	To      string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("pedido %s: no se puede pasar de %q a %q", e.OrderID, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// PersistenceError el almacén no pudo confirmar una lectura/escritura.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// AsPersistence envuelve err como PersistenceError salvo que ya sea un error de dominio clasificado.
func AsPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsDomainError indica si err pertenece a alguna categoría conocida.
func IsDomainError(err error) bool {
	for _, s := range []error{ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrForbidden,
		ErrConflict, ErrInsufficientStock, ErrInvalidTransition, ErrPersistence} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}
