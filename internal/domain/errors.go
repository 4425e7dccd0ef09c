package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput               = errors.New("entrada inválida")
	ErrInsufficientFunds          = errors.New("saldo insuficiente")
	ErrInsufficientStock          = errors.New("stock insuficiente")
	ErrInsufficientConsignedStock = errors.New("stock consignado insuficiente")
	ErrNotFound                   = errors.New("recurso no encontrado")
	ErrConflict                   = errors.New("conflicto con el estado actual")
	ErrStorage                    = errors.New("error interno de almacenamiento")
)

// ErrorKind clasifica un error devuelto por una operación del coordinador.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindInsufficientFunds
	KindInsufficientStock
	KindInsufficientConsignedStock
	KindNotFound
	KindConflict
	KindStorage
)

var kindNames = map[ErrorKind]string{
	KindNone:                       "NONE",
	KindValidation:                 "VALIDATION",
	KindInsufficientFunds:          "INSUFFICIENT_FUNDS",
	KindInsufficientStock:          "INSUFFICIENT_STOCK",
	KindInsufficientConsignedStock: "INSUFFICIENT_CONSIGNED_STOCK",
	KindNotFound:                   "NOT_FOUND",
	KindConflict:                   "CONFLICT",
	KindStorage:                    "INTERNAL",
}

// String devuelve el código estable del tipo de error (usado en respuestas HTTP).
func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "INTERNAL"
}

// KindOf devuelve el tipo enumerado de err. Cualquier error no reconocido es KindStorage.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrInsufficientConsignedStock):
		return KindInsufficientConsignedStock
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindStorage
	}
}

// IsDomain indica si err pertenece a los errores de negocio (no de infraestructura).
func IsDomain(err error) bool {
	k := KindOf(err)
	return k != KindNone && k != KindStorage
}
