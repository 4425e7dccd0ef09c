package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidad/internal/application/dto"
	"github.com/jhoicas/contabilidad/internal/domain"
)

// statusByKind código HTTP por tipo de error de dominio.
var statusByKind = map[domain.ErrorKind]int{
	domain.KindValidation:                 fiber.StatusBadRequest,
	domain.KindNotFound:                   fiber.StatusNotFound,
	domain.KindInsufficientFunds:          fiber.StatusConflict,
	domain.KindInsufficientStock:          fiber.StatusConflict,
	domain.KindInsufficientConsignedStock: fiber.StatusConflict,
	domain.KindConflict:                   fiber.StatusConflict,
}

// writeError traduce un error del coordinador a la respuesta HTTP. Los errores internos
// nunca exponen su detalle: ya quedaron registrados en el log por el coordinador.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: domain.KindStorage.String(), Message: "error interno, operación revertida"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: kind.String(), Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func badParam(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: domain.KindValidation.String(), Message: err.Error()})
}
