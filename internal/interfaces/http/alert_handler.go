package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/petcare-pos/internal/application/alerting"
	"github.com/tu-usuario/petcare-pos/internal/application/dto"
)

// AlertHandler maneja las peticiones HTTP de alertas de stock bajo (protegido).
type AlertHandler struct {
	uc *alerting.AlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerting.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// Evaluate godoc
// @Summary      Evaluar inventario y crear alertas de stock bajo
// @Description  Idempotente: no duplica alertas abiertas por unidad.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts/evaluate [post]
func (h *AlertHandler) Evaluate(c *fiber.Ctx) error {
	created, err := h.uc.Evaluate(c.Context(), GetFacilityID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"created": len(created), "alerts": created})
}

// List godoc
// @Summary      Listar alertas de la sede
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | acknowledged | resolved; vacío = todas"
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListAlerts(c.Context(), GetFacilityID(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Acknowledge godoc
// @Summary      Marcar alerta como vista (pending → acknowledged)
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	alert, err := h.uc.Acknowledge(c.Context(), GetFacilityID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(alert)
}

// Resolve godoc
// @Summary      Resolver alerta (manual, incluso si el stock ya se recuperó)
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	alert, err := h.uc.Resolve(c.Context(), GetFacilityID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(alert)
}
