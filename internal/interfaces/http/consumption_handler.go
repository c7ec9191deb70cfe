package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/consumption"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/dto"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/inventory"
)

// ConsumptionHandler expone el cálculo de consumo y la agregación de faltantes.
type ConsumptionHandler struct {
	uc *consumption.UseCase
}

// NewConsumptionHandler construye el handler.
func NewConsumptionHandler(uc *consumption.UseCase) *ConsumptionHandler {
	return &ConsumptionHandler{uc: uc}
}

// Calculate godoc
// @Summary      Calcular consumo de materiales
// @Description  Consumo y faltantes para producir quantity unidades. No modifica nada.
// @Tags         consumption
// @Security     Bearer
// @Produce      json
// @Param        finished_item_id  query  string  true  "ID del producto terminado"
// @Param        quantity          query  number  true  "Cantidad a producir"
// @Success      200  {object}  dto.ConsumptionReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/consumption/calculate [get]
func (h *ConsumptionHandler) Calculate(c *fiber.Ctx) error {
	qty, err := queryDecimal(c, "quantity")
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.uc.CalculateConsumption(c.Context(), c.Query("finished_item_id"), qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toReportDTO(report))
}

// Pending godoc
// @Summary      Consumo agregado de pedidos pendientes
// @Tags         consumption
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MaterialShortageDTO
// @Router       /api/consumption/pending [get]
func (h *ConsumptionHandler) Pending(c *fiber.Ctx) error {
	list, err := h.uc.CalculateAllPendingConsumption(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MaterialShortageDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MaterialShortageDTO{
			MaterialConsumptionDTO: dto.ToMaterialConsumption(m.MaterialConsumption),
			OrderCount:             m.OrderCount,
		})
	}
	return c.JSON(out)
}

// BranchShortages godoc
// @Summary      Faltantes por sucursal
// @Description  Cada sucursal se evalúa contra el stock completo, sin descontar lo que piden las demás.
// @Tags         consumption
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BranchShortageDTO
// @Router       /api/consumption/branch-shortages [get]
func (h *ConsumptionHandler) BranchShortages(c *fiber.Ctx) error {
	list, err := h.uc.CalculateBranchShortages(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.BranchShortageDTO, 0, len(list))
	for _, b := range list {
		if isBranchUser(c) && b.BranchName != GetBranchName(c) {
			continue
		}
		out = append(out, dto.BranchShortageDTO{
			BranchName:         b.BranchName,
			Shortages:          dto.ToMaterialConsumptions(b.Shortages),
			Orders:             dto.ToOrderList(b.Orders),
			TotalShortageCount: b.TotalShortageCount,
		})
	}
	return c.JSON(out)
}

func toReportDTO(r *inventory.ConsumptionReport) dto.ConsumptionReportDTO {
	out := dto.ConsumptionReportDTO{
		FinishedItemID: r.FinishedItemID,
		Quantity:       r.Quantity,
		HasBOM:         r.HasBOM,
		HasShortage:    r.HasShortage(),
		Materials:      dto.ToMaterialConsumptions(r.Materials),
	}
	switch {
	case !r.HasBOM:
		out.Warning = noBOMWarning
	case out.HasShortage:
		out.Warning = "hay materiales con stock insuficiente para esta cantidad"
	}
	return out
}
