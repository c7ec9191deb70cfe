package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/bom"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/dto"
)

const noBOMWarning = "el producto no tiene BOM configurada: al despachar no se descontará ningún material"

// BOMHandler consulta y reemplaza la lista de materiales de un producto terminado.
type BOMHandler struct {
	uc *bom.UseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *bom.UseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener BOM de un producto terminado
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        finishedItemId  path  string  true  "ID del producto terminado"
// @Success      200  {object}  dto.BOMResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bom/{finishedItemId} [get]
func (h *BOMHandler) Get(c *fiber.Ctx) error {
	finishedID := c.Params("finishedItemId")
	rows, err := h.uc.GetByFinishedItem(c.Context(), finishedID)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.BOMResponse{FinishedItemID: finishedID, Rows: make([]dto.BOMRowResponse, 0, len(rows))}
	for _, r := range rows {
		row := dto.BOMRowResponse{ID: r.BOMItem.ID, MaterialItemID: r.BOMItem.MaterialItemID, Quantity: r.BOMItem.Quantity}
		if r.Material != nil {
			row.MaterialName = r.Material.Name
			row.Unit = r.Material.Unit
		}
		out.Rows = append(out.Rows, row)
	}
	if len(rows) == 0 {
		out.Warning = noBOMWarning
	}
	return c.JSON(out)
}

// Replace godoc
// @Summary      Reemplazar BOM completa
// @Description  Borra las filas actuales e inserta las enviadas en una sola transacción. Lista vacía deja el producto sin BOM.
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        finishedItemId  path  string                 true  "ID del producto terminado"
// @Param        body            body  dto.ReplaceBOMRequest  true  "Filas material_item_id + quantity"
// @Success      200  {object}  dto.BOMResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bom/{finishedItemId} [put]
func (h *BOMHandler) Replace(c *fiber.Ctx) error {
	var in dto.ReplaceBOMRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	rows := make([]bom.RowInput, 0, len(in.Rows))
	for _, r := range in.Rows {
		rows = append(rows, bom.RowInput{MaterialItemID: r.MaterialItemID, Quantity: r.Quantity})
	}
	// la BOM guarda el ID: copia propia aunque la app no sea Immutable
	if _, err := h.uc.Replace(c.Context(), utils.CopyString(c.Params("finishedItemId")), rows); err != nil {
		return writeError(c, err)
	}
	return h.Get(c)
}
