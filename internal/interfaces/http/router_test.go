package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/bom"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/consumption"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/dto"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/inventory"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/order"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/usecase"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/infrastructure/locking"
	"github.com/jhoicas/branch-fulfillment-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/branch-fulfillment-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/branch-fulfillment-api/pkg/jwt"
	"github.com/jhoicas/branch-fulfillment-api/pkg/logger"
)

type apiEnv struct {
	app   *fiber.App
	store *memory.Store
	staff string
	north string
	south string
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	s := memory.NewStore()
	r := s.Repos()
	locker := locking.NewLocalLocker()
	log := logger.Nop()

	consumptionUC := consumption.NewUseCase(r.Items, r.BOM, r.Orders)
	shipUC := inventory.NewShipUseCase(s, locker, r.Orders, r.BOM, log)
	app := apphttp.NewApp("branch-fulfillment-test")
	apphttp.Router(app, apphttp.RouterDeps{
		ItemUC:           usecase.NewItemUseCase(r.Items),
		RegisterMovement: inventory.NewRegisterMovementUseCase(s, locker, log),
		History:          inventory.NewHistoryUseCase(r.Items, r.Orders, r.Transactions, r.Consumptions),
		Replenishment:    inventory.NewReplenishmentUseCase(r.Items, r.BOM, r.Orders),
		BOMUC:            bom.NewUseCase(s, locker, r.BOM, r.Items, log),
		ConsumptionUC:    consumptionUC,
		OrderUC:          order.NewUseCase(s, locker, r.Orders, r.Items, consumptionUC, shipUC, log),
		JWTSecret:        testJWTSecret,
	})
	return &apiEnv{
		app:   app,
		store: s,
		staff: bearer(t, pkgjwt.Identity{UserID: "staff-1", Role: pkgjwt.RoleStaff}),
		north: bearer(t, pkgjwt.Identity{UserID: "north-1", BranchName: "Norte", Role: pkgjwt.RoleBranch}),
		south: bearer(t, pkgjwt.Identity{UserID: "south-1", BranchName: "Sur", Role: pkgjwt.RoleBranch}),
	}
}

func (e *apiEnv) item(t *testing.T, name string, typ entity.ItemType, qty int64) *entity.InventoryItem {
	t.Helper()
	it, err := entity.NewInventoryItem(name, typ, decimal.NewFromInt(qty))
	require.NoError(t, err)
	require.NoError(t, e.store.Repos().Items.Create(context.Background(), it))
	return it
}

// call ejecuta la petición y decodifica la respuesta en out (si no es nil).
func (e *apiEnv) call(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestRouter_FlujoCompletoDePedido(t *testing.T) {
	e := newAPI(t)
	f := e.item(t, "Torta de chocolate", entity.ItemTypeFinished, 10)
	m1 := e.item(t, "Harina", entity.ItemTypeMaterial, 25)
	m2 := e.item(t, "Cacao", entity.ItemTypeMaterial, 3)

	// BOM: solo bodega puede reemplazarla
	bomBody := fiber.Map{"rows": []fiber.Map{
		{"material_item_id": m1.ID, "quantity": 2},
		{"material_item_id": m2.ID, "quantity": 1},
	}}
	assert.Equal(t, http.StatusForbidden, e.call(t, http.MethodPut, "/api/bom/"+f.ID, e.north, bomBody, nil))
	var bomResp dto.BOMResponse
	require.Equal(t, http.StatusOK, e.call(t, http.MethodPut, "/api/bom/"+f.ID, e.staff, bomBody, &bomResp))
	require.Len(t, bomResp.Rows, 2)
	assert.Equal(t, "Cacao", bomResp.Rows[0].MaterialName, "ordenado por nombre de material")
	assert.Empty(t, bomResp.Warning)

	// La sucursal crea el pedido aunque falte Cacao; recibe el aviso
	var created dto.CreateOrderResponse
	require.Equal(t, http.StatusCreated, e.call(t, http.MethodPost, "/api/orders", e.north,
		fiber.Map{"finished_item_id": f.ID, "quantity": 4}, &created))
	assert.Equal(t, "Norte", created.Order.BranchName, "sucursal tomada del token")
	assert.Equal(t, "pending", created.Order.Status)
	assert.True(t, created.Consumption.HasShortage)
	assert.NotEmpty(t, created.Consumption.Warning)
	orderID := created.Order.ID

	// Aislamiento por sucursal
	var southList dto.OrderListResponse
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/orders", e.south, nil, &southList))
	assert.Zero(t, southList.Total)
	assert.Equal(t, http.StatusForbidden, e.call(t, http.MethodGet, "/api/orders/"+orderID, e.south, nil, nil))

	var shortages []dto.BranchShortageDTO
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/consumption/branch-shortages", e.staff, nil, &shortages))
	require.Len(t, shortages, 1)
	assert.Equal(t, "Norte", shortages[0].BranchName)

	// Processing
	process := fiber.Map{"order_ids": []string{orderID}}
	assert.Equal(t, http.StatusForbidden, e.call(t, http.MethodPost, "/api/orders/process", e.north, process, nil))
	require.Equal(t, http.StatusOK, e.call(t, http.MethodPost, "/api/orders/process", e.staff, process, nil))

	// Despacho completo falla por Cacao y no modifica nada
	var errResp dto.ErrorResponse
	require.Equal(t, http.StatusConflict, e.call(t, http.MethodPost, "/api/orders/"+orderID+"/ship", e.staff,
		fiber.Map{"shipped_quantity": 4}, &errResp))
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)

	// Despacho parcial
	var shipped dto.ShipOrderResponse
	require.Equal(t, http.StatusOK, e.call(t, http.MethodPost, "/api/orders/"+orderID+"/ship", e.staff,
		fiber.Map{"shipped_quantity": 3}, &shipped))
	assert.NotEmpty(t, shipped.OperationID)
	assert.True(t, shipped.HasBOM)
	assert.Equal(t, "shipping", shipped.Order.Status)
	assert.Len(t, shipped.Transactions, 3)
	for _, c := range shipped.Consumptions {
		assert.Equal(t, f.ID, c.FinishedItemID)
	}

	var cacao dto.ItemResponse
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/items/"+m2.ID, e.staff, nil, &cacao))
	assert.True(t, cacao.Quantity.IsZero())

	// Recepción: solo la sucursal dueña
	assert.Equal(t, http.StatusForbidden, e.call(t, http.MethodPost, "/api/orders/"+orderID+"/receive", e.south, nil, nil))
	assert.Equal(t, http.StatusForbidden, e.call(t, http.MethodPost, "/api/orders/"+orderID+"/receive", e.staff, nil, nil))
	require.Equal(t, http.StatusOK, e.call(t, http.MethodPost, "/api/orders/"+orderID+"/receive", e.north, nil, nil))

	var done dto.OrderResponse
	require.Equal(t, http.StatusOK, e.call(t, http.MethodPost, "/api/orders/"+orderID+"/complete", e.staff, nil, &done))
	assert.Equal(t, "completed", done.Status)

	// Una segunda transición desde completed es inválida
	require.Equal(t, http.StatusConflict, e.call(t, http.MethodPost, "/api/orders/"+orderID+"/complete", e.staff, nil, &errResp))
	assert.Equal(t, "INVALID_TRANSITION", errResp.Code)
}

func TestRouter_SucursalNoPuedePedirParaOtra(t *testing.T) {
	e := newAPI(t)
	f := e.item(t, "Pan", entity.ItemTypeFinished, 5)

	var errResp dto.ErrorResponse
	status := e.call(t, http.MethodPost, "/api/orders", e.north,
		fiber.Map{"finished_item_id": f.ID, "quantity": 1, "branch_name": "Sur"}, &errResp)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errResp.Code)
}

func TestRouter_BOMVaciaDevuelveAviso(t *testing.T) {
	e := newAPI(t)
	f := e.item(t, "Pan", entity.ItemTypeFinished, 5)

	var out dto.BOMResponse
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/bom/"+f.ID, e.north, nil, &out))
	assert.Empty(t, out.Rows)
	assert.NotEmpty(t, out.Warning)

	var report dto.ConsumptionReportDTO
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet,
		"/api/consumption/calculate?finished_item_id="+f.ID+"&quantity=3", e.north, nil, &report))
	assert.False(t, report.HasBOM)
	assert.False(t, report.HasShortage)
	assert.NotEmpty(t, report.Warning)
}

func TestRouter_Validaciones(t *testing.T) {
	e := newAPI(t)

	var errResp dto.ErrorResponse
	require.Equal(t, http.StatusBadRequest, e.call(t, http.MethodGet, "/api/consumption/calculate?finished_item_id=x", e.staff, nil, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)

	require.Equal(t, http.StatusBadRequest, e.call(t, http.MethodPost, "/api/items", e.staff,
		fiber.Map{"name": "Azúcar", "type": "otro"}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)

	require.Equal(t, http.StatusNotFound, e.call(t, http.MethodGet, "/api/orders/no-existe", e.staff, nil, &errResp))
	assert.Equal(t, "NOT_FOUND", errResp.Code)

	require.Equal(t, http.StatusBadRequest, e.call(t, http.MethodGet, "/api/orders?status=perdido", e.staff, nil, &errResp))

	assert.Equal(t, http.StatusUnauthorized, e.call(t, http.MethodGet, "/api/items", "", nil, nil))
}

func TestRouter_MovimientosEHistorial(t *testing.T) {
	e := newAPI(t)

	var created dto.ItemResponse
	require.Equal(t, http.StatusCreated, e.call(t, http.MethodPost, "/api/items", e.staff,
		fiber.Map{"name": "Azúcar", "type": "material", "unit": "kg", "min_quantity": 5}, &created))

	var mov dto.StockTransactionResponse
	require.Equal(t, http.StatusCreated, e.call(t, http.MethodPost, "/api/items/"+created.ID+"/movements", e.staff,
		fiber.Map{"direction": "in", "quantity": 10, "unit_price": 2}, &mov))
	assert.Equal(t, "in", mov.Direction)

	var errResp dto.ErrorResponse
	require.Equal(t, http.StatusConflict, e.call(t, http.MethodPost, "/api/items/"+created.ID+"/movements", e.staff,
		fiber.Map{"direction": "out", "quantity": 11}, &errResp))
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)

	var page struct {
		Items []dto.StockTransactionResponse `json:"items"`
	}
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/items/"+created.ID+"/transactions?from=2000-01-01", e.north, nil, &page))
	require.Len(t, page.Items, 1)

	require.Equal(t, http.StatusBadRequest, e.call(t, http.MethodGet, "/api/items/"+created.ID+"/transactions?from=ayer", e.north, nil, &errResp))

	var item dto.ItemResponse
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/items/"+created.ID, e.north, nil, &item))
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(2)))
}

func TestRouter_BOMGuardadaSobreviveAPeticionesSiguientes(t *testing.T) {
	e := newAPI(t)
	f := e.item(t, "Torta de chocolate", entity.ItemTypeFinished, 10)
	m := e.item(t, "Harina", entity.ItemTypeMaterial, 25)

	require.Equal(t, http.StatusOK, e.call(t, http.MethodPut, "/api/bom/"+f.ID, e.staff,
		fiber.Map{"rows": []fiber.Map{{"material_item_id": m.ID, "quantity": 2}}}, nil))

	// peticiones con rutas de otro largo reutilizan los buffers de la anterior
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/items/"+m.ID, e.north, nil, nil))
		require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/items?type=material", e.north, nil, nil))
	}

	rows, err := e.store.Repos().BOM.ListByFinishedItem(context.Background(), f.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.ID, rows[0].FinishedItemID)

	var report dto.ConsumptionReportDTO
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet,
		"/api/consumption/calculate?finished_item_id="+f.ID+"&quantity=3", e.north, nil, &report))
	assert.True(t, report.HasBOM)
	require.Len(t, report.Materials, 1)
	assert.True(t, report.Materials[0].RequiredQuantity.Equal(decimal.NewFromInt(6)))
}
