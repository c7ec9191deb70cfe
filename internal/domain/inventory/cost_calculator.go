package inventory

import "github.com/shopspring/decimal"

// WeightedUnitPrice implementa el precio unitario promedio ponderado tras una entrada de stock.
// NuevoPrecio = ((StockActual * PrecioActual) + (CantEntrada * PrecioEntrada)) / (StockActual + CantEntrada)
func WeightedUnitPrice(stockActual, precioActual, cantEntrada, precioEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(precioActual).Add(cantEntrada.Mul(precioEntrada))
	return num.Div(sum)
}
