package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
)

// queryTime acepta RFC3339 o fecha (2006-01-02). "to" en formato fecha incluye el día completo.
func queryTime(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.NewValidationError(key, "fecha inválida, use RFC3339 o AAAA-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func queryRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	from, err := queryTime(c, "from", false)
	if err != nil {
		return nil, nil, err
	}
	to, err := queryTime(c, "to", true)
	if err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, domain.NewValidationError("to", "debe ser posterior a from")
	}
	return from, to, nil
}

func queryDecimal(c *fiber.Ctx, key string) (decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return decimal.Zero, domain.NewValidationError(key, "es requerido")
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(key, "número inválido")
	}
	return v, nil
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
