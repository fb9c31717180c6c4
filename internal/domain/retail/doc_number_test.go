package retail_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/petcare-pos/internal/domain/retail"
)

func TestFormatSaleNumber_ConsecutivoDiario(t *testing.T) {
	date := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "TXN-20260315-001", retail.FormatSaleNumber(date, 1))
	assert.Equal(t, "TXN-20260315-042", retail.FormatSaleNumber(date, 42))
	assert.Equal(t, "TXN-20260315-999", retail.FormatSaleNumber(date, 999))
}

// Con más de 999 documentos en el día el consecutivo crece a 4 dígitos sin
// colisionar con los anteriores.
func TestFormatSaleNumber_MasDeMilVentas(t *testing.T) {
	date := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "TXN-20260315-1000", retail.FormatSaleNumber(date, 1000))
}

func TestFormatPurchaseOrderNumber(t *testing.T) {
	date := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "PO-20260102-003", retail.FormatPurchaseOrderNumber(date, 3))
}

func TestDayRange_CubreElDiaCompleto(t *testing.T) {
	loc, _ := time.LoadLocation("America/Bogota")
	now := time.Date(2026, 3, 15, 18, 45, 12, 0, loc)

	from, to := retail.DayRange(now)

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, loc), to)
	assert.True(t, !now.Before(from) && now.Before(to), "now debe caer dentro de [from, to)")
}
