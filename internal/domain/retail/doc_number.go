package retail

import (
	"fmt"
	"time"
)

// Prefijos de numeración de documentos.
const (
	SaleNumberPrefix          = "TXN"
	PurchaseOrderNumberPrefix = "PO"
)

// FormatSaleNumber arma el consecutivo diario de venta: TXN-YYYYMMDD-NNN.
// seq es 1-based y se rellena con ceros a 3 dígitos; con más de 999 ventas
// en el día el número crece a 4+ dígitos sin colisionar.
func FormatSaleNumber(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", SaleNumberPrefix, date.Format("20060102"), seq)
}

// FormatPurchaseOrderNumber arma el consecutivo diario de orden de compra: PO-YYYYMMDD-NNN.
func FormatPurchaseOrderNumber(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", PurchaseOrderNumberPrefix, date.Format("20060102"), seq)
}

// DayRange devuelve [inicio, fin) del día calendario de t en su zona horaria,
// para contar documentos del mismo día.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
