package alerting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/petcare-pos/internal/application/dto"
	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
	"github.com/tu-usuario/petcare-pos/internal/domain/retail"
	"github.com/tu-usuario/petcare-pos/pkg/logger"
)

// AlertUseCase evalúa el inventario contra los umbrales mínimos y administra
// el ciclo de vida de las alertas (pending → acknowledged → resolved).
// La resolución es siempre manual, incluso si el stock ya se recuperó.
type AlertUseCase struct {
	stockRepo repository.StockRepository
	alertRepo repository.AlertRepository
	log       *logger.Logger
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(stockRepo repository.StockRepository, alertRepo repository.AlertRepository, log *logger.Logger) *AlertUseCase {
	return &AlertUseCase{stockRepo: stockRepo, alertRepo: alertRepo, log: log}
}

// Evaluate recorre el snapshot de stock de la facility y crea alertas pending
// para las unidades en o bajo su mínimo que no tengan ya una alerta abierta.
// Es idempotente: correrla dos veces seguidas no duplica alertas.
func (uc *AlertUseCase) Evaluate(ctx context.Context, facilityID string) ([]dto.AlertResponse, error) {
	units, err := uc.stockRepo.ListUnitStocks(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	created := make([]dto.AlertResponse, 0)
	for _, u := range retail.LowStockUnits(units) {
		open, err := uc.alertRepo.GetOpenByUnit(facilityID, u.ProductID, u.VariantID)
		if err != nil {
			return nil, err
		}
		if open != nil {
			continue // ya hay alerta abierta para esta unidad
		}
		alert := &entity.LowStockAlert{
			ID:           uuid.New().String(),
			FacilityID:   facilityID,
			ProductID:    u.ProductID,
			VariantID:    u.VariantID,
			CurrentStock: u.Stock,
			MinStock:     u.MinStock,
			Status:       entity.AlertStatusPending,
			CreatedAt:    time.Now(),
		}
		if err := uc.alertRepo.Create(alert); err != nil {
			return nil, err
		}
		uc.log.Warn().
			Str("facility_id", facilityID).
			Str("sku", u.SKU).
			Str("stock", u.Stock.String()).
			Str("min_stock", u.MinStock.String()).
			Msg("Alerta de stock bajo creada")
		created = append(created, *toAlertResponse(alert))
	}
	return created, nil
}

// Acknowledge marca una alerta pending como vista. Solo pending → acknowledged.
func (uc *AlertUseCase) Acknowledge(ctx context.Context, facilityID, userID, alertID string) (*dto.AlertResponse, error) {
	alert, err := uc.getOwned(facilityID, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Status != entity.AlertStatusPending {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	alert.Status = entity.AlertStatusAcknowledged
	alert.AcknowledgedBy = userID
	alert.AcknowledgedAt = &now
	if err := uc.alertRepo.Update(alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

// Resolve cierra una alerta abierta (pending o acknowledged).
func (uc *AlertUseCase) Resolve(ctx context.Context, facilityID, userID, alertID string) (*dto.AlertResponse, error) {
	alert, err := uc.getOwned(facilityID, alertID)
	if err != nil {
		return nil, err
	}
	if !alert.IsOpen() {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	alert.Status = entity.AlertStatusResolved
	alert.ResolvedBy = userID
	alert.ResolvedAt = &now
	if err := uc.alertRepo.Update(alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

// ListAlerts lista alertas de la facility, opcionalmente filtradas por estado.
func (uc *AlertUseCase) ListAlerts(ctx context.Context, facilityID, status string, limit, offset int) ([]dto.AlertResponse, error) {
	switch status {
	case "", entity.AlertStatusPending, entity.AlertStatusAcknowledged, entity.AlertStatusResolved:
	default:
		return nil, domain.ErrInvalidInput
	}
	alerts, err := uc.alertRepo.ListByFacility(facilityID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, *toAlertResponse(a))
	}
	return out, nil
}

func (uc *AlertUseCase) getOwned(facilityID, alertID string) (*entity.LowStockAlert, error) {
	alert, err := uc.alertRepo.GetByID(alertID)
	if err != nil || alert == nil {
		return nil, domain.ErrNotFound
	}
	if alert.FacilityID != facilityID {
		return nil, domain.ErrForbidden
	}
	return alert, nil
}

func toAlertResponse(alert *entity.LowStockAlert) *dto.AlertResponse {
	resp := &dto.AlertResponse{
		ID:             alert.ID,
		ProductID:      alert.ProductID,
		VariantID:      alert.VariantID,
		CurrentStock:   alert.CurrentStock,
		MinStock:       alert.MinStock,
		Status:         alert.Status,
		AcknowledgedBy: alert.AcknowledgedBy,
		ResolvedBy:     alert.ResolvedBy,
		CreatedAt:      alert.CreatedAt.Format(time.RFC3339),
	}
	if alert.AcknowledgedAt != nil {
		resp.AcknowledgedAt = alert.AcknowledgedAt.Format(time.RFC3339)
	}
	if alert.ResolvedAt != nil {
		resp.ResolvedAt = alert.ResolvedAt.Format(time.RFC3339)
	}
	return resp
}
