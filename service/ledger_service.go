package service

import (
	"errors"
	"math"
	"time"

	"debt-planner/domain"
)

// LedgerService reconstruye saldos de deuda a partir del historial de pagos.
// Cada método es una función pura sobre los slices recibidos: nunca muta la
// deuda ni los pagos del llamador y no persiste nada. Tras una mutación, el
// llamador debe refrescar el saldo cacheado (RefreshBalance) y guardarlo él
// mismo.
type LedgerService struct{}

func NewLedgerService() *LedgerService {
	return &LedgerService{}
}

// BalanceAsOf calcula el saldo de la deuda justo antes de asOf: el saldo
// original menos el capital de cada pago fechado estrictamente antes de asOf,
// con piso en cero. excludeID (0 = ninguno) omite un pago, usado al re-derivar
// una entrada que está siendo editada.
func (s *LedgerService) BalanceAsOf(
	debt domain.Debt,
	payments []domain.Payment,
	asOf time.Time,
	excludeID int64,
) float64 {
	principal := 0.0
	for _, p := range payments {
		if p.DebtID != debt.ID {
			continue
		}
		if excludeID != 0 && p.ID == excludeID {
			continue
		}
		if !p.PaymentDate.Before(asOf) {
			continue
		}
		principal += p.PrincipalPortion
	}
	return math.Max(0, roundTo2Decimals(debt.OriginalBalance-principal))
}

// CurrentBalance reproduce la historia completa: saldo original menos la suma
// de todos los capitales, con piso en cero. Esta igualdad es la invariante
// central del libro ante ediciones, borrados y conciliaciones.
func (s *LedgerService) CurrentBalance(debt domain.Debt, payments []domain.Payment) float64 {
	return math.Max(0, roundTo2Decimals(debt.OriginalBalance-s.principalSum(debt, payments, 0)))
}

// RefreshBalance devuelve la deuda con su campo Balance puesto al saldo
// reconstruido. Persistir el resultado es tarea del llamador.
func (s *LedgerService) RefreshBalance(debt domain.Debt, payments []domain.Payment) domain.Debt {
	debt.Balance = s.CurrentBalance(debt, payments)
	return debt
}

// ApplyReconciliation concilia el libro con un saldo real observado en la
// fecha dada. Devuelve la entrada de ajuste a registrar; convención de signo:
// capital positivo baja el saldo. Falla con ErrNoAdjustmentNeeded cuando el
// saldo implícito y el observado ya coinciden dentro de un centavo.
func (s *LedgerService) ApplyReconciliation(
	debt domain.Debt,
	payments []domain.Payment,
	observedBalance float64,
	date time.Time,
	notes string,
) (domain.Payment, error) {
	if observedBalance < 0 {
		return domain.Payment{}, errors.New("saldo observado inválido")
	}

	// El saldo implícito al cierre del día observado, sin esta conciliación.
	implied := s.BalanceAsOf(debt, payments, endOfDay(date), 0)

	adjustment := roundTo2Decimals(implied - observedBalance)
	if math.Abs(adjustment) < DebtBalanceTolerance {
		return domain.Payment{}, ErrNoAdjustmentNeeded
	}

	return domain.Payment{
		DebtID:           debt.ID,
		PlannedAmount:    0,
		ActualAmount:     0,
		InterestPortion:  0,
		PrincipalPortion: adjustment,
		PaymentDate:      date,
		MonthNumber:      nil,
		PaymentMonth:     date.Format("2006-01"),
		Notes:            notes,
		IsReconciliation: true,
	}, nil
}

// RecomputeReconciliation re-deriva un ajuste existente contra un nuevo saldo
// observado. El capital se calcula desde el saldo implícito *actual*
// excluyendo el propio ajuste, nunca desde su valor histórico guardado, para
// que las ediciones sigan siendo idempotentes ante cambios concurrentes del
// libro.
func (s *LedgerService) RecomputeReconciliation(
	debt domain.Debt,
	payments []domain.Payment,
	adjustment domain.Payment,
	observedBalance float64,
) (domain.Payment, error) {
	if !adjustment.IsReconciliation {
		return domain.Payment{}, ErrNotAReconciliation
	}
	if observedBalance < 0 {
		return domain.Payment{}, errors.New("saldo observado inválido")
	}

	implied := math.Max(0, roundTo2Decimals(
		debt.OriginalBalance-s.principalSum(debt, payments, adjustment.ID)))

	principal := roundTo2Decimals(implied - observedBalance)
	if math.Abs(principal) < DebtBalanceTolerance {
		return domain.Payment{}, ErrNoAdjustmentNeeded
	}

	adjustment.PrincipalPortion = principal
	return adjustment, nil
}

// ValidateReconciliationDelete verifica el contrato para eliminar un ajuste.
// El borrado en sí revierte el efecto del capital, porque los saldos siempre
// se reproducen desde la historia.
func (s *LedgerService) ValidateReconciliationDelete(adjustment domain.Payment) error {
	if !adjustment.IsReconciliation {
		return ErrNotAReconciliation
	}
	return nil
}

func (s *LedgerService) principalSum(debt domain.Debt, payments []domain.Payment, excludeID int64) float64 {
	sum := 0.0
	for _, p := range payments {
		if p.DebtID != debt.ID {
			continue
		}
		if excludeID != 0 && p.ID == excludeID {
			continue
		}
		sum += p.PrincipalPortion
	}
	return sum
}

// endOfDay devuelve el fin exclusivo del día calendario dado.
func endOfDay(date time.Time) time.Time {
	year, month, day := date.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, date.Location()).AddDate(0, 0, 1)
}
