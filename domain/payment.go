package domain

import "time"

// Payment es una entrada inmutable del libro contra exactamente una deuda.
//
// En pagos ordinarios InterestPortion + PrincipalPortion == ActualAmount
// (ambos no negativos). En ajustes de conciliación PlannedAmount e
// InterestPortion siempre son cero, MonthNumber es nil y PrincipalPortion
// puede ser negativo (el saldo subió, p. ej. un cargo por mora).
type Payment struct {
	ID               int64     `json:"id"`
	DebtID           int64     `json:"debt_id"`
	PlannedAmount    float64   `json:"planned_amount"`
	ActualAmount     float64   `json:"actual_amount"`
	InterestPortion  float64   `json:"interest_portion"`
	PrincipalPortion float64   `json:"principal_portion"`
	PaymentDate      time.Time `json:"payment_date"`
	MonthNumber      *int      `json:"month_number,omitempty"`
	PaymentMonth     string    `json:"payment_month"`
	Notes            string    `json:"notes,omitempty"`
	ExternalTxID     string    `json:"external_tx_id,omitempty"`
	IsReconciliation bool      `json:"is_reconciliation_adjustment"`
}
