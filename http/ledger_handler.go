package http

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"debt-planner/domain"
	"debt-planner/repository"
	"debt-planner/service"
)

// LedgerHandler expone el flujo del libro respaldado por el repositorio:
// registrar deudas y pagos, y aplicar/recalcular/eliminar ajustes de
// conciliación. Tras cada mutación el saldo cacheado de la deuda se refresca
// desde la historia, el paso explícito que el servicio de libro deja a su
// llamador.
type LedgerHandler struct {
	repo   repository.DebtRepository
	ledger *service.LedgerService
	log    *logrus.Logger
}

func NewLedgerHandler(
	repo repository.DebtRepository,
	ledger *service.LedgerService,
	log *logrus.Logger,
) *LedgerHandler {
	return &LedgerHandler{repo: repo, ledger: ledger, log: log}
}

type createDebtRequest struct {
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`
	InterestRate   float64 `json:"interest_rate"`
	MinimumPayment float64 `json:"minimum_payment"`
}

func (h *LedgerHandler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	var req createDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "nombre de deuda no puede estar vacío", http.StatusBadRequest)
		return
	}
	if req.Balance < 0 || req.InterestRate < 0 || req.MinimumPayment < 0 {
		http.Error(w, "valores inválidos", http.StatusBadRequest)
		return
	}

	debt := domain.Debt{
		Name:            req.Name,
		Balance:         req.Balance,
		OriginalBalance: req.Balance,
		InterestRate:    req.InterestRate,
		MinimumPayment:  req.MinimumPayment,
		CreatedAt:       time.Now(),
	}
	if err := h.repo.SaveDebt(&debt); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.log.Infof("debt registered: %s", debt.Name)
	writeJSON(w, h.log, http.StatusCreated, debt)
}

func (h *LedgerHandler) ListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := h.repo.Debts()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.log, http.StatusOK, debts)
}

type createPaymentRequest struct {
	PlannedAmount    float64   `json:"planned_amount"`
	ActualAmount     float64   `json:"actual_amount"`
	InterestPortion  float64   `json:"interest_portion"`
	PrincipalPortion float64   `json:"principal_portion"`
	PaymentDate      time.Time `json:"payment_date"`
	MonthNumber      *int      `json:"month_number"`
	Notes            string    `json:"notes"`
	ExternalTxID     string    `json:"external_tx_id"`
}

// CreatePayment registra un pago ordinario contra una deuda. El desglose debe
// cuadrar: interés más capital igual al monto pagado, ambos no negativos.
func (h *LedgerHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	debt, ok := h.debtFromPath(w, r)
	if !ok {
		return
	}

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ActualAmount < 0 || req.InterestPortion < 0 || req.PrincipalPortion < 0 {
		http.Error(w, "montos inválidos", http.StatusBadRequest)
		return
	}
	if math.Abs(req.InterestPortion+req.PrincipalPortion-req.ActualAmount) >= 0.01 {
		http.Error(w, "interés más capital debe igualar el monto pagado", http.StatusBadRequest)
		return
	}
	if req.PaymentDate.IsZero() {
		req.PaymentDate = time.Now()
	}

	payment := domain.Payment{
		DebtID:           debt.ID,
		PlannedAmount:    req.PlannedAmount,
		ActualAmount:     req.ActualAmount,
		InterestPortion:  req.InterestPortion,
		PrincipalPortion: req.PrincipalPortion,
		PaymentDate:      req.PaymentDate,
		MonthNumber:      req.MonthNumber,
		PaymentMonth:     req.PaymentDate.Format("2006-01"),
		Notes:            req.Notes,
		ExternalTxID:     req.ExternalTxID,
	}
	if err := h.repo.SavePayment(&payment); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !h.refreshBalance(w, debt) {
		return
	}

	writeJSON(w, h.log, http.StatusCreated, payment)
}

type reconciliationRequest struct {
	ObservedBalance float64   `json:"observed_balance"`
	Date            time.Time `json:"date"`
	Notes           string    `json:"notes"`
}

// ApplyReconciliation concilia una deuda con un saldo observado externamente.
func (h *LedgerHandler) ApplyReconciliation(w http.ResponseWriter, r *http.Request) {
	debt, ok := h.debtFromPath(w, r)
	if !ok {
		return
	}

	var req reconciliationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	payments, err := h.repo.PaymentsByDebt(debt.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	adjustment, err := h.ledger.ApplyReconciliation(debt, payments, req.ObservedBalance, req.Date, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrNoAdjustmentNeeded) {
			writeJSON(w, h.log, http.StatusOK, map[string]bool{"adjustment_needed": false})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.SavePayment(&adjustment); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !h.refreshBalance(w, debt) {
		return
	}

	h.log.Infof("reconciliation applied to debt %s: %.2f", debt.Name, adjustment.PrincipalPortion)
	writeJSON(w, h.log, http.StatusCreated, adjustment)
}

// UpdateReconciliation recalcula un ajuste contra un nuevo saldo observado.
// El capital se deriva del estado actual del libro, nunca del valor histórico
// guardado. Si el nuevo saldo observado ya coincide con el implícito, el
// ajuste sobra: se elimina y el saldo se recalcula sin él.
func (h *LedgerHandler) UpdateReconciliation(w http.ResponseWriter, r *http.Request) {
	adjustment, ok := h.paymentFromPath(w, r)
	if !ok {
		return
	}

	var req reconciliationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	debt, err := h.repo.DebtByID(adjustment.DebtID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	payments, err := h.repo.PaymentsByDebt(debt.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	updated, err := h.ledger.RecomputeReconciliation(debt, payments, adjustment, req.ObservedBalance)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAdjustmentNeeded):
			// El libro sin este ajuste ya cuadra con el saldo observado:
			// conservarlo dejaría el saldo desviado, así que se elimina.
			if err := h.repo.DeletePayment(adjustment.ID); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if !h.refreshBalance(w, debt) {
				return
			}
			writeJSON(w, h.log, http.StatusOK, map[string]bool{"adjustment_needed": false})
		case errors.Is(err, service.ErrNotAReconciliation):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	if err := h.repo.SavePayment(&updated); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !h.refreshBalance(w, debt) {
		return
	}

	writeJSON(w, h.log, http.StatusOK, updated)
}

// DeleteReconciliation elimina un ajuste; reproducir la historia restante
// revierte su efecto sobre el capital.
func (h *LedgerHandler) DeleteReconciliation(w http.ResponseWriter, r *http.Request) {
	adjustment, ok := h.paymentFromPath(w, r)
	if !ok {
		return
	}

	if err := h.ledger.ValidateReconciliationDelete(adjustment); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	debt, err := h.repo.DebtByID(adjustment.DebtID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := h.repo.DeletePayment(adjustment.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !h.refreshBalance(w, debt) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// refreshBalance recarga la historia de la deuda y persiste el saldo
// reconstruido. Devuelve false tras escribir una respuesta de error.
func (h *LedgerHandler) refreshBalance(w http.ResponseWriter, debt domain.Debt) bool {
	payments, err := h.repo.PaymentsByDebt(debt.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return false
	}
	refreshed := h.ledger.RefreshBalance(debt, payments)
	if err := h.repo.UpdateDebt(refreshed); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *LedgerHandler) debtFromPath(w http.ResponseWriter, r *http.Request) (domain.Debt, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid debt id", http.StatusBadRequest)
		return domain.Debt{}, false
	}
	debt, err := h.repo.DebtByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return domain.Debt{}, false
	}
	return debt, true
}

func (h *LedgerHandler) paymentFromPath(w http.ResponseWriter, r *http.Request) (domain.Payment, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid payment id", http.StatusBadRequest)
		return domain.Payment{}, false
	}
	payment, err := h.repo.PaymentByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return domain.Payment{}, false
	}
	return payment, true
}
