package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"debt-planner/domain"
	"debt-planner/service"
)

type ScenarioHandler struct {
	scenarios *service.ScenarioService
	log       *logrus.Logger
}

func NewScenarioHandler(scenarios *service.ScenarioService, log *logrus.Logger) *ScenarioHandler {
	return &ScenarioHandler{scenarios: scenarios, log: log}
}

type allocationRequest struct {
	Debts        []domain.Debt        `json:"debts"`
	Amount       float64              `json:"amount"`
	TargetDebt   string               `json:"target_debt"`
	ExtraPayment float64              `json:"extra_payment"`
	Strategy     string               `json:"strategy"`
	Buffer       *domain.BufferStatus `json:"buffer,omitempty"`
	StartDate    time.Time            `json:"start_date"`
}

// CompareAllocation evalúa una asignación puntual hipotética contra una deuda
// o el colchón de efectivo.
func (h *ScenarioHandler) CompareAllocation(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("error decoding allocation request: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !validStrategyName(req.Strategy) {
		http.Error(w, "estrategia inválida", http.StatusBadRequest)
		return
	}

	result, err := h.scenarios.CompareOneTimeAllocation(domain.AllocationInput{
		Debts:        req.Debts,
		Amount:       req.Amount,
		TargetDebt:   req.TargetDebt,
		ExtraPayment: req.ExtraPayment,
		Strategy:     domain.ParseStrategy(req.Strategy),
		Buffer:       req.Buffer,
		StartDate:    req.StartDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrDebtNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, h.log, http.StatusOK, result)
}
