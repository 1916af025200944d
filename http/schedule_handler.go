package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"debt-planner/domain"
	"debt-planner/service"
)

type ScheduleHandler struct {
	schedules    *service.ScheduleService
	explanations *service.ExplanationService
	log          *logrus.Logger
}

func NewScheduleHandler(
	schedules *service.ScheduleService,
	explanations *service.ExplanationService,
	log *logrus.Logger,
) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, explanations: explanations, log: log}
}

type scheduleRequest struct {
	Debts        []domain.Debt `json:"debts"`
	ExtraPayment float64       `json:"extra_payment"`
	Strategy     string        `json:"strategy"`
	StartDate    time.Time     `json:"start_date"`
}

type scheduleResponse struct {
	Schedule    domain.Schedule `json:"schedule"`
	Explanation string          `json:"explanation"`
}

func (h *ScheduleHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("error decoding schedule request: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !validStrategyName(req.Strategy) {
		http.Error(w, "estrategia inválida", http.StatusBadRequest)
		return
	}

	schedule, err := h.schedules.GenerateSchedule(domain.ScheduleInput{
		Debts:        req.Debts,
		ExtraPayment: req.ExtraPayment,
		Strategy:     domain.ParseStrategy(req.Strategy),
		StartDate:    req.StartDate,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, h.log, http.StatusOK, scheduleResponse{
		Schedule:    schedule,
		Explanation: h.explanations.ExplainSchedule(schedule, nil),
	})
}

type compareResponse struct {
	Comparison  domain.StrategyComparison `json:"comparison"`
	Explanation string                    `json:"explanation"`
}

func (h *ScheduleHandler) CompareStrategies(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	comparison, err := h.schedules.CompareStrategies(req.Debts, req.ExtraPayment, req.StartDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recommended, err := h.schedules.GenerateSchedule(domain.ScheduleInput{
		Debts:        req.Debts,
		ExtraPayment: req.ExtraPayment,
		Strategy:     comparison.Recommended,
		StartDate:    req.StartDate,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, h.log, http.StatusOK, compareResponse{
		Comparison:  comparison,
		Explanation: h.explanations.ExplainSchedule(recommended, &comparison),
	})
}

type payoffMonthsRequest struct {
	Balance      float64 `json:"balance"`
	InterestRate float64 `json:"interest_rate"`
	Payment      float64 `json:"payment"`
}

type payoffMonthsResponse struct {
	Months   int  `json:"months"`
	Infinite bool `json:"infinite"`
}

// CalculatePayoffMonths expone el cálculo cerrado de una sola deuda. Un pago
// que nunca supera al interés se reporta como infinito, no como error: "esto
// nunca se va a pagar" es información.
func (h *ScheduleHandler) CalculatePayoffMonths(w http.ResponseWriter, r *http.Request) {
	var req payoffMonthsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Balance < 0 || req.InterestRate < 0 || req.Payment < 0 {
		http.Error(w, "valores inválidos", http.StatusBadRequest)
		return
	}

	months := h.schedules.CalculatePayoffMonths(req.Balance, req.InterestRate, req.Payment)
	resp := payoffMonthsResponse{Months: months}
	if months == service.PayoffMonthsInfinite {
		resp = payoffMonthsResponse{Months: 0, Infinite: true}
	}

	writeJSON(w, h.log, http.StatusOK, resp)
}
