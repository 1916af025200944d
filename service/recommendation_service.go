package service

import (
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"debt-planner/config"
	"debt-planner/domain"
)

// RecommendationService clasifica la situación del hogar en uno de un
// conjunto fijo de escenarios mutuamente excluyentes, evaluados en orden de
// prioridad donde gana el primero que aplica, y dimensiona la acción sugerida
// a través del comparador de escenarios.
type RecommendationService struct {
	scenarios *ScenarioService
	cfg       *config.Config
	log       *logrus.Logger
}

func NewRecommendationService(scenarios *ScenarioService, cfg *config.Config, log *logrus.Logger) *RecommendationService {
	return &RecommendationService{scenarios: scenarios, cfg: cfg, log: log}
}

// Evaluate devuelve la recomendación que aplica para las deudas y el estado
// del colchón recibidos. El resultado tiene forma de lista; la cascada
// produce exactamente una entrada.
func (s *RecommendationService) Evaluate(
	debts []domain.Debt,
	buffer domain.BufferStatus,
) ([]domain.Recommendation, error) {
	if buffer.TotalBuffer < 0 || buffer.MonthlyEssential < 0 {
		return nil, errors.New("estado del colchón inválido")
	}

	// 1. Colchón por debajo del mínimo absoluto: todo lo demás cede.
	if buffer.TotalBuffer < s.cfg.BufferCriticalMin {
		return []domain.Recommendation{{
			Priority:        1,
			Category:        domain.CategoryCriticalBuffer,
			Status:          domain.StatusCritical,
			SuggestedAmount: roundTo2Decimals(s.cfg.BufferCriticalMin - buffer.TotalBuffer),
			Params: map[string]float64{
				"buffer_total": buffer.TotalBuffer,
				"critical_min": s.cfg.BufferCriticalMin,
			},
		}}, nil
	}

	if len(debts) == 0 {
		return []domain.Recommendation{s.bufferOnly(buffer)}, nil
	}

	ordered := OrderDebts(debts, domain.StrategyAvalanche)
	top := ordered[0]

	// 2. Deuda cara presente: sugerir un pago parcial según la salud del colchón.
	if top.InterestRate >= s.cfg.HighInterestThreshold {
		return []domain.Recommendation{s.highInterest(top, debts, buffer)}, nil
	}

	// 3. Solo deuda barata y colchón incompleto: seguir construyendo el colchón.
	if top.InterestRate < s.cfg.LowInterestThreshold &&
		buffer.Layer2.Months < buffer.Layer2.TargetMonths {
		return []domain.Recommendation{{
			Priority:        3,
			Category:        domain.CategoryBuildBuffer,
			Status:          domain.StatusInfo,
			SuggestedAmount: amountToTarget(buffer),
			Params: map[string]float64{
				"interest_rate":  top.InterestRate,
				"buffer_months":  buffer.Layer2.Months,
				"target_months":  buffer.Layer2.TargetMonths,
				"low_threshold":  s.cfg.LowInterestThreshold,
				"high_threshold": s.cfg.HighInterestThreshold,
			},
		}}, nil
	}

	// 4. Colchón completo y deuda pendiente: redirigir el excedente.
	if buffer.Layer2.Months >= buffer.Layer2.TargetMonths {
		excess := excessAboveTarget(buffer)
		amount := math.Max(MinRedirectAmount, math.Min(excess, top.Balance))
		return []domain.Recommendation{{
			Priority:        4,
			Category:        domain.CategoryRedirectExcess,
			Status:          domain.StatusGood,
			TargetDebt:      top.Name,
			SuggestedAmount: roundTo2Decimals(amount),
			Params: map[string]float64{
				"excess_above_target": excess,
				"debt_balance":        top.Balance,
			},
		}}, nil
	}

	// 5. Ningún caso dominante: recomendación neutra, sin acción sugerida.
	return []domain.Recommendation{{
		Priority: 5,
		Category: domain.CategoryBalanced,
		Status:   domain.StatusInfo,
		Params: map[string]float64{
			"interest_rate": top.InterestRate,
			"buffer_months": buffer.Layer2.Months,
			"target_months": buffer.Layer2.TargetMonths,
		},
	}}, nil
}

// highInterest dimensiona un pago parcial hacia la deuda más cara según el
// nivel de salud del colchón: bajo deja intacto el 90% del colchón, medio el
// 80%, y un colchón completo aporta todo lo que excede su meta.
func (s *RecommendationService) highInterest(
	top domain.Debt,
	debts []domain.Debt,
	buffer domain.BufferStatus,
) domain.Recommendation {
	var amount float64
	switch {
	case buffer.Layer2.Months < buffer.Layer2.TargetMonths/2:
		amount = 0.10 * buffer.TotalBuffer
	case buffer.Layer2.Months < buffer.Layer2.TargetMonths:
		amount = 0.20 * buffer.TotalBuffer
	default:
		amount = excessAboveTarget(buffer)
	}
	amount = roundTo2Decimals(math.Max(0, math.Min(amount, top.Balance)))

	rec := domain.Recommendation{
		Priority:        2,
		Category:        domain.CategoryHighInterest,
		Status:          domain.StatusWarning,
		TargetDebt:      top.Name,
		SuggestedAmount: amount,
		Params: map[string]float64{
			"interest_rate": top.InterestRate,
			"debt_balance":  top.Balance,
			"buffer_months": buffer.Layer2.Months,
			"target_months": buffer.Layer2.TargetMonths,
		},
	}

	if amount > DebtBalanceTolerance {
		result, err := s.scenarios.CompareOneTimeAllocation(domain.AllocationInput{
			Debts:      debts,
			Amount:     amount,
			TargetDebt: top.Name,
			Strategy:   domain.StrategyAvalanche,
		})
		if err != nil {
			s.log.Warnf("failed to compute allocation impact for %s: %v", top.Name, err)
		} else {
			rec.Impact = result.Debt
		}
	}

	return rec
}

func (s *RecommendationService) bufferOnly(buffer domain.BufferStatus) domain.Recommendation {
	rec := domain.Recommendation{
		Priority: 6,
		Category: domain.CategoryBufferOnly,
		Status:   domain.StatusGood,
		Params: map[string]float64{
			"buffer_months": buffer.Layer2.Months,
			"target_months": buffer.Layer2.TargetMonths,
		},
	}
	if buffer.Layer2.Months < buffer.Layer2.TargetMonths {
		rec.Status = domain.StatusInfo
		rec.SuggestedAmount = amountToTarget(buffer)
	}
	return rec
}

// amountToTarget devuelve cuánto falta para alcanzar la cobertura meta de la
// capa de emergencia.
func amountToTarget(buffer domain.BufferStatus) float64 {
	missing := buffer.Layer2.TargetMonths*buffer.MonthlyEssential - buffer.TotalBuffer
	return roundTo2Decimals(math.Max(0, missing))
}

func excessAboveTarget(buffer domain.BufferStatus) float64 {
	excess := buffer.TotalBuffer - buffer.Layer2.TargetMonths*buffer.MonthlyEssential
	return roundTo2Decimals(math.Max(0, excess))
}
