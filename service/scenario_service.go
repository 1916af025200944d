package service

import (
	"errors"
	"math"
	"time"

	"debt-planner/domain"
)

// ScenarioService evalúa decisiones financieras puntuales re-corriendo el
// simulador contra un cambio hipotético de saldo y comparando el resultado
// con la línea base.
type ScenarioService struct {
	schedules *ScheduleService
}

func NewScenarioService(schedules *ScheduleService) *ScenarioService {
	return &ScenarioService{schedules: schedules}
}

// CompareOneTimeAllocation evalúa destinar input.Amount a un objetivo.
//
// Para un objetivo de deuda, el clon hipotético re-ancla esa deuda en el
// saldo reducido con su historial de pagos limpio: una reasignación puntual
// se juzga solo por la trayectoria del saldo restante, no por los pagos
// pasados. Esto diverge a propósito de la semántica de replay del libro; no
// es un bug.
//
// El objetivo de colchón no se simula; su impacto es analítico (días de
// seguridad agregados, nuevos meses de cobertura).
func (s *ScenarioService) CompareOneTimeAllocation(input domain.AllocationInput) (domain.AllocationResult, error) {
	if input.Amount <= 0 {
		return domain.AllocationResult{}, errors.New("monto inválido")
	}

	if input.TargetDebt == domain.BufferTarget {
		impact, err := s.bufferImpact(input)
		if err != nil {
			return domain.AllocationResult{}, err
		}
		return domain.AllocationResult{Target: domain.BufferTarget, Buffer: &impact}, nil
	}

	impact, err := s.debtImpact(input)
	if err != nil {
		return domain.AllocationResult{}, err
	}
	return domain.AllocationResult{Target: input.TargetDebt, Debt: &impact}, nil
}

func (s *ScenarioService) debtImpact(input domain.AllocationInput) (domain.AllocationImpact, error) {
	targetIndex := -1
	for i, d := range input.Debts {
		if d.Name == input.TargetDebt {
			targetIndex = i
			break
		}
	}
	if targetIndex < 0 {
		return domain.AllocationImpact{}, ErrDebtNotFound
	}
	target := input.Debts[targetIndex]

	start := input.StartDate
	if start.IsZero() {
		start = time.Now()
	}

	baseline, err := s.schedules.GenerateSchedule(domain.ScheduleInput{
		Debts:        input.Debts,
		ExtraPayment: input.ExtraPayment,
		Strategy:     input.Strategy,
		StartDate:    start,
	})
	if err != nil {
		return domain.AllocationImpact{}, err
	}

	reducedBalance := math.Max(0, roundTo2Decimals(target.Balance-input.Amount))

	// Clon, nunca el estado del llamador.
	whatIfDebts := make([]domain.Debt, len(input.Debts))
	copy(whatIfDebts, input.Debts)
	whatIfDebts[targetIndex] = target.WithBalance(reducedBalance)

	whatIf, err := s.schedules.GenerateSchedule(domain.ScheduleInput{
		Debts:        whatIfDebts,
		ExtraPayment: input.ExtraPayment,
		Strategy:     input.Strategy,
		StartDate:    start,
	})
	if err != nil {
		return domain.AllocationImpact{}, err
	}

	baselineMonth := findPayoffMonth(baseline, target.Name, target.Balance)
	whatIfMonth := findPayoffMonth(whatIf, target.Name, reducedBalance)

	monthsSaved := baselineMonth - whatIfMonth
	if monthsSaved < 0 {
		monthsSaved = 0
	}

	return domain.AllocationImpact{
		MonthsSaved:    monthsSaved,
		InterestSaved:  roundTo2Decimals(math.Max(0, baseline.TotalInterest-whatIf.TotalInterest)),
		NewPayoffMonth: whatIfMonth,
		NewPayoffDate:  start.AddDate(0, whatIfMonth, 0),
	}, nil
}

func (s *ScenarioService) bufferImpact(input domain.AllocationInput) (domain.BufferImpact, error) {
	if input.Buffer == nil {
		return domain.BufferImpact{}, errors.New("estado del colchón requerido para asignaciones al colchón")
	}
	essential := input.Buffer.MonthlyEssential
	if essential <= 0 {
		return domain.BufferImpact{}, errors.New("gasto mensual esencial inválido")
	}

	return domain.BufferImpact{
		DaysOfSecurityAdded: roundTo2Decimals(input.Amount / essential * 30),
		NewBufferMonths:     roundTo2Decimals((input.Buffer.TotalBuffer + input.Amount) / essential),
	}, nil
}

// findPayoffMonth localiza el primer mes en que el saldo restante de la deuda
// nombrada llega a cero. Un saldo inicial ya en cero significa que la propia
// reasignación liquidó la deuda (mes 0), y una deuda ausente del calendario
// nunca estuvo activa, también mes 0. Una deuda presente que nunca llega a
// cero no se liquidó dentro del horizonte simulado y se reporta como el largo
// completo del calendario.
func findPayoffMonth(schedule domain.Schedule, debtName string, startingBalance float64) int {
	if startingBalance <= DebtBalanceTolerance {
		return 0
	}

	seen := false
	for _, month := range schedule.Months {
		for _, line := range month.Payments {
			if line.DebtName != debtName {
				continue
			}
			seen = true
			if line.Remaining <= DebtBalanceTolerance {
				return month.Month
			}
		}
	}
	if !seen {
		return 0
	}
	return schedule.TotalMonths
}
