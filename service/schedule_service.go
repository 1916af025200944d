package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"debt-planner/domain"
	"debt-planner/repository"
)

// roundTo2Decimals redondea un float64 a 2 decimales
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// ScheduleService es el simulador de amortización mes a mes. Es puramente
// computacional: entran deudas como valores, sale un calendario, nada se muta
// ni se persiste. Los resultados se memoizan en el cache, con llave sobre
// cada entrada que pueda cambiar el resultado.
type ScheduleService struct {
	cache repository.CacheRepository
	log   *logrus.Logger
}

// NewScheduleService creates a new ScheduleService with the given cache.
func NewScheduleService(cache repository.CacheRepository, log *logrus.Logger) *ScheduleService {
	return &ScheduleService{cache: cache, log: log}
}

// activeDebt es la copia de trabajo del simulador para una deuda.
type activeDebt struct {
	name        string
	balance     float64
	rate        float64
	minimum     float64
	actualFirst float64 // pagos reales registrados del mes 1; 0 = ninguno
}

// GenerateSchedule simula la liquidación de las deudas mes a mes según la
// estrategia y el presupuesto de pago extra.
//
// Cada mes la deuda prioritaria (la primera en el orden de la estrategia)
// recibe su mínimo más todo el pago extra disponible; el resto solo su
// mínimo. El interés se acumula antes de aplicar el pago y los pagos se topan
// en el saldo pendiente. Al saldarse una deuda, su mínimo pasa al fondo de
// pago extra para todos los meses siguientes (el efecto bola de nieve). Las
// deudas con pagos registrados del mes 1 reproducen el monto registrado ese
// mes en lugar de la fórmula, para que los meses históricos cuadren con la
// realidad.
func (s *ScheduleService) GenerateSchedule(input domain.ScheduleInput) (domain.Schedule, error) {
	if err := validateScheduleInput(input); err != nil {
		return domain.Schedule{}, err
	}

	start := input.StartDate
	if start.IsZero() {
		start = time.Now()
	}

	schedule := domain.Schedule{
		Strategy: input.Strategy,
		Months:   []domain.ScheduleMonth{},
		DebtFree: true,
	}

	// Caso degenerado: sin deudas no hay nada que simular.
	if len(input.Debts) == 0 {
		return schedule, nil
	}

	key := scheduleCacheKey(input, start)
	if cached, ok := s.cache.Get(key); ok {
		var hit domain.Schedule
		if err := json.Unmarshal([]byte(cached), &hit); err == nil {
			return hit, nil
		}
		s.log.Warnf("discarding undecodable cached schedule for key %s", key)
	}

	active := buildActiveDebts(input.Debts)
	originalTotal := 0.0
	for _, d := range active {
		originalTotal += d.balance
	}
	originalTotal = roundTo2Decimals(originalTotal)
	schedule.OriginalTotal = originalTotal

	availableExtra := roundTo2Decimals(input.ExtraPayment)
	totalInterest := 0.0
	totalPaid := 0.0
	month := 0

	for len(active) > 0 {
		month++
		if month > MaxScheduleMonths {
			s.log.Warnf("schedule simulation stopped at the %d-month cap", MaxScheduleMonths)
			schedule.DebtFree = false
			month--
			break
		}

		orderActive(active, input.Strategy)

		lines := make([]domain.PaymentLine, 0, len(active))
		monthPaid := 0.0

		for i := range active {
			d := &active[i]

			interest := roundTo2Decimals(d.balance * (d.rate / 100) / 12)
			totalInterest = roundTo2Decimals(totalInterest + interest)

			isPriority := i == 0
			payment := d.minimum
			if isPriority {
				payment = roundTo2Decimals(d.minimum + availableExtra)
			}
			if month == 1 && d.actualFirst > 0 {
				// Replay de la historia registrada, no proyección.
				payment = d.actualFirst
			}

			// Sin sobrepago: el pago no supera saldo más interés del mes.
			maxPayment := roundTo2Decimals(d.balance + interest)
			if payment > maxPayment {
				payment = maxPayment
			}

			d.balance = roundTo2Decimals(d.balance + interest - payment)
			if d.balance < 0 {
				d.balance = 0
			}

			extraPortion := math.Max(0, roundTo2Decimals(payment-d.minimum))
			lines = append(lines, domain.PaymentLine{
				DebtName:       d.name,
				Amount:         payment,
				MinimumPortion: roundTo2Decimals(payment - extraPortion),
				ExtraPortion:   extraPortion,
				Interest:       interest,
				Remaining:      d.balance,
				IsPriority:     isPriority,
			})
			monthPaid = roundTo2Decimals(monthPaid + payment)
		}

		totalPaid = roundTo2Decimals(totalPaid + monthPaid)

		remaining := 0.0
		for _, d := range active {
			remaining += d.balance
		}
		progress := 100.0
		if originalTotal > 0 {
			progress = roundTo2Decimals((originalTotal - remaining) / originalTotal * 100)
		}
		if progress < 0 {
			progress = 0
		}

		schedule.Months = append(schedule.Months, domain.ScheduleMonth{
			Month:           month,
			Label:           start.AddDate(0, month-1, 0).Format("January 2006"),
			PriorityDebt:    active[0].name,
			Payments:        lines,
			TotalPaid:       monthPaid,
			ProgressPercent: progress,
		})

		// Las deudas saldadas salen del conjunto activo después de registrar
		// el mes; su mínimo pasa al fondo de pago extra de forma permanente.
		survivors := active[:0]
		for _, d := range active {
			if d.balance <= DebtBalanceTolerance {
				availableExtra = roundTo2Decimals(availableExtra + d.minimum)
				continue
			}
			survivors = append(survivors, d)
		}
		active = survivors
	}

	schedule.TotalMonths = month
	schedule.TotalPaid = totalPaid
	schedule.TotalInterest = totalInterest

	if encoded, err := json.Marshal(schedule); err == nil {
		if err := s.cache.Set(key, string(encoded)); err != nil {
			s.log.Warnf("failed to cache schedule: %v", err)
		}
	}

	return schedule, nil
}

// CompareStrategies corre la simulación una vez por estrategia y reporta
// ambos resultados más lo que ahorra elegir la más barata.
func (s *ScheduleService) CompareStrategies(
	debts []domain.Debt,
	extraPayment float64,
	startDate time.Time,
) (domain.StrategyComparison, error) {
	snowball, err := s.GenerateSchedule(domain.ScheduleInput{
		Debts:        debts,
		ExtraPayment: extraPayment,
		Strategy:     domain.StrategySnowball,
		StartDate:    startDate,
	})
	if err != nil {
		return domain.StrategyComparison{}, err
	}
	avalanche, err := s.GenerateSchedule(domain.ScheduleInput{
		Debts:        debts,
		ExtraPayment: extraPayment,
		Strategy:     domain.StrategyAvalanche,
		StartDate:    startDate,
	})
	if err != nil {
		return domain.StrategyComparison{}, err
	}

	comparison := domain.StrategyComparison{
		Snowball: domain.StrategySummary{
			TotalInterestPaid: snowball.TotalInterest,
			MonthsToPayoff:    snowball.TotalMonths,
		},
		Avalanche: domain.StrategySummary{
			TotalInterestPaid: avalanche.TotalInterest,
			MonthsToPayoff:    avalanche.TotalMonths,
		},
		Recommended: domain.StrategyAvalanche,
	}
	if snowball.TotalInterest < avalanche.TotalInterest {
		comparison.Recommended = domain.StrategySnowball
	}

	// Ahorros al elegir la estrategia recomendada frente a la otra.
	recommended, other := comparison.Avalanche, comparison.Snowball
	if comparison.Recommended == domain.StrategySnowball {
		recommended, other = comparison.Snowball, comparison.Avalanche
	}
	comparison.Savings.InterestSaved = roundTo2Decimals(
		math.Max(0, other.TotalInterestPaid-recommended.TotalInterestPaid))
	if months := other.MonthsToPayoff - recommended.MonthsToPayoff; months > 0 {
		comparison.Savings.MonthsSaved = months
	}

	return comparison, nil
}

// CalculatePayoffMonths resuelve la fórmula de amortización de una sola deuda
// en forma cerrada, redondeando hacia arriba a meses completos. Devuelve
// PayoffMonthsInfinite cuando el pago no puede superar el interés mensual;
// ese caso se verifica explícitamente antes del logaritmo, nunca se descubre
// vía NaN.
func (s *ScheduleService) CalculatePayoffMonths(balance, annualRate, payment float64) int {
	if balance <= DebtBalanceTolerance {
		return 0
	}
	if payment <= 0 {
		return PayoffMonthsInfinite
	}

	monthlyRate := (annualRate / 100) / 12
	if monthlyRate == 0 {
		return int(math.Ceil(balance / payment))
	}

	if payment <= balance*monthlyRate {
		return PayoffMonthsInfinite
	}

	months := -math.Log(1-balance*monthlyRate/payment) / math.Log(1+monthlyRate)
	return int(math.Ceil(months))
}

// OrderDebts devuelve una copia ordenada: avalanche descendente por tasa de
// interés, snowball ascendente por saldo. El orden es estable para que los
// empates conserven el orden de entrada y las corridas sean reproducibles.
// Cualquier estrategia no reconocida ordena como avalanche, el default
// documentado.
func OrderDebts(debts []domain.Debt, strategy domain.Strategy) []domain.Debt {
	ordered := make([]domain.Debt, len(debts))
	copy(ordered, debts)

	if strategy == domain.StrategySnowball {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Balance < ordered[j].Balance
		})
	} else {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].InterestRate > ordered[j].InterestRate
		})
	}
	return ordered
}

func orderActive(active []activeDebt, strategy domain.Strategy) {
	if strategy == domain.StrategySnowball {
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].balance < active[j].balance
		})
		return
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].rate > active[j].rate
	})
}

// buildActiveDebts copia las deudas de entrada a copias de trabajo, derivando
// un pago mínimo faltante como un mes de interés sobre el saldo actual y
// sumando los pagos registrados del mes 1 para el replay.
func buildActiveDebts(debts []domain.Debt) []activeDebt {
	active := make([]activeDebt, 0, len(debts))
	for _, d := range debts {
		if d.Balance <= DebtBalanceTolerance {
			continue
		}

		minimum := d.MinimumPayment
		if minimum <= 0 {
			minimum = roundTo2Decimals(d.Balance * d.MonthlyRate())
		}

		actualFirst := 0.0
		for _, p := range d.Payments {
			if p.IsReconciliation || p.MonthNumber == nil || *p.MonthNumber != 1 {
				continue
			}
			actualFirst = roundTo2Decimals(actualFirst + p.ActualAmount)
		}

		active = append(active, activeDebt{
			name:        d.Name,
			balance:     roundTo2Decimals(d.Balance),
			rate:        d.InterestRate,
			minimum:     minimum,
			actualFirst: actualFirst,
		})
	}
	return active
}

func validateScheduleInput(input domain.ScheduleInput) error {
	if input.ExtraPayment < 0 {
		return errors.New("pago extra inválido")
	}
	if len(input.Debts) > MaxDebtsPerRequest {
		return fmt.Errorf("número de deudas excede el máximo de %d", MaxDebtsPerRequest)
	}

	names := make(map[string]bool)
	for _, debt := range input.Debts {
		if debt.Name == "" {
			return errors.New("nombre de deuda no puede estar vacío")
		}
		if names[debt.Name] {
			return fmt.Errorf("nombre de deuda duplicado: %s", debt.Name)
		}
		names[debt.Name] = true

		if debt.Balance < 0 {
			return errors.New("saldo de deuda inválido")
		}
		if debt.Balance > MaxDebtAmount {
			return fmt.Errorf("saldo de deuda excede el máximo de $%.2f", MaxDebtAmount)
		}
		if debt.InterestRate < 0 {
			return errors.New("tasa de interés inválida")
		}
		if debt.InterestRate > MaxInterestRate {
			return fmt.Errorf("tasa de interés excede el máximo de %.2f%%", MaxInterestRate)
		}
		if debt.MinimumPayment < 0 {
			return errors.New("pago mínimo inválido")
		}
	}
	return nil
}

// scheduleCacheKey hashea cada entrada de la simulación que pueda cambiar el
// resultado: estado por deuda (incluidos los pagos registrados del mes 1), el
// presupuesto extra, la estrategia y el mes de inicio de las etiquetas.
func scheduleCacheKey(input domain.ScheduleInput, start time.Time) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%.2f|%s", input.Strategy, input.ExtraPayment, start.Format("2006-01"))
	for _, d := range input.Debts {
		firstMonth := 0.0
		for _, p := range d.Payments {
			if !p.IsReconciliation && p.MonthNumber != nil && *p.MonthNumber == 1 {
				firstMonth += p.ActualAmount
			}
		}
		fmt.Fprintf(h, "|%s;%.2f;%.4f;%.2f;%.2f", d.Name, d.Balance, d.InterestRate, d.MinimumPayment, firstMonth)
	}
	return "schedule:" + hex.EncodeToString(h.Sum(nil))
}
