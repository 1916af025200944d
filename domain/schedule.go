package domain

import "time"

// PaymentLine es la proyección de una sola deuda dentro de un mes del
// calendario.
type PaymentLine struct {
	DebtName       string  `json:"debt_name"`
	Amount         float64 `json:"amount"`
	MinimumPortion float64 `json:"minimum_portion"`
	ExtraPortion   float64 `json:"extra_portion"`
	Interest       float64 `json:"interest"`
	Remaining      float64 `json:"remaining"`
	IsPriority     bool    `json:"is_priority"`
}

// ScheduleMonth contiene un mes simulado del plan de pago.
type ScheduleMonth struct {
	Month           int           `json:"month"` // 1-based
	Label           string        `json:"label"`
	PriorityDebt    string        `json:"priority_debt"`
	Payments        []PaymentLine `json:"payments"`
	TotalPaid       float64       `json:"total_paid"`
	ProgressPercent float64       `json:"progress_percent"`
}

// Schedule es la salida completa mes a mes del simulador.
//
// DebtFree es false cuando la simulación se detuvo en el tope de seguridad en
// lugar de llegar a saldos en cero; es un resultado normal para entradas
// cuyos pagos nunca superan al interés, no un error.
type Schedule struct {
	Strategy      Strategy        `json:"strategy"`
	Months        []ScheduleMonth `json:"months"`
	TotalMonths   int             `json:"total_months"`
	TotalPaid     float64         `json:"total_paid"`
	TotalInterest float64         `json:"total_interest"`
	OriginalTotal float64         `json:"original_total"`
	DebtFree      bool            `json:"debt_free"`
}

// ScheduleInput es la forma de entrada del simulador.
type ScheduleInput struct {
	Debts        []Debt    `json:"debts"`
	ExtraPayment float64   `json:"extra_payment"`
	Strategy     Strategy  `json:"strategy"`
	StartDate    time.Time `json:"start_date"`
}

// StrategySummary condensa el resultado simulado de una estrategia.
type StrategySummary struct {
	TotalInterestPaid float64 `json:"total_interest_paid"`
	MonthsToPayoff    int     `json:"months_to_payoff"`
}

// StrategyComparison pone ambas estrategias lado a lado más lo que ahorra
// elegir la más barata.
type StrategyComparison struct {
	Snowball    StrategySummary `json:"snowball"`
	Avalanche   StrategySummary `json:"avalanche"`
	Recommended Strategy        `json:"recommended"`
	Savings     struct {
		InterestSaved float64 `json:"interest_saved"`
		MonthsSaved   int     `json:"months_saved"`
	} `json:"savings"`
}
