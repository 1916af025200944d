package domain

import "time"

// BufferTarget es el nombre centinela para asignaciones que van al colchón de
// efectivo en lugar de a una deuda.
const BufferTarget = "buffer"

// AllocationInput describe una asignación puntual hipotética: destinar Amount
// a TargetDebt (o al colchón) y medir qué cambia.
type AllocationInput struct {
	Debts        []Debt        `json:"debts"`
	Amount       float64       `json:"amount"`
	TargetDebt   string        `json:"target_debt"` // debt name, or BufferTarget
	ExtraPayment float64       `json:"extra_payment"`
	Strategy     Strategy      `json:"strategy"`
	Buffer       *BufferStatus `json:"buffer,omitempty"` // required for BufferTarget
	StartDate    time.Time     `json:"start_date"`
}

// AllocationImpact es la diferencia entre el calendario base y el hipotético
// para una asignación a deuda. Los ahorros se acotan en cero: una
// reasignación nunca se reporta como dañina.
type AllocationImpact struct {
	MonthsSaved    int       `json:"months_saved"`
	InterestSaved  float64   `json:"interest_saved"`
	NewPayoffMonth int       `json:"new_payoff_month"`
	NewPayoffDate  time.Time `json:"new_payoff_date"`
}

// BufferImpact es el efecto analítico de poner el monto en el colchón.
type BufferImpact struct {
	DaysOfSecurityAdded float64 `json:"days_of_security_added"`
	NewBufferMonths     float64 `json:"new_buffer_months"`
}

// AllocationResult lleva exactamente una de las dos formas de impacto, según
// el objetivo.
type AllocationResult struct {
	Target string            `json:"target"`
	Debt   *AllocationImpact `json:"debt_impact,omitempty"`
	Buffer *BufferImpact     `json:"buffer_impact,omitempty"`
}
