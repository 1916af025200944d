package domain

import "time"

// Debt representa un pasivo con nombre rastreado por el planificador.
//
// OriginalBalance es el saldo al crear la deuda y los pagos ordinarios nunca
// lo reducen; reproducir el capital de cada pago contra él debe reproducir
// siempre Balance. Solo los ajustes de conciliación lo alteran de forma
// indirecta (insertando entradas de capital).
type Debt struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Balance         float64   `json:"balance"`
	OriginalBalance float64   `json:"original_balance"`
	InterestRate    float64   `json:"interest_rate"`   // anual, en porcentaje (15.5 = 15.5%)
	MinimumPayment  float64   `json:"minimum_payment"` // 0 = derivado del interés mensual
	CreatedAt       time.Time `json:"created_at"`
	Payments        []Payment `json:"payments,omitempty"`
}

// MonthlyRate devuelve la tasa de interés mensual como fracción.
func (d Debt) MonthlyRate() float64 {
	return (d.InterestRate / 100) / 12
}

// WithBalance devuelve una copia de la deuda re-anclada en el saldo dado:
// Balance y OriginalBalance quedan en ese valor y el historial de pagos se
// descarta. El receptor nunca se muta; es la copia que usan las simulaciones
// hipotéticas que parten de cero con un saldo reducido.
func (d Debt) WithBalance(balance float64) Debt {
	if balance < 0 {
		balance = 0
	}
	d.Balance = balance
	d.OriginalBalance = balance
	d.Payments = nil
	return d
}
