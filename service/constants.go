package service

import "math"

const (
	MaxDebtAmount      = 100_000_000.0 // 100 millones
	MaxInterestRate    = 1000.0        // 1000% anual
	MaxDebtsPerRequest = 50            // máximo de deudas por simulación

	// MaxScheduleMonths acota el loop de simulación para que entradas
	// patológicas (pagos que nunca superan al interés) igual terminen. Llegar
	// al tope es un resultado normal, reportado vía Schedule.DebtFree == false.
	MaxScheduleMonths = 600 // 50 años

	// DebtBalanceTolerance es el epsilon de un centavo usado en toda
	// comparación de saldos: deudas saldadas, conciliaciones sin efecto.
	DebtBalanceTolerance = 0.01

	// PayoffMonthsInfinite es el centinela devuelto cuando un pago nunca
	// puede liquidar un saldo (pago <= interés mensual).
	PayoffMonthsInfinite = math.MaxInt32

	// MinRedirectAmount es el piso del monto sugerido al redirigir excedente
	// del colchón a deuda.
	MinRedirectAmount = 1000.0
)
