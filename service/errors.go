package service

import "errors"

var (
	// ErrNoAdjustmentNeeded indica que una conciliación movería el saldo
	// menos de un centavo. Esperado y recuperable: no hay nada que hacer.
	ErrNoAdjustmentNeeded = errors.New("no se requiere ajuste de conciliación")

	// ErrNotAReconciliation indica que se intentó editar o borrar como
	// conciliación un pago ordinario. Violación de contrato del llamador.
	ErrNotAReconciliation = errors.New("el pago no es un ajuste de conciliación")

	// ErrDebtNotFound indica que la deuda objetivo no está en el conjunto
	// recibido.
	ErrDebtNotFound = errors.New("deuda no encontrada")
)
