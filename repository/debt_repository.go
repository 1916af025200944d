package repository

import "debt-planner/domain"

// DebtRepository supplies the debt ledger as in-memory collections. The
// calculation services never touch it directly; callers load snapshots here
// and hand plain values to the engine.
type DebtRepository interface {
	Debts() ([]domain.Debt, error)
	DebtByID(id int64) (domain.Debt, error)
	SaveDebt(debt *domain.Debt) error
	UpdateDebt(debt domain.Debt) error

	PaymentsByDebt(debtID int64) ([]domain.Payment, error)
	PaymentByID(id int64) (domain.Payment, error)
	SavePayment(payment *domain.Payment) error
	DeletePayment(id int64) error
}
