package repository

import (
	"errors"
	"sort"
	"sync"

	"debt-planner/domain"
)

var ErrNotFound = errors.New("registro no encontrado")

// DebtRepositoryMemory is an in-memory implementation of DebtRepository.
type DebtRepositoryMemory struct {
	mu       sync.RWMutex
	debts    map[int64]domain.Debt
	payments map[int64]domain.Payment
	nextID   int64
}

// NewDebtRepositoryMemory creates a new in-memory debt repository.
func NewDebtRepositoryMemory() *DebtRepositoryMemory {
	return &DebtRepositoryMemory{
		debts:    make(map[int64]domain.Debt),
		payments: make(map[int64]domain.Payment),
		nextID:   1,
	}
}

func (r *DebtRepositoryMemory) Debts() ([]domain.Debt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	debts := make([]domain.Debt, 0, len(r.debts))
	for _, d := range r.debts {
		debts = append(debts, d)
	}
	sort.Slice(debts, func(i, j int) bool { return debts[i].ID < debts[j].ID })
	return debts, nil
}

func (r *DebtRepositoryMemory) DebtByID(id int64) (domain.Debt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	debt, ok := r.debts[id]
	if !ok {
		return domain.Debt{}, ErrNotFound
	}
	return debt, nil
}

func (r *DebtRepositoryMemory) SaveDebt(debt *domain.Debt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if debt.ID == 0 {
		debt.ID = r.nextID
		r.nextID++
	}
	r.debts[debt.ID] = *debt
	return nil
}

func (r *DebtRepositoryMemory) UpdateDebt(debt domain.Debt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.debts[debt.ID]; !ok {
		return ErrNotFound
	}
	r.debts[debt.ID] = debt
	return nil
}

// PaymentsByDebt returns the debt's entries in chronological order.
func (r *DebtRepositoryMemory) PaymentsByDebt(debtID int64) ([]domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payments := []domain.Payment{}
	for _, p := range r.payments {
		if p.DebtID == debtID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		if payments[i].PaymentDate.Equal(payments[j].PaymentDate) {
			return payments[i].ID < payments[j].ID
		}
		return payments[i].PaymentDate.Before(payments[j].PaymentDate)
	})
	return payments, nil
}

func (r *DebtRepositoryMemory) PaymentByID(id int64) (domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[id]
	if !ok {
		return domain.Payment{}, ErrNotFound
	}
	return payment, nil
}

func (r *DebtRepositoryMemory) SavePayment(payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == 0 {
		payment.ID = r.nextID
		r.nextID++
	}
	r.payments[payment.ID] = *payment
	return nil
}

func (r *DebtRepositoryMemory) DeletePayment(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[id]; !ok {
		return ErrNotFound
	}
	delete(r.payments, id)
	return nil
}
