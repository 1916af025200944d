package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"debt-planner/domain"
	"debt-planner/repository"
	"debt-planner/service"
)

func testLedgerRouter() (*mux.Router, repository.DebtRepository) {
	repo := repository.NewDebtRepositoryMemory()
	handler := NewLedgerHandler(repo, service.NewLedgerService(), testLogger())

	r := mux.NewRouter()
	r.HandleFunc("/debts", handler.CreateDebt).Methods(http.MethodPost)
	r.HandleFunc("/debts", handler.ListDebts).Methods(http.MethodGet)
	r.HandleFunc("/debts/{id}/payments", handler.CreatePayment).Methods(http.MethodPost)
	r.HandleFunc("/debts/{id}/reconciliations", handler.ApplyReconciliation).Methods(http.MethodPost)
	r.HandleFunc("/reconciliations/{id}", handler.UpdateReconciliation).Methods(http.MethodPut)
	r.HandleFunc("/reconciliations/{id}", handler.DeleteReconciliation).Methods(http.MethodDelete)
	return r, repo
}

func doJSON(t *testing.T, router *mux.Router, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createTestDebt(t *testing.T, router *mux.Router, name string, balance float64) domain.Debt {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/debts", map[string]any{
		"name": name, "balance": balance, "interest_rate": 12, "minimum_payment": 500,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 creating debt, got %d: %s", rec.Code, rec.Body.String())
	}
	var debt domain.Debt
	if err := json.Unmarshal(rec.Body.Bytes(), &debt); err != nil {
		t.Fatalf("error decoding debt: %v", err)
	}
	return debt
}

func TestCreateDebtHandler(t *testing.T) {

	router, _ := testLedgerRouter()
	debt := createTestDebt(t, router, "visa", 10000)

	if debt.ID == 0 {
		t.Errorf("expected an assigned id")
	}
	if debt.OriginalBalance != 10000 || debt.Balance != 10000 {
		t.Errorf("expected both balances anchored at 10000, got %+v", debt)
	}
}

func TestCreateDebtHandler_Invalid(t *testing.T) {

	router, _ := testLedgerRouter()

	cases := []map[string]any{
		{"name": "", "balance": 100},
		{"name": "visa", "balance": -100},
		{"name": "visa", "balance": 100, "interest_rate": -1},
	}
	for _, payload := range cases {
		if rec := doJSON(t, router, http.MethodPost, "/debts", payload); rec.Code != http.StatusBadRequest {
			t.Errorf("payload %v: expected status 400, got %d", payload, rec.Code)
		}
	}
}

func TestCreatePaymentHandler_RefreshesBalance(t *testing.T) {

	router, repo := testLedgerRouter()
	debt := createTestDebt(t, router, "visa", 10000)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/debts/%d/payments", debt.ID), map[string]any{
		"actual_amount":     500,
		"interest_portion":  100,
		"principal_portion": 400,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, err := repo.DebtByID(debt.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Balance != 9600 {
		t.Errorf("expected refreshed balance 9600.00, got %.2f", stored.Balance)
	}
}

func TestCreatePaymentHandler_SplitMustBalance(t *testing.T) {

	router, _ := testLedgerRouter()
	debt := createTestDebt(t, router, "visa", 10000)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/debts/%d/payments", debt.ID), map[string]any{
		"actual_amount":     500,
		"interest_portion":  100,
		"principal_portion": 350,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for an unbalanced split, got %d", rec.Code)
	}
}

func TestCreatePaymentHandler_UnknownDebt(t *testing.T) {

	router, _ := testLedgerRouter()

	rec := doJSON(t, router, http.MethodPost, "/debts/99/payments", map[string]any{
		"actual_amount": 500, "interest_portion": 100, "principal_portion": 400,
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestReconciliationFlow(t *testing.T) {

	router, repo := testLedgerRouter()
	debt := createTestDebt(t, router, "visa", 10000)

	doJSON(t, router, http.MethodPost, fmt.Sprintf("/debts/%d/payments", debt.ID), map[string]any{
		"actual_amount": 500, "interest_portion": 50, "principal_portion": 450,
	})

	// El saldo implícito es 9550; el estado de cuenta dice 9350.
	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/debts/%d/reconciliations", debt.ID), map[string]any{
		"observed_balance": 9350,
		"notes":            "estado de cuenta",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var adjustment domain.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &adjustment); err != nil {
		t.Fatalf("error decoding adjustment: %v", err)
	}
	if adjustment.PrincipalPortion != 200 || !adjustment.IsReconciliation {
		t.Errorf("expected a reconciliation of 200.00, got %+v", adjustment)
	}

	stored, _ := repo.DebtByID(debt.ID)
	if stored.Balance != 9350 {
		t.Errorf("expected reconciled balance 9350.00, got %.2f", stored.Balance)
	}

	// Conciliar otra vez al mismo saldo: no se necesita ajuste.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/debts/%d/reconciliations", debt.ID), map[string]any{
		"observed_balance": 9350,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for a no-op reconciliation, got %d", rec.Code)
	}

	// Editar el ajuste contra un nuevo saldo observado.
	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/reconciliations/%d", adjustment.ID), map[string]any{
		"observed_balance": 9400,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 updating, got %d: %s", rec.Code, rec.Body.String())
	}
	stored, _ = repo.DebtByID(debt.ID)
	if stored.Balance != 9400 {
		t.Errorf("expected updated balance 9400.00, got %.2f", stored.Balance)
	}

	// Borrar el ajuste revierte su efecto al re-reproducir la historia.
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/reconciliations/%d", adjustment.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 deleting, got %d", rec.Code)
	}
	stored, _ = repo.DebtByID(debt.ID)
	if stored.Balance != 9550 {
		t.Errorf("expected balance restored to 9550.00, got %.2f", stored.Balance)
	}
}

func TestUpdateReconciliation_DeletesObsoleteAdjustment(t *testing.T) {

	router, repo := testLedgerRouter()
	debt := createTestDebt(t, router, "visa", 10000)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/debts/%d/reconciliations", debt.ID), map[string]any{
		"observed_balance": 9000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var adjustment domain.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &adjustment); err != nil {
		t.Fatalf("error decoding adjustment: %v", err)
	}

	// El nuevo saldo observado coincide con el libro sin el ajuste: editarlo
	// debe eliminarlo, no conservar el capital viejo.
	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/reconciliations/%d", adjustment.ID), map[string]any{
		"observed_balance": 10000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := repo.PaymentByID(adjustment.ID); err == nil {
		t.Errorf("expected the obsolete adjustment to be deleted")
	}
	stored, _ := repo.DebtByID(debt.ID)
	if stored.Balance != 10000 {
		t.Errorf("expected balance restored to 10000.00, got %.2f", stored.Balance)
	}
}

func TestUpdateReconciliation_RejectsOrdinaryPayment(t *testing.T) {

	router, _ := testLedgerRouter()
	debt := createTestDebt(t, router, "visa", 10000)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/debts/%d/payments", debt.ID), map[string]any{
		"actual_amount": 500, "interest_portion": 100, "principal_portion": 400,
	})
	var payment domain.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &payment); err != nil {
		t.Fatalf("error decoding payment: %v", err)
	}

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/reconciliations/%d", payment.ID), map[string]any{
		"observed_balance": 9000,
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/reconciliations/%d", payment.ID), nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status 409 on delete, got %d", rec.Code)
	}
}

func TestListDebtsHandler(t *testing.T) {

	router, _ := testLedgerRouter()
	createTestDebt(t, router, "visa", 10000)
	createTestDebt(t, router, "auto", 5000)

	rec := doJSON(t, router, http.MethodGet, "/debts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var debts []domain.Debt
	if err := json.Unmarshal(rec.Body.Bytes(), &debts); err != nil {
		t.Fatalf("error decoding debts: %v", err)
	}
	if len(debts) != 2 {
		t.Errorf("expected 2 debts, got %d", len(debts))
	}
}
