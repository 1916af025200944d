package service

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"debt-planner/config"
	"debt-planner/domain"
)

func newTestRecommendationService() *RecommendationService {
	cfg := &config.Config{
		HighInterestThreshold: 10,
		LowInterestThreshold:  5,
		BufferCriticalMin:     5000,
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRecommendationService(newTestScenarioService(), cfg, log)
}

func buffer(total, months, targetMonths, essential float64) domain.BufferStatus {
	return domain.BufferStatus{
		TotalBuffer:      total,
		MonthlyEssential: essential,
		Layer2:           domain.BufferLayer2{Amount: total, Months: months, TargetMonths: targetMonths},
	}
}

func evaluateOne(t *testing.T, debts []domain.Debt, status domain.BufferStatus) domain.Recommendation {
	t.Helper()
	recommendations, err := newTestRecommendationService().Evaluate(debts, status)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recommendations) != 1 {
		t.Fatalf("expected exactly one recommendation, got %d", len(recommendations))
	}
	return recommendations[0]
}

func TestEvaluate_CriticalBufferBeatsExpensiveDebt(t *testing.T) {

	// Aun con una deuda al 20%, un colchón de 1000 manda.
	rec := evaluateOne(t,
		[]domain.Debt{{Name: "tarjeta", Balance: 8000, InterestRate: 20, MinimumPayment: 200}},
		buffer(1000, 0.5, 6, 2000),
	)

	if rec.Category != domain.CategoryCriticalBuffer || rec.Priority != 1 {
		t.Fatalf("expected critical buffer recommendation, got %+v", rec)
	}
	if rec.Status != domain.StatusCritical {
		t.Errorf("expected critical status, got %s", rec.Status)
	}
	if rec.SuggestedAmount != 4000 {
		t.Errorf("expected suggested amount 4000.00 to reach the minimum, got %.2f", rec.SuggestedAmount)
	}
}

func TestEvaluate_HighInterestTiers(t *testing.T) {

	debts := []domain.Debt{{Name: "tarjeta", Balance: 8000, InterestRate: 18, MinimumPayment: 200}}

	cases := []struct {
		name   string
		status domain.BufferStatus
		want   float64
	}{
		// Colchón flaco: solo el 10% del total se arriesga.
		{"thin buffer", buffer(12000, 2, 6, 2000), 1200},
		// Colchón a medio camino: 20%.
		{"halfway buffer", buffer(12000, 4, 6, 2000), 2400},
		// Colchón completo: todo el excedente sobre la meta.
		{"funded buffer", buffer(15000, 7.5, 6, 2000), 3000},
	}

	for _, tc := range cases {
		rec := evaluateOne(t, debts, tc.status)
		if rec.Category != domain.CategoryHighInterest || rec.Priority != 2 {
			t.Fatalf("%s: expected high interest recommendation, got %+v", tc.name, rec)
		}
		if rec.TargetDebt != "tarjeta" {
			t.Errorf("%s: expected target tarjeta, got %s", tc.name, rec.TargetDebt)
		}
		if rec.SuggestedAmount != tc.want {
			t.Errorf("%s: expected amount %.2f, got %.2f", tc.name, tc.want, rec.SuggestedAmount)
		}
		if rec.Impact == nil {
			t.Errorf("%s: expected an allocation impact", tc.name)
		} else if rec.Impact.InterestSaved <= 0 {
			t.Errorf("%s: expected positive interest saved, got %.2f", tc.name, rec.Impact.InterestSaved)
		}
	}
}

func TestEvaluate_HighInterestCappedAtBalance(t *testing.T) {

	rec := evaluateOne(t,
		[]domain.Debt{{Name: "saldito", Balance: 500, InterestRate: 18, MinimumPayment: 50}},
		buffer(15000, 7.5, 6, 2000),
	)

	// El excedente es 3000 pero la deuda solo debe 500.
	if rec.SuggestedAmount != 500 {
		t.Errorf("expected amount capped at balance 500.00, got %.2f", rec.SuggestedAmount)
	}
}

func TestEvaluate_BuildBuffer(t *testing.T) {

	rec := evaluateOne(t,
		[]domain.Debt{{Name: "hipoteca", Balance: 90000, InterestRate: 3, MinimumPayment: 600}},
		buffer(8000, 4, 6, 2000),
	)

	if rec.Category != domain.CategoryBuildBuffer || rec.Priority != 3 {
		t.Fatalf("expected build-buffer recommendation, got %+v", rec)
	}
	// Faltan 6*2000-8000 para la meta.
	if rec.SuggestedAmount != 4000 {
		t.Errorf("expected amount 4000.00, got %.2f", rec.SuggestedAmount)
	}
}

func TestEvaluate_RedirectExcess(t *testing.T) {

	rec := evaluateOne(t,
		[]domain.Debt{{Name: "auto", Balance: 5000, InterestRate: 7, MinimumPayment: 200}},
		buffer(14000, 7, 6, 2000),
	)

	if rec.Category != domain.CategoryRedirectExcess || rec.Priority != 4 {
		t.Fatalf("expected redirect-excess recommendation, got %+v", rec)
	}
	if rec.TargetDebt != "auto" || rec.SuggestedAmount != 2000 {
		t.Errorf("expected redirecting 2000.00 to auto, got %.2f to %s", rec.SuggestedAmount, rec.TargetDebt)
	}
	if rec.Status != domain.StatusGood {
		t.Errorf("expected good status, got %s", rec.Status)
	}
}

func TestEvaluate_RedirectExcessFloor(t *testing.T) {

	// Meta apenas cumplida, sin excedente: aun así se sugiere el mínimo.
	rec := evaluateOne(t,
		[]domain.Debt{{Name: "auto", Balance: 5000, InterestRate: 7, MinimumPayment: 200}},
		buffer(12000, 6, 6, 2000),
	)

	if rec.SuggestedAmount != MinRedirectAmount {
		t.Errorf("expected floor amount %.0f, got %.2f", float64(MinRedirectAmount), rec.SuggestedAmount)
	}
}

func TestEvaluate_Balanced(t *testing.T) {

	// Tasa media, colchón incompleto pero sano: no hay caso dominante.
	rec := evaluateOne(t,
		[]domain.Debt{{Name: "auto", Balance: 5000, InterestRate: 7, MinimumPayment: 200}},
		buffer(8000, 4, 6, 2000),
	)

	if rec.Category != domain.CategoryBalanced || rec.Priority != 5 {
		t.Fatalf("expected balanced recommendation, got %+v", rec)
	}
	if rec.SuggestedAmount != 0 || rec.TargetDebt != "" {
		t.Errorf("balanced recommendation must not suggest an action, got %+v", rec)
	}
}

func TestEvaluate_NoDebts(t *testing.T) {

	building := evaluateOne(t, nil, buffer(8000, 4, 6, 2000))
	if building.Category != domain.CategoryBufferOnly || building.Priority != 6 {
		t.Fatalf("expected buffer-only recommendation, got %+v", building)
	}
	if building.Status != domain.StatusInfo || building.SuggestedAmount != 4000 {
		t.Errorf("expected info status with 4000.00 to target, got %+v", building)
	}

	funded := evaluateOne(t, nil, buffer(14000, 7, 6, 2000))
	if funded.Status != domain.StatusGood || funded.SuggestedAmount != 0 {
		t.Errorf("a funded buffer without debts needs no action, got %+v", funded)
	}
}

func TestEvaluate_InvalidBuffer(t *testing.T) {

	service := newTestRecommendationService()

	_, err := service.Evaluate(nil, domain.BufferStatus{TotalBuffer: -1})
	if err == nil {
		t.Errorf("expected an error for a negative buffer total")
	}
	_, err = service.Evaluate(nil, domain.BufferStatus{MonthlyEssential: -1})
	if err == nil {
		t.Errorf("expected an error for negative essential spending")
	}
}
