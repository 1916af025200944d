package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"debt-planner/config"
	"debt-planner/domain"
	"debt-planner/repository"
	"debt-planner/service"
)

func testScenarioService() *service.ScenarioService {
	schedules := service.NewScheduleService(repository.NewMockCache(), testLogger())
	return service.NewScenarioService(schedules)
}

func TestCompareAllocationHandler(t *testing.T) {

	handler := NewScenarioHandler(testScenarioService(), testLogger())

	req := jsonRequest(http.MethodPost, "/scenario/allocation", map[string]any{
		"debts": []map[string]any{
			{"name": "visa", "balance": 10000, "interest_rate": 12, "minimum_payment": 500},
		},
		"amount":      5000,
		"target_debt": "visa",
		"strategy":    "avalanche",
	})
	rec := httptest.NewRecorder()
	handler.CompareAllocation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result domain.AllocationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("error decoding result: %v", err)
	}
	if result.Debt == nil || result.Debt.InterestSaved <= 0 {
		t.Errorf("expected a debt impact with interest saved, got %+v", result)
	}
}

func TestCompareAllocationHandler_BufferTarget(t *testing.T) {

	handler := NewScenarioHandler(testScenarioService(), testLogger())

	req := jsonRequest(http.MethodPost, "/scenario/allocation", map[string]any{
		"amount":      3000,
		"target_debt": "buffer",
		"buffer":      map[string]any{"total_buffer": 1500, "monthly_essential": 1500},
	})
	rec := httptest.NewRecorder()
	handler.CompareAllocation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result domain.AllocationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("error decoding result: %v", err)
	}
	if result.Buffer == nil || result.Buffer.DaysOfSecurityAdded != 60 {
		t.Errorf("expected 60 days of security added, got %+v", result)
	}
}

func TestCompareAllocationHandler_UnknownDebt(t *testing.T) {

	handler := NewScenarioHandler(testScenarioService(), testLogger())

	req := jsonRequest(http.MethodPost, "/scenario/allocation", map[string]any{
		"debts": []map[string]any{
			{"name": "visa", "balance": 10000, "interest_rate": 12, "minimum_payment": 500},
		},
		"amount":      1000,
		"target_debt": "amex",
	})
	rec := httptest.NewRecorder()
	handler.CompareAllocation(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestCompareAllocationHandler_InvalidAmount(t *testing.T) {

	handler := NewScenarioHandler(testScenarioService(), testLogger())

	req := jsonRequest(http.MethodPost, "/scenario/allocation", map[string]any{
		"amount":      0,
		"target_debt": "visa",
	})
	rec := httptest.NewRecorder()
	handler.CompareAllocation(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func testRecommendationHandler() *RecommendationHandler {
	log := testLogger()
	cfg := &config.Config{
		HighInterestThreshold: 10,
		LowInterestThreshold:  5,
		BufferCriticalMin:     5000,
	}
	recommendations := service.NewRecommendationService(testScenarioService(), cfg, log)
	return NewRecommendationHandler(recommendations, service.NewExplanationService(log), log)
}

func TestEvaluateRecommendationsHandler(t *testing.T) {

	handler := testRecommendationHandler()

	req := jsonRequest(http.MethodPost, "/recommendations", map[string]any{
		"debts": []map[string]any{
			{"name": "tarjeta", "balance": 8000, "interest_rate": 18, "minimum_payment": 200},
		},
		"buffer": map[string]any{
			"total_buffer":      12000,
			"monthly_essential": 2000,
			"layer2":            map[string]any{"months": 4, "target_months": 6},
		},
	})
	rec := httptest.NewRecorder()
	handler.Evaluate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp recommendationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(resp.Recommendations) != 1 {
		t.Fatalf("expected one recommendation, got %d", len(resp.Recommendations))
	}
	first := resp.Recommendations[0]
	if first.Category != domain.CategoryHighInterest || first.TargetDebt != "tarjeta" {
		t.Errorf("expected a high-interest recommendation for tarjeta, got %+v", first)
	}
	if first.Explanation == "" {
		t.Errorf("expected a non-empty explanation")
	}
}

func TestEvaluateRecommendationsHandler_InvalidJSON(t *testing.T) {

	handler := testRecommendationHandler()

	req := httptest.NewRequest(http.MethodPost, "/recommendations", bytes.NewReader([]byte("{invalid")))
	rec := httptest.NewRecorder()
	handler.Evaluate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
