package http

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"debt-planner/domain"
	"debt-planner/service"
)

type RecommendationHandler struct {
	recommendations *service.RecommendationService
	explanations    *service.ExplanationService
	log             *logrus.Logger
}

func NewRecommendationHandler(
	recommendations *service.RecommendationService,
	explanations *service.ExplanationService,
	log *logrus.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		explanations:    explanations,
		log:             log,
	}
}

type recommendationRequest struct {
	Debts  []domain.Debt       `json:"debts"`
	Buffer domain.BufferStatus `json:"buffer"`
}

type explainedRecommendation struct {
	domain.Recommendation
	Explanation string `json:"explanation"`
}

type recommendationResponse struct {
	Recommendations []explainedRecommendation `json:"recommendations"`
}

// Evaluate clasifica la situación del hogar y devuelve las recomendaciones
// que aplican con sus textos compuestos.
func (h *RecommendationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("error decoding recommendation request: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	recommendations, err := h.recommendations.Evaluate(req.Debts, req.Buffer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	explained := make([]explainedRecommendation, 0, len(recommendations))
	for _, rec := range recommendations {
		explained = append(explained, explainedRecommendation{
			Recommendation: rec,
			Explanation:    h.explanations.ExplainRecommendation(rec),
		})
	}

	writeJSON(w, h.log, http.StatusOK, recommendationResponse{Recommendations: explained})
}
