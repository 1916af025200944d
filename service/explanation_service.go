package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"debt-planner/domain"
)

// ExplanationService convierte los resultados estructurados del motor en
// texto legible para las respuestas del API. Con una llave de OpenAI
// configurada consulta al modelo; si no, usa plantillas deterministas. Los
// servicios de cálculo nunca dependen de él: las explicaciones se adjuntan en
// la capa HTTP.
type ExplanationService struct {
	apiKey     string
	apiURL     string
	enabled    bool
	httpClient *http.Client
	log        *logrus.Logger
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []promptMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type promptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message promptMessage `json:"message"`
	} `json:"choices"`
}

func NewExplanationService(log *logrus.Logger) *ExplanationService {
	apiKey := os.Getenv("OPENAI_API_KEY")

	return &ExplanationService{
		apiKey:  apiKey,
		apiURL:  "https://api.openai.com/v1/chat/completions",
		enabled: apiKey != "",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ExplainSchedule genera una explicación del plan de pago proyectado.
func (s *ExplanationService) ExplainSchedule(
	schedule domain.Schedule,
	comparison *domain.StrategyComparison,
) string {
	if !s.enabled {
		return s.fallbackScheduleExplanation(schedule)
	}

	strategyName := "Avalanche (Avalancha): prioriza la deuda con mayor tasa de interés"
	if schedule.Strategy == domain.StrategySnowball {
		strategyName = "Snowball (Bola de Nieve): prioriza la deuda con menor saldo"
	}

	comparisonText := ""
	if comparison != nil {
		comparisonText = fmt.Sprintf(`
COMPARACIÓN DE ESTRATEGIAS:
- Snowball: $%.2f en intereses, %d meses
- Avalanche: $%.2f en intereses, %d meses
- Ahorro con la recomendada (%s): $%.2f y %d meses menos`,
			comparison.Snowball.TotalInterestPaid, comparison.Snowball.MonthsToPayoff,
			comparison.Avalanche.TotalInterestPaid, comparison.Avalanche.MonthsToPayoff,
			comparison.Recommended,
			comparison.Savings.InterestSaved, comparison.Savings.MonthsSaved)
	}

	capText := ""
	if !schedule.DebtFree {
		capText = "\nOJO: con los pagos actuales la deuda NO se termina de pagar dentro del horizonte simulado."
	}

	prompt := fmt.Sprintf(`Analiza este plan de salida de deudas de un hogar y genera una explicación clara y motivacional.

ESTRATEGIA: %s

RESUMEN:
- Deuda inicial total: $%.2f
- Total de intereses proyectados: $%.2f
- Meses hasta quedar libre de deudas: %d (%.1f años)%s
%s

INSTRUCCIONES:
1. Explica cómo funciona la estrategia elegida y el efecto bola de nieve (el mínimo de cada deuda saldada pasa a la siguiente).
2. Sé específico con los números y tiempos.
3. Si hay comparación de estrategias, explica la diferencia.
4. Da un consejo práctico para mantener el plan.

Genera una explicación de 3-4 oraciones, fácil de entender.`,
		strategyName,
		schedule.OriginalTotal, schedule.TotalInterest,
		schedule.TotalMonths, float64(schedule.TotalMonths)/12.0,
		capText, comparisonText)

	explanation, err := s.callLLM(prompt)
	if err != nil {
		s.log.Warnf("explanation request failed, using fallback: %v", err)
		return s.fallbackScheduleExplanation(schedule)
	}
	return explanation
}

// ExplainRecommendation genera el texto para una recomendación estructurada.
func (s *ExplanationService) ExplainRecommendation(rec domain.Recommendation) string {
	// Las recomendaciones se explican siempre con plantillas deterministas:
	// el texto debe reflejar exactamente la categoría y los montos calculados.
	switch rec.Category {
	case domain.CategoryCriticalBuffer:
		return fmt.Sprintf("Tu colchón de seguridad está por debajo del mínimo. Antes de cualquier pago extra de deuda, repón $%.2f.", rec.SuggestedAmount)
	case domain.CategoryHighInterest:
		text := fmt.Sprintf("Tienes deuda cara (%s al %.2f%%). Un pago único de $%.2f la aceleraría", rec.TargetDebt, rec.Params["interest_rate"], rec.SuggestedAmount)
		if rec.Impact != nil {
			text += fmt.Sprintf(": %d meses menos y $%.2f de intereses ahorrados", rec.Impact.MonthsSaved, rec.Impact.InterestSaved)
		}
		return text + "."
	case domain.CategoryBuildBuffer:
		return fmt.Sprintf("Tu deuda es barata y el colchón aún no llega a la meta (%.1f de %.1f meses). Sigue aportando al colchón; faltan $%.2f.", rec.Params["buffer_months"], rec.Params["target_months"], rec.SuggestedAmount)
	case domain.CategoryRedirectExcess:
		return fmt.Sprintf("El colchón ya cumplió su meta. Puedes redirigir $%.2f del excedente a %s.", rec.SuggestedAmount, rec.TargetDebt)
	case domain.CategoryBufferOnly:
		if rec.SuggestedAmount > 0 {
			return fmt.Sprintf("No tienes deudas. Sigue construyendo el colchón; faltan $%.2f para la meta.", rec.SuggestedAmount)
		}
		return "No tienes deudas y el colchón está completo. Mantenlo."
	default:
		return "Situación equilibrada: ni la deuda ni el colchón dominan. Mantén los pagos y aportes actuales."
	}
}

func (s *ExplanationService) fallbackScheduleExplanation(schedule domain.Schedule) string {
	strategyName := "Avalanche (Avalancha)"
	tip := "pagar primero la deuda más cara minimiza el total de intereses."
	if schedule.Strategy == domain.StrategySnowball {
		strategyName = "Snowball (Bola de Nieve)"
		tip = "saldar primero las deudas pequeñas mantiene la motivación con victorias rápidas."
	}

	if !schedule.DebtFree {
		return fmt.Sprintf("Con los pagos actuales y la estrategia %s, la deuda no se termina de pagar dentro del horizonte simulado: los pagos apenas cubren los intereses. Aumentar el pago mensual es la única salida.", strategyName)
	}

	return fmt.Sprintf("Con la estrategia %s pagarás $%.2f en intereses y quedarás libre de deudas en %d meses (%.1f años); %s",
		strategyName, schedule.TotalInterest, schedule.TotalMonths,
		float64(schedule.TotalMonths)/12.0, tip)
}

func (s *ExplanationService) callLLM(prompt string) (string, error) {
	reqBody := openAIRequest{
		Model: "gpt-4o-mini",
		Messages: []promptMessage{
			{
				Role:    "system",
				Content: "Eres un asesor financiero doméstico experto en planes de salida de deudas. Explicas en español, con claridad y sin jerga, los resultados de simulaciones de pago: estrategias snowball y avalanche, intereses proyectados y recomendaciones de ahorro. Eres motivacional pero realista y siempre específico con los números.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
