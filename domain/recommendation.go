package domain

// Categorías de recomendación, mutuamente excluyentes y evaluadas en orden de
// prioridad por el motor de recomendaciones.
const (
	CategoryCriticalBuffer = "critical_buffer"
	CategoryHighInterest   = "high_interest_debt"
	CategoryBuildBuffer    = "build_buffer"
	CategoryRedirectExcess = "redirect_excess"
	CategoryBalanced       = "balanced"
	CategoryBufferOnly     = "buffer_only"
)

// Severidades del estado de una recomendación.
const (
	StatusCritical = "critical"
	StatusWarning  = "warning"
	StatusInfo     = "info"
	StatusGood     = "good"
)

// Recommendation es una sugerencia estructurada, sin mensaje. Componer el
// texto para el usuario a partir de Params es tarea de la capa de
// presentación.
type Recommendation struct {
	Priority        int                `json:"priority"`
	Category        string             `json:"category"`
	Status          string             `json:"status"`
	TargetDebt      string             `json:"target_debt,omitempty"`
	SuggestedAmount float64            `json:"suggested_amount,omitempty"`
	Impact          *AllocationImpact  `json:"impact,omitempty"`
	Params          map[string]float64 `json:"params,omitempty"`
}
