package domain

// BufferLayer1 es la capa operativa del colchón de efectivo (vivir un mes
// adelantado a los gastos).
type BufferLayer1 struct {
	Amount       float64 `json:"amount"`
	Percentage   float64 `json:"percentage"`
	IsMonthAhead bool    `json:"is_month_ahead"`
}

// BufferLayer2 es la capa de emergencia, medida en meses de gasto esencial.
type BufferLayer2 struct {
	Amount       float64 `json:"amount"`
	Months       float64 `json:"months"`
	TargetMonths float64 `json:"target_months"`
}

// BufferStatus es la foto de seguridad que entrega el presupuesto externo.
// El motor nunca la calcula, solo la lee.
type BufferStatus struct {
	Layer1           BufferLayer1 `json:"layer1"`
	Layer2           BufferLayer2 `json:"layer2"`
	TotalBuffer      float64      `json:"total_buffer"`
	MonthlyEssential float64      `json:"monthly_essential"`
	Status           string       `json:"status"`
}
