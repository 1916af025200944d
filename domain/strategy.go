package domain

// Strategy decide qué deuda recibe el pago extra cada mes.
type Strategy string

const (
	// StrategyAvalanche prioriza la mayor tasa de interés.
	StrategyAvalanche Strategy = "avalanche"
	// StrategySnowball prioriza el menor saldo.
	StrategySnowball Strategy = "snowball"
)

// ParseStrategy mapea un nombre de estrategia a una Strategy. Todo lo que no
// sea "snowball" produce orden avalanche; ese default es deliberado y está
// documentado, los llamadores que quieran validación estricta deben revisar
// el nombre antes de parsear.
func ParseStrategy(name string) Strategy {
	if name == string(StrategySnowball) {
		return StrategySnowball
	}
	return StrategyAvalanche
}
