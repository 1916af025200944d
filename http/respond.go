package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"debt-planner/domain"
)

// validStrategyName es la validación estricta en el borde del API. A nivel
// librería, ParseStrategy convierte nombres desconocidos en avalanche; la
// superficie HTTP en cambio los rechaza, así el default queda como
// comportamiento documentado de librería y no algo alcanzable por la red. Un
// nombre vacío significa "usar el default" y se permite.
func validStrategyName(name string) bool {
	switch name {
	case "", string(domain.StrategyAvalanche), string(domain.StrategySnowball):
		return true
	}
	return false
}

// writeJSON codifica primero en un buffer para que un encode fallido nunca
// escriba un cuerpo parcial después del header.
func writeJSON(w http.ResponseWriter, log *logrus.Logger, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		log.Errorf("error encoding response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warnf("error writing response: %v", err)
	}
}
