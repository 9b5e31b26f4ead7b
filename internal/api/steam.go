package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/nerrad567/rankine-core/internal/cycle"
	"github.com/nerrad567/rankine-core/internal/steam"
)

// steamStateResponse is a state point plus the derived properties the
// cycle snapshot leaves out.
type steamStateResponse struct {
	cycle.StatePoint
	InternalEnergy float64 `json:"internal_energy"` // kJ/kg
	Density        float64 `json:"density"`         // kg/m³
}

// handleSteamState fixes a state from exactly two of the query parameters
// p (MPa), t (K), h (kJ/kg), s (kJ/kgK) and x.
func (s *Server) handleSteamState(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var inputs []steam.Input
	for _, prop := range steam.AllProperties() {
		raw := query.Get(prop.Symbol())
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeBadRequest(w, fmt.Sprintf("%s: %q is not a number", prop.Symbol(), raw))
			return
		}
		inputs = append(inputs, steam.Input{Property: prop, Value: value})
	}
	if len(inputs) != 2 {
		writeBadRequest(w, fmt.Sprintf("exactly two of p, t, h, s, x are required, got %d", len(inputs)))
		return
	}

	st, err := steam.New(inputs[0], inputs[1])
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, steamStateResponse{
		StatePoint:     cycle.NewStatePoint("", st),
		InternalEnergy: st.U(),
		Density:        st.Rho(),
	})
}
