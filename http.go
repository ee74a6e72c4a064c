package buttons

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

type buttonState struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Pin     string `json:"pin"`
	Enabled bool   `json:"enabled"`
	Pressed bool   `json:"pressed"`
}

type apiError struct {
	Error string `json:"error"`
}

// apiHandler serves the button API for one Controller.
type apiHandler struct {
	c *Controller
}

// NewHandler returns an http.Handler exposing c:
//
//	GET  /api/buttons         every button with its current state
//	GET  /api/buttons/{name}  one button, by name or label
//	GET  /api/registry        names of the disabled buttons
//	POST /api/reload          reload the registry from the store
func NewHandler(c *Controller) http.Handler {
	h := &apiHandler{c: c}
	r := mux.NewRouter()
	r.HandleFunc("/api/buttons", h.apiButtons).Methods("GET")
	r.HandleFunc("/api/buttons/{name}", h.apiButton).Methods("GET")
	r.HandleFunc("/api/registry", h.apiRegistry).Methods("GET")
	r.HandleFunc("/api/reload", h.apiReload).Methods("POST")
	return r
}

func (h *apiHandler) state(id ButtonID, reg Registry) buttonState {
	return buttonState{
		Name:    id.String(),
		Label:   id.Label(),
		Pin:     h.c.pins[id].String(),
		Enabled: reg.Enabled(id),
		Pressed: h.c.pressedIn(&reg, id),
	}
}

func (h *apiHandler) apiButtons(w http.ResponseWriter, r *http.Request) {
	reg := h.c.Registry()
	out := make([]buttonState, 0, NumButtons)
	for _, id := range AllButtons() {
		out = append(out, h.state(id, reg))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *apiHandler) apiButton(w http.ResponseWriter, r *http.Request) {
	id, err := ParseButtonID(mux.Vars(r)["name"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.state(id, h.c.Registry()))
}

func (h *apiHandler) apiRegistry(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, disabledNames(h.c.Registry()))
}

func (h *apiHandler) apiReload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, disabledNames(h.c.Reload()))
}

func disabledNames(reg Registry) map[string][]string {
	names := []string{}
	for _, id := range reg.Disabled() {
		names = append(names, id.String())
	}
	return map[string][]string{"disabled": names}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
