package server

import (
	"encoding/json"
	"net/http"

	"github.com/alnah/go-mdpages/internal/session"
)

// stateResponse is the JSON form of a session.State.
type stateResponse struct {
	ID       string `json:"id"`
	Mode     string `json:"mode"`
	HTML     string `json:"html"`
	Error    string `json:"error,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Revision int    `json:"revision"`
}

func newStateResponse(st session.State) stateResponse {
	resp := stateResponse{
		ID:       st.ID,
		Mode:     st.Mode.String(),
		HTML:     st.Display,
		Revision: st.Revision,
	}
	if st.Mode == session.Failed {
		resp.HTML = ""
		resp.Error = st.Detail
		resp.Kind = st.Kind.String()
	}
	return resp
}

type shareResponse struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Ready    bool   `json:"ready"`
	Sessions int    `json:"sessions"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
