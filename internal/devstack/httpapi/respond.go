package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/client/validate"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.MessageResponse{Message: msg})
}

// writeError answers with the shared error envelope. Validation failures
// become the numbered errors list, anything else a single message.
func writeError(w http.ResponseWriter, status int, err error, msg string) {
	var verrs validate.Errors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		body := api.ErrorBody{Errors: make([]api.ErrorItem, len(verrs))}
		for i, m := range verrs {
			body.Errors[i] = api.ErrorItem{Msg: m}
		}
		writeJSON(w, http.StatusBadRequest, body)
		return
	}
	writeJSON(w, status, api.ErrorBody{Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err, "Malformed request body.")
		return false
	}
	return true
}
