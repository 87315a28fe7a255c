package handlers

import (
	"encoding/json"
	"net/http"

	dto "github.com/turtacn/PatentBot-AI/pkg/types/priorart"
)

// maxBodyBytes bounds request bodies; search requests are small.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes the minimal {"error": msg} body.
func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, dto.ErrorResponse{Error: msg})
}

// decodeJSON decodes a bounded request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errEmptyBody
	}
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

type handlerError string

func (e handlerError) Error() string { return string(e) }

const errEmptyBody handlerError = "empty request body"
