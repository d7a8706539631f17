package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error envelope: {"error": {"code": 400, "message": "EMAIL_EXISTS"}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: status, Message: code}})
}
