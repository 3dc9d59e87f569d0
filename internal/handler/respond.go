package handler

import (
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/midnight-hello/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg, Code: code})
}
