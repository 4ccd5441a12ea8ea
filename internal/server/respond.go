package server

import (
	"encoding/json"
	"net/http"

	"github.com/mooreolith/todo-docker/internal/models"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, result any) {
	writeJSON(w, http.StatusOK, models.OK(result))
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, models.Failure(err))
}
