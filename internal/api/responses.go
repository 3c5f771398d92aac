package api

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/linkvault/internal/catalog"
	"github.com/MrSnakeDoc/linkvault/internal/errs"
)

type readResponse struct {
	Status        string           `json:"status"`
	Data          catalog.Rankings `json:"data"`
	Total         int              `json:"total"`
	OriginalTotal int              `json:"originalTotal"`
	RemovedCount  int              `json:"removedCount"`
	Timestamp     int64            `json:"timestamp"`
	Message       string           `json:"message,omitempty"`
	Error         string           `json:"error,omitempty"`
}

type saveResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Added      int    `json:"added"`
	Duplicates int    `json:"duplicates"`
	Total      int    `json:"total"`
	IsNewFile  bool   `json:"isNewFile"`
}

type reportResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorBody struct {
	Status string            `json:"status"`
	Error  string            `json:"error"`
	Code   errs.Code         `json:"code,omitempty"`
	Env    map[string]string `json:"env,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, e *errs.Error) {
	writeJSON(w, e.Status(), errorBody{Status: "error", Error: e.Error(), Code: e.Code})
}
