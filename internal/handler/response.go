package handler

import (
	"encoding/json"
	"net/http"
)

type apiError struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
}

// apiResponse is the envelope every JSON endpoint answers with.
type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Error   *apiError `json:"error,omitempty"`
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	resp := apiResponse{Status: "ok", Message: message, Data: data}
	if status >= 400 {
		resp.Status = "error"
		resp.Error = &apiError{Code: status, Status: http.StatusText(status)}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	respond(w, status, "", payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	respond(w, status, message, nil)
}

func writeErrorWithErr(w http.ResponseWriter, status int, message string, err error) {
	switch {
	case err == nil:
		writeError(w, status, message)
	case message == "":
		writeError(w, status, err.Error())
	default:
		writeError(w, status, message+": "+err.Error())
	}
}
