package utils

import (
	"encoding/json"
	"net/http"
)

// Response status strings used by every endpoint: "fail" marks caller
// faults, "error" marks server or upstream faults.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// StatusResponse is the envelope for message-only responses
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DataResponse is the envelope for resource-carrying responses
type DataResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a success envelope with a message
func WriteSuccess(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, StatusResponse{
		Status:  StatusSuccess,
		Message: message,
	})
}

// WriteData writes a success envelope wrapping data
func WriteData(w http.ResponseWriter, status int, data interface{}) error {
	return WriteJSON(w, status, DataResponse{
		Status: StatusSuccess,
		Data:   data,
	})
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteFail writes a "fail" envelope for 4xx caller faults
func WriteFail(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, StatusResponse{
		Status:  StatusFail,
		Message: message,
	})
}

// WriteError writes an "error" envelope for server and upstream faults
func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, StatusResponse{
		Status:  StatusError,
		Message: message,
	})
}

// WriteUnauthorized writes the single 401 body every authentication
// failure collapses to; the rejected reason is never exposed to the
// caller.
func WriteUnauthorized(w http.ResponseWriter) error {
	return WriteFail(w, http.StatusUnauthorized, "unauthorized")
}

// WriteBadRequest writes a 400 Bad Request fail envelope
func WriteBadRequest(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "invalid request"
	}
	return WriteFail(w, http.StatusBadRequest, message)
}

// WriteNotFound writes a 404 Not Found fail envelope
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "resource not found"
	}
	return WriteFail(w, http.StatusNotFound, message)
}

// WriteConflict writes a 409 Conflict fail envelope
func WriteConflict(w http.ResponseWriter, message string) error {
	return WriteFail(w, http.StatusConflict, message)
}

// WriteInternalServerError writes a 500 error envelope
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "internal server error"
	}
	return WriteError(w, http.StatusInternalServerError, message)
}

// WriteBadGateway writes a 502 error envelope for upstream provider faults
func WriteBadGateway(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "upstream provider error"
	}
	return WriteError(w, http.StatusBadGateway, message)
}
