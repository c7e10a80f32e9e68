package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/orgnest/orgnest/modules/org/domain/office"
	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/modules/org/services"
	"github.com/orgnest/orgnest/pkg/composables"
)

type apiError struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAPIError(w http.ResponseWriter, status int, requestID, code, message string) {
	writeJSON(w, status, apiError{RequestID: requestID, Code: code, Message: message})
}

// writeServiceError translates the typed service failures into API
// payloads. Unknown errors become opaque 500s.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := composables.UseRequestID(r.Context())

	var se services.StatusError
	if errors.As(err, &se) {
		message := se.Error()
		if se.HTTPStatus() >= http.StatusInternalServerError {
			composables.UseLogger(r.Context()).WithError(err).Error("org api internal error")
			message = "internal error"
		}
		writeAPIError(w, se.HTTPStatus(), requestID, se.ErrorCode(), message)
		return
	}

	composables.UseLogger(r.Context()).WithError(err).Error("org api internal error")
	writeAPIError(w, http.StatusInternalServerError, requestID, "ORG_INTERNAL", "internal error")
}

// requireOfficer resolves the acting officer from the auth middleware's
// user id. Anonymous requests are rejected before any service call.
func requireOfficer(w http.ResponseWriter, r *http.Request) (office.Officer, bool) {
	userID, err := composables.UseUserID(r.Context())
	if err != nil {
		requestID := composables.UseRequestID(r.Context())
		writeAPIError(w, http.StatusUnauthorized, requestID, "ORG_UNAUTHENTICATED", "authentication required")
		return office.Officer{}, false
	}
	return office.OfficerFromUser(userID), true
}

// unitRefFromPath parses the {idOrCode} path segment: digits mean id,
// anything else a code.
func unitRefFromPath(raw string) unit.Ref {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return unit.RefID(id)
	}
	return unit.RefCode(raw)
}
