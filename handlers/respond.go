package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"threadloom.com/threadloom-backend/pkg/logger"
	"threadloom.com/threadloom-backend/social"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a service error kind onto a status code and emits the
// {"error": ...} body the frontend expects. A partial two-record write is
// flagged so the client re-checks state instead of re-toggling.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch social.KindOf(err) {
	case social.KindNotFound:
		status = http.StatusNotFound
	case social.KindInvalidArgument:
		status = http.StatusBadRequest
	case social.KindUnauthorized:
		status = http.StatusUnauthorized
	case social.KindConflict:
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Get().Error("request failed", zap.Error(err))
	}

	msg := err.Error()
	var e *social.Error
	if errors.As(err, &e) {
		msg = e.Message
	}

	body := map[string]interface{}{"error": msg}
	if social.IsPartial(err) {
		body["partial"] = true
	}
	writeJSON(w, status, body)
}
