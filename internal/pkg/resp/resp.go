/*
Package resp provides helper functions for constructing and sending HTTP JSON responses.

The auth surface speaks a fixed wire shape that existing clients depend on:
every body carries a "status" field ("success" or "error"), errors carry a
"message", and success bodies merge in handler-supplied fields.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"github.com/kurenai-11/socket-chat-app/internal/pkg/errs"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/logx"
)

// RespondJSON sets the Content-Type and sends the JSON payload with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "Error encoding JSON response", "http_status", httpStatus)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondSuccess sends an HTTP 200 response with status "success" merged into
// the handler-supplied fields.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data map[string]any) {
	body := map[string]any{"status": "success"}
	for k, v := range data {
		body[k] = v
	}

	RespondJSON(w, r, http.StatusOK, body)
}

// RespondError sends the error's HTTP status with a {"status":"error","message":...} body.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	body := map[string]any{
		"status":  "error",
		"message": customErr.Message,
	}
	RespondJSON(w, r, customErr.Status, body)
}
