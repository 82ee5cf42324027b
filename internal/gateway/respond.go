package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/Adi-21/bhidi0xgasless/internal/core"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError maps a transport-level failure to its code and status.
func WriteError(w http.ResponseWriter, err error, fallbackStatus int) {
	info := core.MapError(err, fallbackStatus)
	WriteJSON(w, info.HTTPStatus, core.ToolResult{
		Success: false,
		Error:   &core.ToolError{Code: info.Code, Message: info.Message},
	})
}
