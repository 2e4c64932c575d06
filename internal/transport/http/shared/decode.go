package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"empdash/internal/platform/requestctx"
	"empdash/internal/transport/http/api"
)

// DecodeJSON parses the request body into dst and writes the error response
// itself on failure. Returns false when the caller should stop.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		requestID := requestctx.GetRequestID(r.Context())
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, api.TypeValidation, "request body too large", requestID)
			return false
		}
		api.Fail(w, http.StatusBadRequest, api.TypeValidation, "invalid request payload", requestID)
		return false
	}
	return true
}
