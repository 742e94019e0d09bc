package shopapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is returned for any non-2xx response from the shop API.
type StatusError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("shop api: %d %s", e.StatusCode, e.Message)
}

// newStatusError extracts the remote "message" field, which is either a string
// or a list of validation messages.
func newStatusError(code int, body []byte) *StatusError {
	e := &StatusError{StatusCode: code, Body: body, Message: http.StatusText(code)}
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if json.Unmarshal(body, &payload) != nil || len(payload.Message) == 0 {
		return e
	}
	var one string
	if json.Unmarshal(payload.Message, &one) == nil && one != "" {
		e.Message = one
		return e
	}
	var many []string
	if json.Unmarshal(payload.Message, &many) == nil && len(many) > 0 {
		e.Message = strings.Join(many, "; ")
	}
	return e
}
