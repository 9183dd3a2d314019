package errors

import (
	"encoding/json"
	"strings"
)

// ServerBody is the error body the marketplace backend returns with non-2xx
// responses. Only the message is required; status mirrors the HTTP code.
type ServerBody struct {
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
}

// ParseServerMessage extracts the message from an error response body.
// It returns "" when the body is empty, not JSON, or carries no message.
func ParseServerMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var sb ServerBody
	if err := json.Unmarshal(body, &sb); err != nil {
		return ""
	}
	return strings.TrimSpace(sb.Message)
}
