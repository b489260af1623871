package apiclient

import (
	"bytes"
	"encoding/json"
)

// envelope is the {success, message, data} wrapper most endpoints use. The
// pointers distinguish "absent" from zero values, since some endpoints
// answer with bare objects or arrays instead.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// parseEnvelope reads body as an envelope. ok is false when body is not a
// JSON object (arrays, empty bodies, HTML error pages).
func parseEnvelope(body []byte) (env envelope, ok bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return envelope{}, false
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return envelope{}, false
	}
	return env, true
}

// message returns whichever message field the server filled in.
func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// rejected reports an explicit success:false.
func (e envelope) rejected() bool {
	return e.Success != nil && !*e.Success
}
