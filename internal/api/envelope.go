package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the wire version of the response envelope.
// Bump only when the envelope structure itself changes.
const EnvelopeVersion = 1

// APIEnvelope wraps every response body in a versioned envelope.
// Success responses carry data; simple errors carry an error string.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope is the envelope for errors that carry a machine
// readable code and optional details.
type APIErrorEnvelope struct { //nolint:revive
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps all response bodies in the API envelope.
// Registered as a huma transformer so handlers return plain bodies.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch t := v.(type) {
	case *APIError:
		if t.Code != "" || t.Details != nil {
			return APIErrorEnvelope{
				Version: EnvelopeVersion,
				Success: false,
				Code:    t.Code,
				Message: t.Message,
				Details: t.Details,
			}, nil
		}
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   t.Message,
		}, nil

	case error:
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   t.Error(),
		}, nil
	}

	success := !strings.HasPrefix(status, "4") && !strings.HasPrefix(status, "5")
	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: success,
		Data:    v,
	}, nil
}
