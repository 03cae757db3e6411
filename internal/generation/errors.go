package generation

import (
	"errors"
	"fmt"
)

const (
	msgFallback  = "Failed to generate world. Please try again."
	msgMalformed = "The generation service returned an incomplete world. Please try again."
	msgTransport = "Could not reach the generation service. Please try again."
)

// ServiceError is a non-success answer from the generation endpoint.
type ServiceError struct {
	Code   int
	Detail string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("generation: service error %d: %s", e.Code, e.Detail)
}

// MalformedResponse is a success answer whose body is not a valid world.
type MalformedResponse struct {
	Err error
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("generation: malformed response: %v", e.Err)
}

func (e *MalformedResponse) Unwrap() error { return e.Err }

// TransportError means the request never produced an answer.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("generation: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage returns the text shown to the user for a failed generation.
func UserMessage(err error) string {
	var svc *ServiceError
	var bad *MalformedResponse
	var tr *TransportError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &svc):
		if svc.Detail != "" {
			return svc.Detail
		}
		return msgFallback
	case errors.As(err, &bad):
		return msgMalformed
	case errors.As(err, &tr):
		return msgTransport
	default:
		return msgFallback
	}
}
