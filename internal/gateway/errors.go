package gateway

import (
	"fmt"
)

// GatewayError is a non-2xx response from the Evolution API. The gateway
// does not disambiguate conflicts from other failures, so callers get the
// status code and raw body to report.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError is a network-level failure (timeout, DNS, connection
// refused) before any gateway response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
