// statbank/errors.go
package statbank

import "errors"

var (
	// ErrUpstreamUnavailable means the statistics API could not be reached or
	// answered with a non-success status.
	ErrUpstreamUnavailable = errors.New("statbank: upstream unavailable")

	// ErrMalformedResponse means the API answered but the body does not have
	// the expected shape.
	ErrMalformedResponse = errors.New("statbank: malformed response")
)

// Kind names the error class of err for API responses and the query log.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	default:
		return "internal"
	}
}
