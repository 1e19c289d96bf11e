// Package errors defines the error types returned by the V2EX client.
//
// The client deliberately keeps a small taxonomy: ConfigError for
// construction problems and RequestError for everything that can go wrong
// during a call (request building, transport, response decoding). A response
// whose body decodes but reports success=false is not an error; callers
// inspect the embedded status instead.
package errors

import "fmt"

// ConfigError indicates a problem with the client configuration.
type ConfigError struct {
	// Field contains the name of the configuration field that caused the error
	Field string
	// Message contains the detailed error message
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// RequestError indicates an API call failed before a well-formed response
// could be decoded. It covers request construction, transport failures, and
// non-decodable response bodies alike; the underlying cause is in Err.
type RequestError struct {
	// Operation is the name of the API operation that failed
	Operation string
	// URL is the URL that was being accessed, if one was built
	URL string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *RequestError) Error() string {
	msg := "request error"
	if e.Operation != "" {
		msg = fmt.Sprintf("request error during %s", e.Operation)
	}
	if e.URL != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.URL)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
