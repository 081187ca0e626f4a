package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNoCompatibleEndpoint = errors.New("no compatible media endpoint found")
	ErrMissingMRL           = errors.New("missing mrl")
	ErrStationNotFound      = errors.New("station not found")
	ErrNothingPlaying       = errors.New("nothing is playing")
	ErrServerError          = errors.New("server error")
	ErrNetworkError         = errors.New("network error")
	ErrTimeout              = errors.New("request timeout")
	ErrConfigNotFound       = errors.New("config file not found")
	ErrInvalidConfig        = errors.New("invalid configuration")
)

// JukeboxError wraps an error with a user-friendly suggestion.
type JukeboxError struct {
	Err        error
	Suggestion string
}

func (e *JukeboxError) Error() string {
	return e.Err.Error()
}

func (e *JukeboxError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &JukeboxError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var jbErr *JukeboxError
	if errors.As(err, &jbErr) && jbErr.Suggestion != "" {
		return jbErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Endpoint negotiation
	if errors.Is(err, ErrNoCompatibleEndpoint) {
		return "The server does not expose this command. Check 'jukebox version --server'"
	}

	if errors.Is(err, ErrMissingMRL) {
		return "Pass the media location (mrl) of a song, e.g. file:///music/song.mp3"
	}

	if errors.Is(err, ErrStationNotFound) {
		return "Run 'jukebox radio list' to see available stations"
	}

	if errors.Is(err, ErrNothingPlaying) {
		return "Start something with 'jukebox play' or 'jukebox radio play'"
	}

	// Network errors
	if errors.Is(err, ErrNetworkError) || errors.Is(err, ErrTimeout) ||
		strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Check that the jukebox server is running and server.base_url is correct"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Run 'jukebox config init' to create a configuration file"
	}

	// Server errors
	if errors.Is(err, ErrServerError) || strings.Contains(errStr, "(500)") ||
		strings.Contains(errStr, "server error") {
		return "The jukebox server reported an error. Check its logs and try again"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
