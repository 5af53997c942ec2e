package provider

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Match with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownCompetition = fmt.Errorf("%w: unknown competition", ErrInvalidInput)
	ErrUnknownSeason      = fmt.Errorf("%w: unknown season", ErrInvalidInput)

	ErrFetch = errors.New("fetch failed")
	ErrParse = errors.New("unexpected page structure")
)

// InvalidInputError reports a league or season value outside the legal set.
// Valid holds every accepted value so callers can print them.
type InvalidInputError struct {
	Err   error
	Value string
	Valid []string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%v %q (valid: %s)", e.Err, e.Value, strings.Join(e.Valid, ", "))
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// FetchError reports a failed GET. StatusCode is 0 for transport errors.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetch}
	}
	return []error{ErrFetch, e.Err}
}

// ParseError reports a list page missing a structural element it must have.
type ParseError struct {
	URL     string
	Element string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s not found", e.URL, e.Element)
}

func (e *ParseError) Unwrap() error { return ErrParse }
