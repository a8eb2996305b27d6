package service

import "strings"

// ValidationError aggregates user-correctable field errors so the API
// layer can return every message in a single response.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}
