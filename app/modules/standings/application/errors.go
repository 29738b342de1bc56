package standingsservice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotLoaded is returned by reads before the first successful load.
	ErrNotLoaded = errors.New("standings not loaded")
	// ErrPlayerNotFound is the sentinel wrapped by PlayerNotFoundError.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrUnknownChart is returned for a chart kind that is not rendered.
	ErrUnknownChart = errors.New("unknown chart")
)

// PlayerNotFoundError is returned when a detail lookup names no player in the
// current snapshot. Suggestions holds the closest names, best first.
type PlayerNotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *PlayerNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("player %q not found", e.Name)
	}
	return fmt.Sprintf("player %q not found; did you mean %s?", e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *PlayerNotFoundError) Unwrap() error {
	return ErrPlayerNotFound
}
