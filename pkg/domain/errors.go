package domain

import (
	"errors"
	"fmt"
)

// ErrConfigLoad is returned when the policy configuration cannot be read or is invalid.
var ErrConfigLoad = errors.New("config load failed")

// ErrDomainLoad is returned when the domain definition cannot be read or is invalid.
var ErrDomainLoad = errors.New("domain load failed")

// ErrStoryResolution is returned when the stories source cannot be resolved or parsed.
var ErrStoryResolution = errors.New("story resolution failed")

// ErrNLULoad is returned when NLU training data cannot be read or is invalid.
var ErrNLULoad = errors.New("nlu data load failed")

// ErrVisualization is returned when the graph cannot be built or written.
var ErrVisualization = errors.New("visualization failed")

// ParseError points at the offending line of a story or NLU file.
type ParseError struct {
	File   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
}
