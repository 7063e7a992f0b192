package graph

import (
	"errors"
	"fmt"
)

// Kind classifies why a network description was rejected.
type Kind int

const (
	EmptyInput Kind = iota + 1
	MalformedHeader
	MissingRow
	EmptyRow
	RowWidthMismatch
	// InvalidWeight is only produced when WithStrictWeights is set.
	InvalidWeight
)

func (k Kind) String() string {
	switch k {
	case EmptyInput:
		return "empty input"
	case MalformedHeader:
		return "malformed header"
	case MissingRow:
		return "missing row"
	case EmptyRow:
		return "empty row"
	case RowWidthMismatch:
		return "row width mismatch"
	case InvalidWeight:
		return "invalid weight"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels matched by errors.Is against a *LoadError of the same Kind.
var (
	ErrEmptyInput       = errors.New("graph: empty input")
	ErrMalformedHeader  = errors.New("graph: malformed header")
	ErrMissingRow       = errors.New("graph: missing row")
	ErrEmptyRow         = errors.New("graph: empty row")
	ErrRowWidthMismatch = errors.New("graph: row width mismatch")
	ErrInvalidWeight    = errors.New("graph: invalid weight")
)

var sentinels = map[Kind]error{
	EmptyInput:       ErrEmptyInput,
	MalformedHeader:  ErrMalformedHeader,
	MissingRow:       ErrMissingRow,
	EmptyRow:         ErrEmptyRow,
	RowWidthMismatch: ErrRowWidthMismatch,
	InvalidWeight:    ErrInvalidWeight,
}

// LoadError describes a rejected network description. Row is the 1-based line
// number in the input (the header is line 1); it is 0 when not applicable.
type LoadError struct {
	Kind     Kind
	Row      int
	Column   int
	Expected int
	Actual   int
	Value    string
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case EmptyInput:
		return "graph: network description is empty"
	case MalformedHeader:
		return fmt.Sprintf("graph: header needs at least 2 fields, got %d", e.Actual)
	case MissingRow:
		return fmt.Sprintf("graph: row %d is missing, expected %d station rows", e.Row, e.Expected)
	case EmptyRow:
		return fmt.Sprintf("graph: row %d is empty", e.Row)
	case RowWidthMismatch:
		return fmt.Sprintf("graph: row %d: expected %d values, got %d", e.Row, e.Expected, e.Actual)
	case InvalidWeight:
		return fmt.Sprintf("graph: row %d column %d: invalid weight %q", e.Row, e.Column, e.Value)
	}
	return "graph: " + e.Kind.String()
}

// Is makes errors.Is(err, ErrRowWidthMismatch) and friends work.
func (e *LoadError) Is(target error) bool {
	return sentinels[e.Kind] == target
}
