package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrEmptyPath    = errors.New("model: successful result needs at least one station")
	ErrNegativeCost = errors.New("model: travel time cannot be negative")
	ErrEmptyMessage = errors.New("model: failure message cannot be empty")
)

// PathResult is the outcome of one route query: either a route with its total
// travel time in minutes, or a failure message. The zero value is invalid;
// build one with Success or Failure.
type PathResult struct {
	path []string
	cost int
	msg  string
}

// Success builds a route result. The path is copied.
func Success(path []string, cost int) (PathResult, error) {
	if len(path) == 0 {
		return PathResult{}, ErrEmptyPath
	}
	if cost < 0 {
		return PathResult{}, ErrNegativeCost
	}
	return PathResult{path: slices.Clone(path), cost: cost}, nil
}

// Failure builds a failed result carrying msg verbatim.
func Failure(msg string) (PathResult, error) {
	if strings.TrimSpace(msg) == "" {
		return PathResult{}, ErrEmptyMessage
	}
	return PathResult{msg: msg}, nil
}

// MustSuccess is Success for callers that already hold a valid path.
func MustSuccess(path []string, cost int) PathResult {
	r, err := Success(path, cost)
	if err != nil {
		panic(err)
	}
	return r
}

// MustFailure is Failure for callers with a constant, non-empty message.
func MustFailure(msg string) PathResult {
	r, err := Failure(msg)
	if err != nil {
		panic(err)
	}
	return r
}

// Valid reports whether r was produced by Success or Failure.
func (r PathResult) Valid() bool {
	return len(r.path) > 0 || r.msg != ""
}

func (r PathResult) OK() bool { return r.msg == "" && len(r.path) > 0 }

// Err returns the failure message, or "" for a successful route.
func (r PathResult) Err() string { return r.msg }

// Path returns a copy of the stations from start to end. Failures yield an
// empty, non-nil slice.
func (r PathResult) Path() []string {
	if !r.OK() {
		return []string{}
	}
	return slices.Clone(r.path)
}

// Cost is the total travel time in minutes; 0 for failures.
func (r PathResult) Cost() int { return r.cost }

func (r PathResult) StationCount() int {
	if !r.OK() {
		return 0
	}
	return len(r.path)
}

func (r PathResult) Start() string {
	if !r.OK() {
		return ""
	}
	return r.path[0]
}

func (r PathResult) End() string {
	if !r.OK() {
		return ""
	}
	return r.path[len(r.path)-1]
}

// Format renders the multi-line report shown to riders. A failure renders as
// its message alone.
func (r PathResult) Format() string {
	if !r.OK() {
		return r.msg
	}

	var b strings.Builder
	b.WriteString("Path found!\n")
	fmt.Fprintf(&b, "Total time: %d minutes\n", r.cost)
	fmt.Fprintf(&b, "Number of stations: %d\n", len(r.path))
	b.WriteString("Route:\n")
	for i, name := range r.path {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, name)
	}
	return b.String()
}

// Short is the one-line form "start → end (N min, K stations)".
func (r PathResult) Short() string {
	if !r.OK() {
		return "path search error"
	}
	return fmt.Sprintf("%s → %s (%d min, %d stations)", r.Start(), r.End(), r.cost, len(r.path))
}

func (r PathResult) String() string {
	if !r.OK() {
		return fmt.Sprintf("PathResult{error=%q}", r.msg)
	}
	return fmt.Sprintf("PathResult{path=%v, total=%d}", r.path, r.cost)
}

// Equal compares the held fields only.
func (r PathResult) Equal(o PathResult) bool {
	return r.cost == o.cost && r.msg == o.msg && slices.Equal(r.path, o.path)
}

type pathResultJSON struct {
	OK       bool     `json:"ok"`
	Path     []string `json:"path"`
	Total    int      `json:"total"`
	Stations int      `json:"stations"`
	Error    string   `json:"error,omitempty"`
}

func (r PathResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(pathResultJSON{
		OK:       r.OK(),
		Path:     r.Path(),
		Total:    r.cost,
		Stations: r.StationCount(),
		Error:    r.msg,
	})
}
