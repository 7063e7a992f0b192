package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type loadOptions struct {
	logger *zap.Logger
	strict bool
}

// Option configures Load.
type Option func(*loadOptions)

// WithLogger reports every weight that fell back to NoEdge.
func WithLogger(l *zap.Logger) Option {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStrictWeights rejects weights that are not non-negative integers with
// InvalidWeight instead of treating them as NoEdge.
func WithStrictWeights() Option {
	return func(o *loadOptions) { o.strict = true }
}

// Load parses a network description held in memory.
func Load(text string, opts ...Option) (*Graph, error) {
	return LoadLines(splitLines(text), opts...)
}

// LoadReader reads the whole description from r and parses it.
func LoadReader(r io.Reader, opts ...Option) (*Graph, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("graph: read network: %w", err)
	}
	return LoadLines(lines, opts...)
}

// LoadLines parses a description already split into lines.
func LoadLines(lines []string, opts ...Option) (*Graph, error) {
	o := loadOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if len(lines) == 0 {
		return nil, &LoadError{Kind: EmptyInput}
	}

	header := splitFields(lines[0])
	if len(header) < 2 {
		return nil, &LoadError{Kind: MalformedHeader, Row: 1, Expected: 2, Actual: len(header)}
	}
	names := header[1:]
	n := len(names)

	matrix := make([][]Weight, n)
	for i := 0; i < n; i++ {
		lineNo := i + 2
		if i+1 >= len(lines) {
			return nil, &LoadError{Kind: MissingRow, Row: lineNo, Expected: n}
		}

		line := strings.TrimSpace(lines[i+1])
		if line == "" {
			return nil, &LoadError{Kind: EmptyRow, Row: lineNo}
		}

		fields := splitFields(line)
		if len(fields) != n+1 {
			return nil, &LoadError{Kind: RowWidthMismatch, Row: lineNo, Expected: n + 1, Actual: len(fields)}
		}

		row := make([]Weight, n)
		for j, raw := range fields[1:] {
			w, ok := parseWeight(raw)
			if !ok && j != i {
				if o.strict {
					return nil, &LoadError{Kind: InvalidWeight, Row: lineNo, Column: j + 2, Value: raw}
				}
				o.logger.Warn("unparsable weight treated as no connection",
					zap.Int("row", lineNo),
					zap.Int("column", j+2),
					zap.String("value", raw),
				)
			}
			row[j] = w
		}
		matrix[i] = row
	}

	for i := range matrix {
		matrix[i][i] = 0
	}

	return newGraph(names, matrix), nil
}

// parseWeight maps one field to a cost. ok is false when the field is not a
// usable minute count; the returned weight is then NoEdge.
func parseWeight(raw string) (w Weight, ok bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	switch {
	case err != nil, v < 0, Weight(v) >= NoEdge:
		return NoEdge, false
	case v == NoEdgeInput:
		return NoEdge, true
	}
	return Weight(v), true
}

// splitFields trims the line, splits it on commas and drops trailing empty
// fields, so "A,0,2," yields three fields.
func splitFields(line string) []string {
	fields := strings.Split(strings.TrimSpace(line), ",")
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

// splitLines breaks text on \n, tolerating \r\n, without a phantom last line
// for a trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
