// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package algorithm implements the pktools algorithm descriptors and their
// parameter-to-argument translators.
//
// Each Algorithm declares its parameter form once and, per run, turns the
// current Values into the argument list of a pktools executable. The first
// element of that list is always the resolved executable path, which is
// fixed when the algorithm is constructed.
package algorithm

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/pdiddy/pkprocessing/internal/param"
)

// ErrUnknownAlgorithm is returned by Registry.Get for an unregistered name.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Common parameter and output names.
const (
	ParamInput = "INPUT"
	ParamExtra = "EXTRA"
	OutputPath = "OUTPUT"

	delimiter  = ";"
	extraLabel = "Additional parameters"
)

// Algorithm is one pktools tool exposed to the processing host.
type Algorithm interface {
	// Descriptor returns the parameter form. It is built once and must not
	// be modified by callers.
	Descriptor() param.Descriptor

	// Commands builds the argument list for one run. It may update output
	// values in v to reflect the file actually written.
	Commands(v *param.Values) ([]string, error)
}

// Resolver maps a pktools executable name to the path to invoke.
type Resolver interface {
	Resolve(cliName string) string
}

// Registry holds the available algorithms by name.
type Registry struct {
	algorithms map[string]Algorithm
}

// NewRegistry builds every pktools algorithm with executable paths taken
// from r.
func NewRegistry(r Resolver) *Registry {
	reg := &Registry{algorithms: make(map[string]Algorithm)}
	reg.Register(NewExtractGrid(r.Resolve(cliExtractOGR)))
	reg.Register(NewSVM(r.Resolve(cliSVM)))
	return reg
}

// Register adds an algorithm, replacing any previous one with the same name.
func (r *Registry) Register(a Algorithm) {
	r.algorithms[a.Descriptor().Name] = a
}

// Get returns the algorithm registered under name.
func (r *Registry) Get(name string) (Algorithm, error) {
	a, ok := r.algorithms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return a, nil
}

// All returns every registered algorithm ordered by group, then name.
func (r *Registry) All() []Algorithm {
	out := make([]Algorithm, 0, len(r.algorithms))
	for _, a := range r.algorithms {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Descriptor(), out[j].Descriptor()
		if di.Group != dj.Group {
			return di.Group < dj.Group
		}
		return di.Name < dj.Name
	})
	return out
}

// reader pulls typed values out of param.Values and keeps the first error,
// so translators read straight through and check once.
type reader struct {
	v   *param.Values
	err error
}

func (r *reader) str(name string) string {
	if r.err != nil {
		return ""
	}
	s, err := r.v.String(name)
	r.err = err
	return s
}

func (r *reader) int(name string) int {
	if r.err != nil {
		return 0
	}
	n, err := r.v.Int(name)
	r.err = err
	return n
}

func (r *reader) float(name string) float64 {
	if r.err != nil {
		return 0
	}
	f, err := r.v.Float(name)
	r.err = err
	return f
}

// option returns options[index of name], failing on an out-of-range index.
func (r *reader) option(name string, options []string) string {
	idx := r.int(name)
	if r.err != nil {
		return ""
	}
	if idx < 0 || idx >= len(options) {
		r.err = fmt.Errorf("%w: %s index %d", param.ErrInvalidValue, name, idx)
		return ""
	}
	return options[idx]
}

// appendEach splits value on ';' and emits one flag/value pair per piece.
// Pieces are trimmed; an entirely blank value emits nothing.
func appendEach(args []string, flag, value string) []string {
	if strings.TrimSpace(value) == "" {
		return args
	}
	for _, piece := range strings.Split(value, delimiter) {
		args = append(args, flag, strings.TrimSpace(piece))
	}
	return args
}

// appendExtra splits the free-text extra parameters into words and appends
// them. Quotes group words; backslashes are literal so Windows paths pass
// through unchanged. Shell operators outside quotes are rejected.
func appendExtra(args []string, extra string) ([]string, error) {
	if strings.TrimSpace(extra) == "" {
		return args, nil
	}
	p := shellwords.NewParser()
	words, err := p.Parse(literalBackslashes(extra))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", param.ErrInvalidValue, ParamExtra, err)
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("%w: %s: unquoted shell operator in %q", param.ErrInvalidValue, ParamExtra, extra)
	}
	return append(args, words...), nil
}

// literalBackslashes doubles every backslash outside single quotes, where
// the parser would otherwise read it as an escape.
func literalBackslashes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	var single, double bool
	for _, r := range s {
		switch {
		case r == '\'' && !double:
			single = !single
		case r == '"' && !single:
			double = !double
		case r == '\\' && !single:
			b.WriteRune(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isNone reports whether a value is the "none" placeholder, ignoring case
// and surrounding space.
func isNone(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "none")
}

func formatInt(n int) string {
	return strconv.Itoa(n)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
