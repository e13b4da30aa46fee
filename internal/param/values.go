// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package param

import (
	"fmt"
	"maps"
)

// Values holds the current parameter and output values for one run.
// Parameter values are string, int, float64 or bool depending on the
// declared kind; selections are stored as the option index.
type Values struct {
	params  map[string]any
	outputs map[string]string
}

// NewValues returns an empty value set.
func NewValues() *Values {
	return &Values{
		params:  make(map[string]any),
		outputs: make(map[string]string),
	}
}

// Set stores a parameter value.
func (v *Values) Set(name string, value any) {
	v.params[name] = value
}

// Has reports whether a parameter value is present.
func (v *Values) Has(name string) bool {
	_, ok := v.params[name]
	return ok
}

// String returns a string-valued parameter.
func (v *Values) String(name string) (string, error) {
	raw, ok := v.params[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingValue, name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, not string", ErrInvalidValue, name, raw)
	}
	return s, nil
}

// Int returns an integer parameter or a selection index.
func (v *Values) Int(name string) (int, error) {
	raw, ok := v.params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingValue, name)
	}
	n, ok := raw.(int)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %T, not int", ErrInvalidValue, name, raw)
	}
	return n, nil
}

// Float returns a numeric parameter. Integer values are widened.
func (v *Values) Float(name string) (float64, error) {
	raw, ok := v.params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingValue, name)
	}
	switch n := raw.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%w: %s is %T, not a number", ErrInvalidValue, name, raw)
}

// Bool returns a boolean parameter.
func (v *Values) Bool(name string) (bool, error) {
	raw, ok := v.params[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrMissingValue, name)
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is %T, not bool", ErrInvalidValue, name, raw)
	}
	return b, nil
}

// Output returns the destination path of an output, or "" when unset.
func (v *Values) Output(name string) string {
	return v.outputs[name]
}

// SetOutput records the destination path of an output. Translators call it
// when the file actually written differs from the requested path.
func (v *Values) SetOutput(name, path string) {
	v.outputs[name] = path
}

// Outputs returns a copy of all output values.
func (v *Values) Outputs() map[string]string {
	return maps.Clone(v.outputs)
}
