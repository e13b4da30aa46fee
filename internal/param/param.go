// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package param declares algorithm parameter forms and holds the typed
// values a user supplies for one run.
//
// A Descriptor is built once per algorithm. Parse turns raw text values into
// Values against a Descriptor, filling defaults and enforcing the declared
// constraints, so translators can trust what they read.
package param

import (
	"errors"
	"strconv"
)

var (
	// ErrUnknownParameter is returned for a name the descriptor does not declare.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrMissingValue is returned when a required parameter or output has no value.
	ErrMissingValue = errors.New("missing value")

	// ErrInvalidValue is returned when a value violates the declared kind or range.
	ErrInvalidValue = errors.New("invalid value")
)

// Kind identifies the type of a parameter or output.
type Kind string

const (
	KindRaster    Kind = "raster"
	KindVector    Kind = "vector"
	KindFile      Kind = "file"
	KindSelection Kind = "selection"
	KindNumber    Kind = "number"
	KindString    Kind = "string"
	KindBoolean   Kind = "boolean"
)

// IsPath reports whether values of this kind are filesystem paths.
func (k Kind) IsPath() bool {
	return k == KindRaster || k == KindVector || k == KindFile
}

// Parameter is one entry of an algorithm's parameter form.
type Parameter struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Kind        Kind     `json:"kind" yaml:"kind"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Optional    bool     `json:"optional,omitempty" yaml:"optional,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Min         float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max         float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Integer     bool     `json:"integer,omitempty" yaml:"integer,omitempty"`
	// Multi marks a string holding several ';'-separated values.
	Multi bool `json:"multi,omitempty" yaml:"multi,omitempty"`
}

// DefaultText renders the default value the way a user would type it.
func (p Parameter) DefaultText() string {
	switch d := p.Default.(type) {
	case nil:
		return ""
	case string:
		return d
	case bool:
		return strconv.FormatBool(d)
	case int:
		if p.Kind == KindSelection && d >= 0 && d < len(p.Options) {
			return p.Options[d]
		}
		return strconv.Itoa(d)
	case float64:
		return strconv.FormatFloat(d, 'f', -1, 64)
	}
	return ""
}

// Output is a file the algorithm writes.
type Output struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Kind        Kind   `json:"kind" yaml:"kind"`
}

// Descriptor is the full parameter form of one algorithm.
type Descriptor struct {
	// Name is the registry key, e.g. "pkextract_grid".
	Name string `json:"name" yaml:"name"`
	// DisplayName is the human-readable title.
	DisplayName string `json:"display_name" yaml:"display_name"`
	// Group is the toolbox group the algorithm is listed under.
	Group string `json:"group" yaml:"group"`
	// CLIName is the pktools executable the algorithm invokes.
	CLIName    string      `json:"cli_name" yaml:"cli_name"`
	Parameters []Parameter `json:"parameters" yaml:"parameters"`
	Outputs    []Output    `json:"outputs" yaml:"outputs"`
}

// Parameter returns the declared parameter with the given name.
func (d Descriptor) Parameter(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Output returns the declared output with the given name.
func (d Descriptor) Output(name string) (Output, bool) {
	for _, o := range d.Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}

// Raster declares a required raster input.
func Raster(name, description string) Parameter {
	return Parameter{Name: name, Description: description, Kind: KindRaster}
}

// Vector declares a required vector input.
func Vector(name, description string) Parameter {
	return Parameter{Name: name, Description: description, Kind: KindVector}
}

// File declares a file input.
func File(name, description string, optional bool) Parameter {
	return Parameter{Name: name, Description: description, Kind: KindFile, Optional: optional}
}

// Selection declares a choice among options; the value is the option index.
func Selection(name, description string, options []string, def int) Parameter {
	return Parameter{Name: name, Description: description, Kind: KindSelection, Options: options, Default: def}
}

// Integer declares a whole number in [min, max].
func Integer(name, description string, min, max, def int) Parameter {
	return Parameter{
		Name: name, Description: description, Kind: KindNumber,
		Min: float64(min), Max: float64(max), Default: def, Integer: true,
	}
}

// Number declares a real number in [min, max].
func Number(name, description string, min, max, def float64) Parameter {
	return Parameter{
		Name: name, Description: description, Kind: KindNumber,
		Min: min, Max: max, Default: def,
	}
}

// String declares a free-form string.
func String(name, description, def string, optional bool) Parameter {
	return Parameter{Name: name, Description: description, Kind: KindString, Default: def, Optional: optional}
}

// List declares a string of ';'-separated values.
func List(name, description, def string, optional bool) Parameter {
	p := String(name, description, def, optional)
	p.Multi = true
	return p
}

// Boolean declares an on/off switch.
func Boolean(name, description string, def bool) Parameter {
	return Parameter{Name: name, Description: description, Kind: KindBoolean, Default: def}
}

// RasterOutput declares a raster file output.
func RasterOutput(name, description string) Output {
	return Output{Name: name, Description: description, Kind: KindRaster}
}

// VectorOutput declares a vector file output.
func VectorOutput(name, description string) Output {
	return Output{Name: name, Description: description, Kind: KindVector}
}
