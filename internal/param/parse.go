// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package param

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Parse converts raw textual values into typed Values for d. Parameters
// absent from raw take their declared default. Every declared output must
// be present in outputs. Unknown names are rejected.
func Parse(d Descriptor, raw, outputs map[string]string) (*Values, error) {
	if err := checkUnknown(d, raw, outputs); err != nil {
		return nil, err
	}

	v := NewValues()
	for _, p := range d.Parameters {
		text, supplied := raw[p.Name]
		if !supplied {
			if p.Default == nil {
				if !p.Optional {
					return nil, fmt.Errorf("%w: parameter %s (%s)", ErrMissingValue, p.Name, p.Description)
				}
				v.Set(p.Name, zero(p))
				continue
			}
			v.Set(p.Name, p.Default)
			continue
		}

		value, err := convert(p, text)
		if err != nil {
			return nil, err
		}
		v.Set(p.Name, value)
	}

	for _, o := range d.Outputs {
		path := strings.TrimSpace(outputs[o.Name])
		if path == "" {
			return nil, fmt.Errorf("%w: output %s (%s)", ErrMissingValue, o.Name, o.Description)
		}
		v.SetOutput(o.Name, path)
	}

	return v, nil
}

func checkUnknown(d Descriptor, raw, outputs map[string]string) error {
	var unknown []string
	for name := range raw {
		if _, ok := d.Parameter(name); !ok {
			unknown = append(unknown, name)
		}
	}
	for name := range outputs {
		if _, ok := d.Output(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w for %s: %s", ErrUnknownParameter, d.Name, strings.Join(unknown, ", "))
}

func zero(p Parameter) any {
	switch p.Kind {
	case KindBoolean:
		return false
	case KindSelection:
		return 0
	case KindNumber:
		if p.Integer {
			return int(p.Min)
		}
		return p.Min
	}
	return ""
}

func convert(p Parameter, text string) (any, error) {
	switch p.Kind {
	case KindRaster, KindVector, KindFile:
		path := strings.TrimSpace(text)
		if path == "" && !p.Optional {
			return nil, fmt.Errorf("%w: parameter %s (%s)", ErrMissingValue, p.Name, p.Description)
		}
		return path, nil

	case KindString:
		return text, nil

	case KindBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidValue, p.Name, text)
		}
		return b, nil

	case KindSelection:
		return convertSelection(p, strings.TrimSpace(text))

	case KindNumber:
		return convertNumber(p, strings.TrimSpace(text))
	}
	return nil, fmt.Errorf("%w: %s has unsupported kind %q", ErrInvalidValue, p.Name, p.Kind)
}

// convertSelection accepts an option index or an option name
// (case-insensitive).
func convertSelection(p Parameter, text string) (any, error) {
	if idx, err := strconv.Atoi(text); err == nil {
		if idx < 0 || idx >= len(p.Options) {
			return nil, fmt.Errorf("%w: %s=%d out of range [0, %d]", ErrInvalidValue, p.Name, idx, len(p.Options)-1)
		}
		return idx, nil
	}
	for i, opt := range p.Options {
		if strings.EqualFold(opt, text) {
			return i, nil
		}
	}
	return nil, fmt.Errorf("%w: %s=%q is not one of %s", ErrInvalidValue, p.Name, text, strings.Join(p.Options, ", "))
}

func convertNumber(p Parameter, text string) (any, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidValue, p.Name, text)
	}
	if f < p.Min || f > p.Max {
		return nil, fmt.Errorf("%w: %s=%s out of range [%g, %g]", ErrInvalidValue, p.Name, text, p.Min, p.Max)
	}
	if p.Integer {
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%w: %s=%s is not a whole number", ErrInvalidValue, p.Name, text)
		}
		return int(f), nil
	}
	return f, nil
}

// ValuesFile is the on-disk form of a parameter set, used by `run --params`.
type ValuesFile struct {
	Params  map[string]any    `yaml:"params"`
	Outputs map[string]string `yaml:"outputs"`
}

// LoadFile reads a YAML parameter file. Scalar values of any YAML type are
// converted to their textual form so they can go through Parse.
func LoadFile(path string) (params, outputs map[string]string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading parameter file %s: %w", path, err)
	}

	var vf ValuesFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, nil, fmt.Errorf("parsing parameter file %s: %w", path, err)
	}

	return Stringify(vf.Params), vf.Outputs, nil
}

// Stringify renders loosely typed values (as decoded from YAML) as text.
func Stringify(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}
