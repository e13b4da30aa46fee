// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RunStatus is the outcome of a single algorithm run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// RunRequest names an algorithm and carries the raw parameter and output
// values supplied by the user, before parsing.
type RunRequest struct {
	// Algorithm is the registry name (e.g. "pkextract_grid").
	Algorithm string `json:"algorithm" yaml:"algorithm"`

	// Params maps parameter names to their textual values.
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`

	// Outputs maps output names to destination paths.
	Outputs map[string]string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}
