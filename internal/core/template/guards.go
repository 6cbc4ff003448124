package template

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Selection failure reasons. They are surfaced verbatim to clients.
const (
	ReasonNoTemplates      = "No templates selected"
	ReasonInvalidFormat    = "Invalid template format"
	ReasonInvalidSelection = "Invalid template selection"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// SelectionContext provides context for template selection guards.
type SelectionContext struct {
	Raw      string // JSON-encoded list of template ids
	Registry *Registry
}

// ParseSelection decodes and validates a template selection.
// Rules:
// - Raw input must not be empty
// - Raw input must be a JSON array of strings
// - The array must not be empty
// - Every id must exist in the registry
func ParseSelection(ctx SelectionContext) ([]string, GuardResult) {
	if strings.TrimSpace(ctx.Raw) == "" {
		return nil, GuardResult{Allowed: false, Reason: ReasonNoTemplates}
	}

	var ids []string
	if err := json.Unmarshal([]byte(ctx.Raw), &ids); err != nil || ids == nil {
		return nil, GuardResult{Allowed: false, Reason: ReasonInvalidFormat}
	}

	if len(ids) == 0 {
		return nil, GuardResult{Allowed: false, Reason: ReasonNoTemplates}
	}

	return ids, CanSelect(ids, ctx.Registry)
}

// CanSelect evaluates whether every id names a known template.
func CanSelect(ids []string, registry *Registry) GuardResult {
	if len(ids) == 0 {
		return GuardResult{Allowed: false, Reason: ReasonNoTemplates}
	}
	for _, id := range ids {
		if _, ok := registry.Lookup(id); !ok {
			return GuardResult{Allowed: false, Reason: ReasonInvalidSelection}
		}
	}
	return GuardResult{Allowed: true}
}
