package logging

// Standardized attribute keys shared across components.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldInput     = "input"
	FieldOutput    = "output"
	FieldMode      = "mode"
)
