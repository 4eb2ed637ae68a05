package logging

// Standardized attribute keys shared across components.
const (
	FieldComponent = "component"
	FieldEventType = "event_type"
	FieldImpact    = "impact"
	FieldRunID     = "run_id"
	FieldSource    = "source"
	FieldStream    = "stream_index"
	FieldCommand   = "command"
	FieldExitCode  = "exit_code"
)
