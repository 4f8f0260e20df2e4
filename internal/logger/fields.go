package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID).
	FieldRequestID = "request_id"

	// FieldRunID is the ingestion run ID.
	FieldRunID = "run_id"

	// FieldComponent is the component/module name.
	FieldComponent = "component"

	// FieldSource is the fetch source identifier.
	FieldSource = "source"

	// FieldBackend is the retrieval backend used (vector or keyword).
	FieldBackend = "backend"
)

// Standard metric fields, attached at the log-entry level for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds.
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field.
	FieldCount = "count"

	// FieldSize is the data size in bytes.
	FieldSize = "size"

	// FieldStatus is the operation status.
	FieldStatus = "status"
)
