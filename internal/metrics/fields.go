package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod     = "method"
	AttrPath       = "path"
	AttrStatus     = "status"
	AttrOperation  = "operation"
	AttrBackend    = "backend"
	AttrTransition = "transition"
	AttrOutcome    = "outcome"
	AttrLegal      = "legal"
)
