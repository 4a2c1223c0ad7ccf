package redact

// TaskType describes the type of a Task, used internally to control behaviour
type TaskType string

const (
	// NoOpTaskType indicates that this task does not manipulate data
	NoOpTaskType TaskType = "no_op"
	// ExtractTaskType indicates that this task sources data from a DataSource
	ExtractTaskType TaskType = "extract"
	// RepackTaskType indicates that this task triggers a Repack
	RepackTaskType TaskType = "repack"
	// MapTaskType indicates that this task triggers a Map
	MapTaskType TaskType = "map"
	// WithColumnTaskType indicates that this task computes a new column
	WithColumnTaskType TaskType = "with_column"
)
