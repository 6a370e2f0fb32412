package simulation

// RecordState represents the current queue membership of a tracked process.
type RecordState string

const (
	// RecordStateReady means the process sits in a CPU priority queue
	RecordStateReady RecordState = "ready"

	// RecordStateRunning means the process is being serviced this tick
	RecordStateRunning RecordState = "running"

	// RecordStateBlocked means the process sits in the blocking queue
	RecordStateBlocked RecordState = "blocked"

	// RecordStateCompleted means every burst is exhausted and the process
	// left the simulation
	RecordStateCompleted RecordState = "completed"
)

// IsTerminal reports whether no further transitions are possible.
func (s RecordState) IsTerminal() bool {
	return s == RecordStateCompleted
}
