package domain

import "fmt"

// CorruptSnapshotError reports that the most recent history file exists but
// cannot be parsed. The run recovers by treating history as empty.
type CorruptSnapshotError struct {
	Path string
	Err  error
}

func (e *CorruptSnapshotError) Error() string {
	return fmt.Sprintf("corrupt snapshot %s: %v", e.Path, e.Err)
}

func (e *CorruptSnapshotError) Unwrap() error { return e.Err }

// TargetNotFoundError reports that the diagram update target is missing or
// carries no recognizable diagram marker. Not recoverable: it signals a
// broken authoring contract, so the run must fail.
type TargetNotFoundError struct {
	Target string
	Reason string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("diagram target %s: %s", e.Target, e.Reason)
}
