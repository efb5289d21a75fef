package core

import "github.com/samuli/blockdive/internal/model"

// Event represents a state change from the controller
type Event interface {
	isEvent()
}

// SnapshotEvent is emitted when a refresh commits a new snapshot
type SnapshotEvent struct {
	Snap Snapshot
}

func (SnapshotEvent) isEvent() {}

// StaleSnapshotEvent is emitted when a refresh result was dropped
// because a newer refresh had already been requested
type StaleSnapshotEvent struct {
	Generation uint64
}

func (StaleSnapshotEvent) isEvent() {}

// FileSelectedEvent is emitted when a file's block list was fetched.
// File is nil when the query produced only an informational message.
type FileSelectedEvent struct {
	File    *model.FileBlocks
	Message string
}

func (FileSelectedEvent) isEvent() {}

// StrategyChangedEvent is emitted after the allocation strategy was
// switched on the backend
type StrategyChangedEvent struct {
	Strategy model.AllocationType
	Message  string
}

func (StrategyChangedEvent) isEvent() {}

// CommandResultEvent carries the output of a shell command
type CommandResultEvent struct {
	Command string
	Output  string
}

func (CommandResultEvent) isEvent() {}

// ErrorEvent is emitted when a backend operation fails; the prior
// snapshot remains displayed
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) isEvent() {}
