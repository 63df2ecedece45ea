package events

import (
	"fmt"
	"time"
)

// EventType type of event.
type EventType string

const (
	// TypeRunStarted is published once when an execution begins.
	TypeRunStarted EventType = "RUN_STARTED"

	// TypeRun is published when a task attempt starts.
	TypeRun EventType = "RUN"

	// TypeRetry is published when a task attempt failed and another one
	// will be made after the retry delay.
	TypeRetry EventType = "RETRY"

	// TypeSuccess is published when a task reaches SUCCEEDED.
	TypeSuccess EventType = "SUCCESS"

	// TypeError is published when a task reaches FAILED.
	TypeError EventType = "ERROR"

	// TypeSkip is published when a task is recorded SKIPPED.
	TypeSkip EventType = "SKIP"

	// TypeAsset is published after the asset recorder was invoked for a
	// succeeded task. Data carries an AssetEventData.
	TypeAsset EventType = "ASSET"

	// TypeRunFinished is published once when an execution ends.
	TypeRunFinished EventType = "RUN_FINISHED"
)

// Event represents a message published on the observability channel.
type Event struct {
	Type          EventType
	RunID         string
	FlowName      string
	TaskName      string
	CorrelationID string
	Attempt       int
	Data          interface{}
	Time          time.Time
}

func (e Event) String() string {
	if e.TaskName == "" {
		return fmt.Sprintf("%s for flow %s", e.Type, e.FlowName)
	}
	return fmt.Sprintf("%s for task %s of flow %s", e.Type, e.TaskName, e.FlowName)
}

// ErrorEventData is the expected data type for events with type TypeError.
type ErrorEventData struct {
	Message  string `json:"message"`
	Attempts int    `json:"attempts"`
}

// SkipEventData is the expected data type for events with type TypeSkip.
type SkipEventData struct {
	Reason         string `json:"reason"`
	UpstreamFailed string `json:"upstreamFailed,omitempty"`
}

// AssetEventData is the expected data type for events with type TypeAsset.
type AssetEventData struct {
	AssetID        string      `json:"assetId"`
	PartitionKey   string      `json:"partitionKey,omitempty"`
	PartitionValue interface{} `json:"partitionValue,omitempty"`
	Error          string      `json:"error,omitempty"`
}
