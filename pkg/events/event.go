package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "INGEST_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the standard Event implementation carried across the bus.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes.
const (
	TypeIngestCompleted   = "INGEST_COMPLETED"
	TypeTrainingPairAdded = "TRAINING_PAIR_ADDED"
	TypeChatAnswered      = "CHAT_ANSWERED"
)

// NewIngestCompleted records a finished ingestion run over a dataset.
func NewIngestCompleted(dataset string, filesProcessed, chunksAdded int, failedFiles []string, duration time.Duration) Event {
	return BaseEvent{
		Type: TypeIngestCompleted,
		Data: map[string]interface{}{
			"dataset":         dataset,
			"files_processed": filesProcessed,
			"chunks_added":    chunksAdded,
			"failed_files":    failedFiles,
			"duration":        duration.String(),
		},
		OccurredAt: time.Now(),
	}
}

// NewTrainingPairAdded records a curated answer entering the training store.
func NewTrainingPairAdded(category, question string) Event {
	return BaseEvent{
		Type: TypeTrainingPairAdded,
		Data: map[string]interface{}{
			"category": category,
			"question": question,
		},
		OccurredAt: time.Now(),
	}
}

// NewChatAnswered records an answered question for ops dashboards. The answer
// text itself stays out of the event.
func NewChatAnswered(responseType, confidence string, totalSources int, duration time.Duration) Event {
	return BaseEvent{
		Type: TypeChatAnswered,
		Data: map[string]interface{}{
			"response_type": responseType,
			"confidence":    confidence,
			"total_sources": totalSources,
			"duration":      duration.String(),
		},
		OccurredAt: time.Now(),
	}
}
