package eventbus

import (
	"time"

	"github.com/openshelf-io/catalog/internal/repository"
)

// ItemEventMetadata describes the event itself rather than its payload.
type ItemEventMetadata struct {
	EventType       string    `json:"event_type"`
	Timestamp       time.Time `json:"timestamp"`
	SourceServiceID string    `json:"source_service_id"`
	RequestID       string    `json:"request_id"`
}

// ItemEvent is the payload published for catalog item lifecycle events.
type ItemEvent struct {
	Item     repository.Item   `json:"item"`
	Metadata ItemEventMetadata `json:"meta"`
}
