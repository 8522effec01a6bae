// Catalog item lifecycle events are broadcast over a RabbitMQ fanout
// exchange. Every queue bound to the exchange receives its own copy of every
// event, so downstream services (search indexing, audit, notifications) can
// react to catalog changes without the publisher knowing about them.
// Consumers create and bind their own queues.

package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openshelf-io/catalog/internal/config"
	"github.com/openshelf-io/catalog/internal/repository"
)

// CatalogEventBus provides a type-safe API for catalog item events.
type CatalogEventBus struct {
	bus    EventBus
	logger *slog.Logger
}

// NewCatalogEventBus connects to the configured RabbitMQ broker.
func NewCatalogEventBus(cfg *config.Config, logger *slog.Logger) (*CatalogEventBus, error) {
	rabbitMQConnString := fmt.Sprintf("amqp://%s:%s@%s:%d/",
		cfg.RabbitMQConfig.RabbitMQUser,
		cfg.RabbitMQConfig.RabbitMQPass,
		cfg.RabbitMQConfig.RabbitMQAddress,
		cfg.RabbitMQConfig.RabbitMQPort,
	)

	rabbitMQBus, err := NewRabbitMQEventBus(
		rabbitMQConnString,
		cfg.RabbitMQConfig.Exchange,
		FanoutExchangeType,
	)
	if err != nil {
		logger.Error("Failed to initialize RabbitMQ event bus", slog.Any("error", err))
		return nil, fmt.Errorf("failed to initialize RabbitMQ event bus: %w", err)
	}

	return &CatalogEventBus{
		bus:    rabbitMQBus,
		logger: logger,
	}, nil
}

// PublishItemCreated broadcasts an item.created event.
func (b *CatalogEventBus) PublishItemCreated(ctx context.Context, item repository.Item) error {
	requestID := uuid.NewString()
	event := ItemEvent{
		Item: item,
		Metadata: ItemEventMetadata{
			EventType:       "item.created",
			Timestamp:       time.Now(),
			SourceServiceID: "io.openshelf.catalog",
			RequestID:       requestID,
		},
	}

	b.logger.Info("Publishing item created event",
		slog.String("item_id", item.ID.String()),
		slog.String("request_id", requestID),
	)

	// Routing keys are ignored by fanout exchanges.
	return b.bus.Publish(ctx, "", event)
}

// Close shuts down the underlying broker connection.
func (b *CatalogEventBus) Close() {
	b.bus.Close()
}
