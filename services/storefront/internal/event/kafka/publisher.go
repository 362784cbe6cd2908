package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	platformkafka "github.com/shestoi/GoBigTech/platform/kafka"
	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
	"github.com/shestoi/GoBigTech/services/storefront/internal/reqctx"
	"github.com/shestoi/GoBigTech/services/storefront/internal/service"
)

const (
	EventTypeCartCreated   = "cart.created"
	EventTypeStockReleased = "inventory.stock.released"
	eventVersion           = 1

	// batchTimeout - сколько writer ждёт добора пачки; события пишутся по одному
	batchTimeout = 10 * time.Millisecond
	// publishTimeout ограничивает запись события, которая идёт на пути HTTP запроса
	publishTimeout = 2 * time.Second
)

// messageWriter - часть kafka.Writer, которая нужна publisher
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// eventItem - позиция в payload события
type eventItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// eventPayload - JSON payload событий корзины и склада
type eventPayload struct {
	EventID      string      `json:"event_id"`
	EventType    string      `json:"event_type"`
	EventVersion int         `json:"event_version"`
	OccurredAt   string      `json:"occurred_at"`
	CartID       string      `json:"cart_id,omitempty"`
	Reason       string      `json:"reason,omitempty"`
	Items        []eventItem `json:"items"`
}

// EventPublisher реализует service.EventPublisher используя Kafka
type EventPublisher struct {
	logger *zap.Logger
	writer messageWriter
	topic  string
}

// NewEventPublisher создаёт Kafka publisher событий витрины
func NewEventPublisher(logger *zap.Logger, cfg platformkafka.Config) *EventPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		WriteTimeout:           publishTimeout,
		AllowAutoTopicCreation: true,
	}
	return newEventPublisher(logger, writer, cfg.Topic)
}

func newEventPublisher(logger *zap.Logger, writer messageWriter, topic string) *EventPublisher {
	return &EventPublisher{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

// Close закрывает Kafka writer
func (p *EventPublisher) Close() error {
	return p.writer.Close()
}

// PublishCartCreated публикует cart.created с ключом = ID корзины
func (p *EventPublisher) PublishCartCreated(ctx context.Context, event service.CartCreatedEvent) error {
	payload := newPayload(EventTypeCartCreated, event.OccurredAt, event.Items)
	payload.CartID = event.CartID
	return p.publish(ctx, event.CartID, payload)
}

// PublishStockReleased публикует inventory.stock.released.
// Корзины ещё нет, поэтому ключом служит ID события.
func (p *EventPublisher) PublishStockReleased(ctx context.Context, event service.StockReleasedEvent) error {
	payload := newPayload(EventTypeStockReleased, event.OccurredAt, event.Items)
	payload.Reason = event.Reason
	return p.publish(ctx, payload.EventID, payload)
}

func (p *EventPublisher) publish(ctx context.Context, key string, payload eventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal event",
			zap.Error(err),
			zap.String("event_type", payload.EventType),
		)
		return err
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(payload.EventType)},
	}
	if requestID, ok := reqctx.RequestIDFromContext(ctx); ok {
		headers = append(headers, kafka.Header{Key: "request_id", Value: []byte(requestID)})
	}

	writeCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: headers,
	})
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.Error(err),
			zap.String("topic", p.topic),
			zap.String("event_type", payload.EventType),
			zap.String("event_id", payload.EventID),
		)
		return err
	}

	p.logger.Info("event published",
		zap.String("topic", p.topic),
		zap.String("event_type", payload.EventType),
		zap.String("event_id", payload.EventID),
		zap.String("cart_id", payload.CartID),
	)
	return nil
}

func newPayload(eventType string, occurredAt time.Time, items []repository.LineItem) eventPayload {
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	out := make([]eventItem, 0, len(items))
	for _, item := range items {
		out = append(out, eventItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return eventPayload{
		EventID:      uuid.New().String(),
		EventType:    eventType,
		EventVersion: eventVersion,
		OccurredAt:   occurredAt.UTC().Format(time.RFC3339),
		Items:        out,
	}
}

// NopPublisher используется, когда Kafka выключена (KAFKA_ENABLED=false)
type NopPublisher struct {
	logger *zap.Logger
}

// NewNopPublisher создаёт publisher, который только пишет события в debug-лог
func NewNopPublisher(logger *zap.Logger) *NopPublisher {
	return &NopPublisher{logger: logger}
}

func (p *NopPublisher) PublishCartCreated(ctx context.Context, event service.CartCreatedEvent) error {
	p.logger.Debug("kafka disabled, cart created event dropped", zap.String("cart_id", event.CartID))
	return nil
}

func (p *NopPublisher) PublishStockReleased(ctx context.Context, event service.StockReleasedEvent) error {
	p.logger.Debug("kafka disabled, stock released event dropped", zap.Int("items", len(event.Items)))
	return nil
}

func (p *NopPublisher) Close() error { return nil }
