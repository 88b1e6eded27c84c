package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	"go-dayoff/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher writes decision events to the dayoff decision topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

func NewPublisher(brokers []string, logger ...*zap.Logger) *Publisher {
	l := zap.L().Named("kafka.publisher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.publisher")
	}

	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(brokers...),
		Topic:    events.RequestDecisionTopic,
		Balancer: &kafkago.LeastBytes{},
	}
	return &Publisher{writer: writer, logger: l}
}

func (p *Publisher) PublishDecision(ctx context.Context, ev events.RequestDecisionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	msg := kafkago.Message{
		// Keyed by account so one account's decisions stay ordered.
		Key:   []byte(ev.AccountID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(ev.EventType)},
			{Key: "request_id", Value: []byte(strconv.FormatInt(ev.RequestID, 10))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}

	p.logger.Info("decision event published",
		zap.Int64("request_id", ev.RequestID),
		zap.String("status", ev.Status),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
