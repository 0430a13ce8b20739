package mail

import (
	"context"

	"rentwheels/pkg/kafka"
	"rentwheels/pkg/logger"
)

// Dispatcher hands emails to the async delivery pipeline. API handlers never
// talk SMTP directly; they publish and move on.
type Dispatcher interface {
	Dispatch(ctx context.Context, email Email) error
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaDispatcher struct {
	producer publisher
	source   string
	log      *logger.Logger
}

func NewKafkaDispatcher(producer *kafka.Producer, source string, log *logger.Logger) Dispatcher {
	return &kafkaDispatcher{producer: producer, source: source, log: log}
}

func (d *kafkaDispatcher) Dispatch(ctx context.Context, email Email) error {
	// Key by recipient so retries for one address never reorder against
	// each other.
	msg, err := kafka.NewMessage(email.To, "mail."+email.Kind, d.source, email)
	if err != nil {
		return err
	}

	if err := d.producer.Publish(ctx, msg); err != nil {
		d.log.Error("Failed to enqueue email",
			"kind", email.Kind,
			"to", email.To,
			"error", err,
		)
		return err
	}

	d.log.Info("Email enqueued", "kind", email.Kind, "to", email.To)
	return nil
}
