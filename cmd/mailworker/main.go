package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"rentwheels/pkg/config"
	"rentwheels/pkg/kafka"
	kafka_config "rentwheels/pkg/kafka/config"
	"rentwheels/pkg/mail"
)

const (
	ServiceName   = "mailworker"
	consumerGroup = "mailworker"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.LogConfiguration()

	cfg.Log.Info("Starting mail worker")

	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})

	handler := func(ctx context.Context, msg kafka.Message) error {
		var email mail.Email
		if err := msg.DecodeValue(&email); err != nil {
			cfg.Log.Error("Failed to decode email message", "event_id", msg.GetEventID(), "error", err)
			return err
		}

		if err := sender.Send(email); err != nil {
			return err
		}

		cfg.Log.Info("Email delivered", "kind", email.Kind, "to", email.To, "event_id", msg.GetEventID())
		return nil
	}

	kafkaCfg := kafka_config.Load()
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.MailTopic, consumerGroup, cfg.MailDLQTopic, handler, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create mail consumer", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Mail consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Mail worker stopped")
}
