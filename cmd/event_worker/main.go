package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/noxven/gestion-ie/config"
	"github.com/noxven/gestion-ie/internal/infrastructure/search"
	"github.com/noxven/gestion-ie/internal/worker"
	"github.com/noxven/gestion-ie/pkg/helpers"
	"github.com/noxven/gestion-ie/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}

	h := &worker.Handler{AppName: cfg.AppName, MailEnabled: cfg.MailSendEnabled, Logger: logger}
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Fatal("elasticsearch client")
		}
		h.Indexer = search.NewProfileIndex(es, cfg.ESProfilesIndex)
	}
	if cfg.MailSendEnabled {
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			logger.Fatal("MAIL_SEND_ENABLED=true but Mailgun is not configured")
		}
		h.Mailer = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	} else {
		logger.Info("MAIL_SEND_ENABLED=false; welcome emails are skipped")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, 16)
	if err != nil {
		logger.WithError(err).Fatal("amqp consumer")
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries(cfg.AppName + "-event-worker")
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("event worker listening")
	h.Run(ctx, msgs)
	logger.Info("event worker stopped")
}
