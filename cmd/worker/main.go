package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/flynowhq/flynow/config"
	"github.com/flynowhq/flynow/internal/email"
	"github.com/flynowhq/flynow/internal/kafka"
	"github.com/sirupsen/logrus"
)

// The worker tails the notifications topic and sends an email for every
// created and cancelled booking. It is fully decoupled from the console
// app: the reservation flow never waits on it.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender()

	logrus.Infof("worker consuming %s", cfg.Kafka.NotificationsTopic)
	if err := consumer.Consume(ctx, sender.Send); err != nil && ctx.Err() == nil {
		logrus.Fatalf("consumer stopped: %v", err)
	}
}
