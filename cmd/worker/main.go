package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fashionstore/fashion-store-backend/internal/config"
	"github.com/fashionstore/fashion-store-backend/internal/notification"
)

// The worker drains the notification topic and sends the customer emails.
// Keeping delivery out of the request path means a slow or down SMTP relay
// never delays a checkout.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is not set")
	}

	mailer := &notification.Mailer{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.EmailFrom,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("notification worker consuming %s", cfg.NotificationTopic)
	notification.Consume(ctx, cfg.KafkaBrokers, cfg.NotificationTopic, "notification-worker", mailer.Handle)
}
