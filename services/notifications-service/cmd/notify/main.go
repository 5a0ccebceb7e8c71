package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/pkg/mq"
	"github.com/RastaBela/ticketing-system/pkg/obs"
	"github.com/RastaBela/ticketing-system/services/notifications-service/internal/notifier"
	"github.com/RastaBela/ticketing-system/services/notifications-service/internal/worker"
)

const serviceName = "notifications"

type Cfg struct {
	NatsURL      string `envconfig:"NATS_URL" default:"nats://nats:4222"`
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"no-reply@ticketing.local"`
}

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load()
	var cfg Cfg
	must(0, envconfig.Process("", &cfg))

	shutdown := obs.InitTracer("notifications-service")
	defer shutdown(context.Background())

	var n notifier.Notifier
	if cfg.SMTPHost != "" {
		n = notifier.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		log.Println("[notifications] SMTP_HOST not set, using console notifier")
		n = notifier.NewConsole()
	}

	client := mq.NewClient(cfg.NatsURL)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bc := worker.NewBookingConsumer(n)
	loop := mq.NewLoop(client, events.StreamBookings, events.StreamSubjects[events.StreamBookings],
		serviceName, events.SubjectBookingCreated, bc.HandleBookingCreated)
	go func() {
		if err := loop.Run(ctx); err != nil {
			log.Printf("[notifications] consumer %s stopped: %v", loop.Durable(), err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	log.Println("[notifications] stopped")
}
