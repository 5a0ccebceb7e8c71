package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/pkg/mq"
	"github.com/RastaBela/ticketing-system/pkg/obs"
	cons "github.com/RastaBela/ticketing-system/services/payments-service/internal/consumer"
	"github.com/RastaBela/ticketing-system/services/payments-service/internal/handlers"
	omisecli "github.com/RastaBela/ticketing-system/services/payments-service/internal/omise"
	"github.com/RastaBela/ticketing-system/services/payments-service/internal/service"
)

type Cfg struct {
	NatsURL          string `envconfig:"NATS_URL" default:"nats://nats:4222"`
	PaymentsHTTPAddr string `envconfig:"PAYMENTS_HTTP_ADDR" default:":5005"`
	OmisePublicKey   string `envconfig:"OMISE_PUBLIC_KEY" required:"true"`
	OmiseSecretKey   string `envconfig:"OMISE_SECRET_KEY" required:"true"`
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

	shutdown := obs.InitTracer("payments-service")
	defer shutdown(context.Background())

	client := mq.NewClient(cfg.NatsURL)
	defer client.Close()
	js := must(client.JetStream())
	must(0, mq.EnsureStream(js, events.StreamPayments, events.StreamSubjects[events.StreamPayments]))

	omc := must(omisecli.NewOmiseClient(cfg.OmisePublicKey, cfg.OmiseSecretKey))
	svc := service.NewPaymentSvc(omc, mq.NewPublisher(client))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := cons.NewRequestConsumer(client, svc).Run(ctx); err != nil {
			log.Printf("[payments] request consumer stopped: %v", err)
		}
	}()

	r := gin.Default()
	handlers.NewPaymentHandler(svc).Routes(r)
	handlers.NewWebhookHandler(omc, mq.NewPublisher(client)).Routes(r)

	go func() {
		log.Printf("[payments] HTTP on %s", cfg.PaymentsHTTPAddr)
		if err := r.Run(cfg.PaymentsHTTPAddr); err != nil {
			log.Fatal(err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	log.Println("[payments] stopped")
}
