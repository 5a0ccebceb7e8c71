package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/RastaBela/ticketing-system/pkg/db"
	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/pkg/mq"
	"github.com/RastaBela/ticketing-system/pkg/obs"
	"github.com/RastaBela/ticketing-system/services/events-service/internal/handlers"
	"github.com/RastaBela/ticketing-system/services/events-service/internal/repository"
	"github.com/RastaBela/ticketing-system/services/events-service/internal/service"
)

type Cfg struct {
	PGEventsDSN    string `envconfig:"PG_EVENTS_DSN" required:"true"`
	NatsURL        string `envconfig:"NATS_URL" default:"nats://nats:4222"`
	EventsHTTPAddr string `envconfig:"EVENTS_HTTP_ADDR" default:":5003"`
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

	shutdown := obs.InitTracer("events-service")
	defer shutdown(context.Background())

	gdb := db.Open(cfg.PGEventsDSN)
	repo := repository.NewEventRepo(gdb)
	must(0, repo.Migrate())

	client := mq.NewClient(cfg.NatsURL)
	defer client.Close()
	js := must(client.JetStream())
	must(0, mq.EnsureStream(js, events.StreamEvents, events.StreamSubjects[events.StreamEvents]))

	svc := service.NewEventSvc(repo, mq.NewPublisher(client))

	r := gin.Default()
	handlers.NewEventHandler(svc).Routes(r)

	log.Printf("[events] HTTP on %s", cfg.EventsHTTPAddr)
	if err := r.Run(cfg.EventsHTTPAddr); err != nil {
		log.Fatal(err)
	}
}
