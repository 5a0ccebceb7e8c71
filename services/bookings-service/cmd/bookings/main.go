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

	"github.com/RastaBela/ticketing-system/pkg/db"
	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/pkg/mq"
	"github.com/RastaBela/ticketing-system/pkg/obs"
	cons "github.com/RastaBela/ticketing-system/services/bookings-service/internal/consumer"
	"github.com/RastaBela/ticketing-system/services/bookings-service/internal/handlers"
	"github.com/RastaBela/ticketing-system/services/bookings-service/internal/repository"
	"github.com/RastaBela/ticketing-system/services/bookings-service/internal/service"
)

const serviceName = "bookings"

type Cfg struct {
	PGBookingsDSN    string `envconfig:"PG_BOOKINGS_DSN" required:"true"`
	NatsURL          string `envconfig:"NATS_URL" default:"nats://nats:4222"`
	BookingsHTTPAddr string `envconfig:"BOOKINGS_HTTP_ADDR" default:":5004"`
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

	shutdown := obs.InitTracer("bookings-service")
	defer shutdown(context.Background())

	gdb := db.Open(cfg.PGBookingsDSN)
	bookingRepo := repository.NewBookingRepo(gdb)
	must(0, bookingRepo.Migrate())
	eventRepo := repository.NewEventRepo(gdb)

	client := mq.NewClient(cfg.NatsURL)
	defer client.Close()
	js := must(client.JetStream())
	// bookings publishes to BOOKINGS and PAYMENTS; consumers below provision
	// the streams they read from
	must(0, mq.EnsureStream(js, events.StreamBookings, events.StreamSubjects[events.StreamBookings]))
	must(0, mq.EnsureStream(js, events.StreamPayments, events.StreamSubjects[events.StreamPayments]))

	svc := service.NewBookingSvc(bookingRepo, eventRepo, mq.NewPublisher(client))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ec := cons.NewEventConsumer(eventRepo)
	pc := cons.NewPaymentConsumer(svc)
	eventSubjects := events.StreamSubjects[events.StreamEvents]
	paymentSubjects := events.StreamSubjects[events.StreamPayments]
	loops := []*mq.Loop{
		mq.NewLoop(client, events.StreamEvents, eventSubjects, serviceName, events.SubjectEventCreated, ec.HandleCreated),
		mq.NewLoop(client, events.StreamEvents, eventSubjects, serviceName, events.SubjectEventUpdated, ec.HandleUpdated),
		mq.NewLoop(client, events.StreamEvents, eventSubjects, serviceName, events.SubjectEventDeleted, ec.HandleDeleted),
		mq.NewLoop(client, events.StreamPayments, paymentSubjects, serviceName, events.SubjectPaymentCompleted, pc.HandleCompleted),
	}
	for _, l := range loops {
		go func(l *mq.Loop) {
			if err := l.Run(ctx); err != nil {
				log.Printf("[bookings] consumer %s stopped: %v", l.Durable(), err)
			}
		}(l)
	}

	r := gin.Default()
	handlers.NewBookingHandler(svc).Routes(r)

	go func() {
		log.Printf("[bookings] HTTP on %s", cfg.BookingsHTTPAddr)
		if err := r.Run(cfg.BookingsHTTPAddr); err != nil {
			log.Fatal(err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	log.Println("[bookings] stopped")
}
