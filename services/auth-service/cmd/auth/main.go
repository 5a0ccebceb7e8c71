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
	cons "github.com/RastaBela/ticketing-system/services/auth-service/internal/consumer"
	"github.com/RastaBela/ticketing-system/services/auth-service/internal/handlers"
	"github.com/RastaBela/ticketing-system/services/auth-service/internal/repository"
	"github.com/RastaBela/ticketing-system/services/auth-service/internal/service"
)

const serviceName = "auth"

type Cfg struct {
	PGAuthDSN    string `envconfig:"PG_AUTH_DSN" required:"true"`
	NatsURL      string `envconfig:"NATS_URL" default:"nats://nats:4222"`
	AuthHTTPAddr string `envconfig:"AUTH_HTTP_ADDR" default:":5002"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`
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

	shutdown := obs.InitTracer("auth-service")
	defer shutdown(context.Background())

	gdb := db.Open(cfg.PGAuthDSN)
	repo := repository.NewUserRepo(gdb)
	must(0, repo.Migrate())

	client := mq.NewClient(cfg.NatsURL)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uc := cons.NewUserConsumer(repo)
	userSubjects := events.StreamSubjects[events.StreamUsers]
	loops := []*mq.Loop{
		mq.NewLoop(client, events.StreamUsers, userSubjects, serviceName, events.SubjectUserCreated, uc.HandleCreated),
		mq.NewLoop(client, events.StreamUsers, userSubjects, serviceName, events.SubjectUserUpdated, uc.HandleUpdated),
		mq.NewLoop(client, events.StreamUsers, userSubjects, serviceName, events.SubjectUserDeleted, uc.HandleDeleted),
	}
	for _, l := range loops {
		go func(l *mq.Loop) {
			if err := l.Run(ctx); err != nil {
				log.Printf("[auth] consumer %s stopped: %v", l.Durable(), err)
			}
		}(l)
	}

	svc := service.NewAuthSvc(repo, cfg.JWTExpireMin)
	r := gin.Default()
	handlers.NewAuthHandler(svc).Routes(r)

	go func() {
		log.Printf("[auth] HTTP on %s", cfg.AuthHTTPAddr)
		if err := r.Run(cfg.AuthHTTPAddr); err != nil {
			log.Fatal(err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	log.Println("[auth] stopped")
}
