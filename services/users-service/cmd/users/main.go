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
	"github.com/RastaBela/ticketing-system/services/users-service/internal/handlers"
	"github.com/RastaBela/ticketing-system/services/users-service/internal/repository"
	"github.com/RastaBela/ticketing-system/services/users-service/internal/service"
)

type Cfg struct {
	PGUsersDSN    string `envconfig:"PG_USERS_DSN" required:"true"`
	NatsURL       string `envconfig:"NATS_URL" default:"nats://nats:4222"`
	UsersHTTPAddr string `envconfig:"USERS_HTTP_ADDR" default:":5001"`
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

	shutdown := obs.InitTracer("users-service")
	defer shutdown(context.Background())

	gdb := db.Open(cfg.PGUsersDSN)
	repo := repository.NewUserRepo(gdb)
	must(0, repo.Migrate())

	client := mq.NewClient(cfg.NatsURL)
	defer client.Close()
	js := must(client.JetStream())
	must(0, mq.EnsureStream(js, events.StreamUsers, events.StreamSubjects[events.StreamUsers]))

	svc := service.NewUserSvc(repo, mq.NewPublisher(client))

	r := gin.Default()
	handlers.NewUserHandler(svc).Routes(r)

	log.Printf("[users] HTTP on %s", cfg.UsersHTTPAddr)
	if err := r.Run(cfg.UsersHTTPAddr); err != nil {
		log.Fatal(err)
	}
}
