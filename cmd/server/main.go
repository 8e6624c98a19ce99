package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-registry/internal/apperr"
	"github.com/iliyamo/student-registry/internal/config"
	"github.com/iliyamo/student-registry/internal/database"
	"github.com/iliyamo/student-registry/internal/handler"
	"github.com/iliyamo/student-registry/internal/repository"
	"github.com/iliyamo/student-registry/internal/router"
	"github.com/iliyamo/student-registry/internal/service"
	"github.com/iliyamo/student-registry/internal/token"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadStrict()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	students := repository.NewStudentRepo(db)
	courses := repository.NewCourseRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)

	codec := token.NewCodec(cfg.JWTSecret)
	issuer := token.NewIssuer(codec)
	revocations := token.NewRevocations(users)
	verifier := token.NewVerifier(codec, revocations, users)

	events := service.NewPublisher(cfg.AMQPURL)
	defer events.Close()

	authHandler := handler.NewAuthHandler(users, codec, issuer, verifier, revocations, events, cfg.BcryptCost)
	studentHandler := handler.NewStudentHandler(students)
	courseHandler := handler.NewCourseHandler(courses)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollments, events)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, verifier, config.LoadRateLimitConfig(), rdb)
	router.RegisterRegistry(e, studentHandler, courseHandler, enrollmentHandler, verifier)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
