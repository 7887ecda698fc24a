package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/gatherly/event-booking/internal/config"
	"github.com/gatherly/event-booking/internal/database"
	"github.com/gatherly/event-booking/internal/handler"
	"github.com/gatherly/event-booking/internal/middleware"
	"github.com/gatherly/event-booking/internal/queue"
	"github.com/gatherly/event-booking/internal/repository"
	"github.com/gatherly/event-booking/internal/router"
	"github.com/gatherly/event-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: with no client, caching and rate limiting turn
	// into pass-through middleware.
	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	ticketTypes := repository.NewTicketTypeRepo(db)
	discounts := repository.NewDiscountCodeRepo(db)
	tickets := repository.NewTicketRepo(db)
	bookings := repository.NewBookingRepo(db, ticketTypes, discounts, tickets)

	// Booking pipeline and its confirmation publisher.
	publisher := queue.NewPublisher(cfg.BrokerURL)
	bookingSvc := service.NewBookingService(ticketTypes, discounts, bookings, publisher, cfg.DiscountValidation)

	// Confirmation consumer runs alongside the server and reconnects on
	// broker failures; it never takes the API down.
	go func() {
		if err := queue.StartBookingConsumer(cfg.BrokerURL); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	eventH := handler.NewEventHandler(events, bookings)
	ticketTypeH := handler.NewTicketTypeHandler(events, ticketTypes)
	discountH := handler.NewDiscountCodeHandler(events, discounts)
	ticketH := handler.NewTicketHandler(tickets)
	bookingH := handler.NewBookingHandler(bookingSvc, bookings, tickets)

	// Middleware.
	authMW := middleware.JWTAuth(cfg.JWTSecret)
	cacheMW := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, authMW)
	router.RegisterPublic(e, eventH, ticketTypeH, cacheMW)
	router.RegisterAttendee(e, bookingH, authMW, rateMW)
	router.RegisterOrganizer(e, eventH, ticketTypeH, discountH, ticketH, authMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
