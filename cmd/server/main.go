package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-platform/internal/config"
	"github.com/iliyamo/hotel-booking-platform/internal/database"
	"github.com/iliyamo/hotel-booking-platform/internal/handler"
	"github.com/iliyamo/hotel-booking-platform/internal/middleware"
	"github.com/iliyamo/hotel-booking-platform/internal/queue"
	"github.com/iliyamo/hotel-booking-platform/internal/repository"
	"github.com/iliyamo/hotel-booking-platform/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional infrastructure: with no client the cache and
	// rate limiter middleware degrade to pass-through.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hotels := repository.NewHotelRepo(db)
	products := repository.NewProductRepo(db)
	reviews := repository.NewReviewRepo(db)
	reservations := repository.NewReservationRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens, hotels)
	hotelH := handler.NewHotelHandler(cfg, hotels, products, reviews, users)
	productH := handler.NewProductHandler(products, hotels)
	reviewH := handler.NewReviewHandler(reviews, hotels)
	reservationH := handler.NewReservationHandler(reservations, products, hotels)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPublic(e, hotelH, productH, reviewH, cfg.JWTSecret, cache)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
	router.RegisterReservations(e, reservationH, cfg.JWTSecret, limiter)
	router.RegisterHotelAdmin(e, hotelH, productH, cfg.JWTSecret)
	router.RegisterReviews(e, reviewH, cfg.JWTSecret)

	// Background consumer that writes reservation.created events to
	// logs/booking.log. Runs its own reconnect loop forever.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
