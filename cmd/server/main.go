package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-floor/internal/config"
	"github.com/iliyamo/restaurant-floor/internal/database"
	"github.com/iliyamo/restaurant-floor/internal/floorplan"
	"github.com/iliyamo/restaurant-floor/internal/handler"
	"github.com/iliyamo/restaurant-floor/internal/middleware"
	"github.com/iliyamo/restaurant-floor/internal/queue"
	"github.com/iliyamo/restaurant-floor/internal/repository"
	"github.com/iliyamo/restaurant-floor/internal/router"
	"github.com/iliyamo/restaurant-floor/internal/service"
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

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	areas := repository.NewAreaRepo(db)
	tables := repository.NewTableRepo(db)
	reservations := repository.NewReservationRepo(db)
	waitlist := repository.NewWaitlistRepo(db)
	orders := repository.NewOrderRepo(db)

	// Services.
	footprint := floorplan.Size{W: cfg.TableWidth, H: cfg.TableHeight}
	floorSvc := service.NewFloorService(tables, areas, queue.PublishTableMoved, footprint)
	reservationSvc := service.NewReservationService(reservations, users, tables, tables)
	waitlistSvc := service.NewWaitlistService(waitlist, areas, tables, queue.PublishWaitlistCalled)
	occupancy := service.NewOccupancyResolver(tables, reservations, orders,
		time.Duration(cfg.SeatingWindow)*time.Minute)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	areaH := handler.NewAreaHandler(areas)
	floorH := handler.NewFloorHandler(tables, floorSvc)
	reservationH := handler.NewReservationHandler(reservationSvc)
	waitlistH := handler.NewWaitlistHandler(waitlistSvc)
	availH := handler.NewAvailabilityHandler(occupancy, reservations)

	// Audit trail consumer for table moves.
	go func() {
		if err := queue.StartFloorConsumer(); err != nil {
			log.Printf("floor-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(rateMW)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterFloor(e, areaH, floorH, cfg.JWTSecret, cacheMW)
	router.RegisterBooking(e, reservationH, waitlistH, availH, cfg.JWTSecret, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
