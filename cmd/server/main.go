package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // Loads .env files in development
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-station-booking/internal/booking"
	"github.com/iliyamo/ev-station-booking/internal/config"
	"github.com/iliyamo/ev-station-booking/internal/database"
	"github.com/iliyamo/ev-station-booking/internal/handler"
	"github.com/iliyamo/ev-station-booking/internal/jobs"
	"github.com/iliyamo/ev-station-booking/internal/queue"
	"github.com/iliyamo/ev-station-booking/internal/repository"
	"github.com/iliyamo/ev-station-booking/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared connection pool.
	reservations := repository.NewReservationRepo(db)
	stations := repository.NewStationRepo(db)
	schedules := repository.NewScheduleRepo(db)
	users := repository.NewUserRepo(db)

	// The booking engine holds all reservation rules; handlers stay thin.
	engine := booking.NewEngine(reservations, stations,
		booking.WithUnitsPerHour(cfg.UnitsPerHour))

	// Redis is optional: a nil client downgrades rate limiting to a
	// pass-through instead of blocking startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}
	rlCfg := config.LoadRateLimitConfig()

	// Background workers: the event consumer writes the audit log and
	// the cron job emits upcoming-session reminders.
	go queue.StartReservationConsumer(cfg.AMQPURL)
	reminders := jobs.StartReminderCron(reservations)
	defer reminders.Stop()

	e := echo.New()
	router.RegisterRoutes(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users),
		Reservations: handler.NewReservationHandler(engine),
		Stations:     handler.NewStationHandler(stations, reservations),
		Schedules:    handler.NewScheduleHandler(stations, schedules),
		Scan:         handler.NewScanHandler(engine),
	}, cfg, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
