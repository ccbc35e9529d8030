package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hall-booking/internal/config"
	"github.com/iliyamo/hall-booking/internal/database"
	"github.com/iliyamo/hall-booking/internal/handler"
	"github.com/iliyamo/hall-booking/internal/middleware"
	"github.com/iliyamo/hall-booking/internal/queue"
	"github.com/iliyamo/hall-booking/internal/repository"
	"github.com/iliyamo/hall-booking/internal/router"
	"github.com/iliyamo/hall-booking/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := database.Migrate(ctx, db, database.MySQL); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	users := repository.NewUserRepo(db)
	if cfg.AdminRegNo != "" && cfg.AdminPassword != "" {
		created, err := users.EnsureAdmin(ctx, cfg.AdminRegNo, cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
		if created {
			log.Infof("created administrator %s", cfg.AdminRegNo)
		}
	}

	// Redis is optional: without it the cache and the limiter pass through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	halls := repository.NewHallRepo(db)
	schedule := repository.NewScheduleRepo(db, database.MySQL)
	bookings := repository.NewBookingRepo(db)
	modules := repository.NewModuleRepo(db)

	checker := service.NewAvailabilityChecker(halls, schedule)
	events := repository.NewEventRepo(db)
	coordinator := service.NewBookingCoordinator(db, schedule, bookings, modules, events)
	builder := service.NewTimetableBuilder(schedule, halls, service.GridOptions{})

	if cfg.AMQPURL != "" {
		pub := service.NewAMQPPublisher(cfg.AMQPURL)
		defer pub.Close()
		coordinator.WithPublisher(pub)
		go func() {
			if err := queue.StartBookingConsumer(ctx, cfg.AMQPURL, cfg.BookingLogPath); err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("booking consumer stopped: %v", err)
			}
		}()
	} else {
		log.Warn("AMQP_URL not set; booking events are not published")
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	if cfg.Env == "dev" {
		e.Logger.SetLevel(log.DEBUG)
	}
	e.Validator = handler.NewValidator()

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			c.Logger().Infof("%s %s status=%d latency=%s request_id=%s err=%v",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
			return nil
		},
	}))
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, repository.NewTokenRepo(db)), cfg.JWTSecret)
	router.RegisterBooking(e, handler.NewBookingHandler(checker, coordinator, bookings, cache), cfg.JWTSecret, limiter)
	router.RegisterTimetable(e, handler.NewTimetableHandler(schedule, halls, events, builder), cache.Middleware())
	router.RegisterHalls(e, handler.NewHallHandler(halls, bookings, cache), cfg.JWTSecret)
	router.RegisterRegistry(e, handler.NewRegistryHandler(cfg,
		repository.NewStaffRepo(db, users, modules), modules), cfg.JWTSecret)
	router.RegisterStudents(e, handler.NewStudentHandler(cfg, repository.NewStudentRepo(db, users)), cfg.JWTSecret)
	router.RegisterNotes(e, handler.NewNoteHandler(repository.NewNoteRepo(db)), cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
