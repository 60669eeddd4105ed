package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hostel_manager/config"
	"hostel_manager/database"
	"hostel_manager/handler"
	"hostel_manager/helper"
	"hostel_manager/logger"
	"hostel_manager/router"
	"hostel_manager/service"
	"hostel_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "hostel-manager")
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	db, err := database.ConnectDB(cfg, zlog)
	if err != nil {
		zlog.Fatal("database", zap.Error(err))
	}
	if err := database.SeedData(db, cfg.SeedDemo, zlog); err != nil {
		zlog.Fatal("seed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := helper.NewOccupancyHub()
	opts := []service.Option{service.WithPublisher(hub)}
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
		pub := helper.NewRedisPublisher(rdb, zlog)
		opts[0] = service.WithPublisher(pub)
		go func() {
			if err := pub.Relay(ctx, hub); err != nil {
				zlog.Error("occupancy relay stopped", zap.Error(err))
			}
		}()
	}
	if mailer := utils.NewMailer(cfg, zlog); mailer != nil {
		opts = append(opts, service.WithNotifier(mailer))
	}
	svc := service.New(db, zlog, opts...)

	scheduler, err := helper.StartAuditScheduler(svc.Rooms, svc.Bookings, zlog, cfg.AuditHour, cfg.AuditMinute)
	if err != nil {
		zlog.Fatal("scheduler", zap.Error(err))
	}
	defer scheduler.Shutdown()

	app := fiber.New(fiber.Config{
		BodyLimit: 4 * 1024 * 1024,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept, X-Request-ID",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie, X-Request-ID, Content-Disposition",
		MaxAge:           600,
	}))

	router.SetupRoutes(app, handler.New(db, svc, cfg, zlog, hub))

	go func() {
		<-ctx.Done()
		zlog.Info("shutting down")
		_ = app.Shutdown()
	}()

	zlog.Info("listening", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zlog.Error("listen", zap.Error(err))
	}
}
