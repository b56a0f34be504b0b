package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/configs"
	database "schoolku_backend/internals/databases"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/blob"
	middlewares "schoolku_backend/internals/middlewares"
	routes "schoolku_backend/internals/route"
	"schoolku_backend/internals/scheduler"
	"schoolku_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		BodyLimit:               (cfg.MaxUploadMB + 1) << 20,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"}, // sesuaikan dengan CIDR Cloudflare jika perlu
	})

	// ⚙️ middleware dasar + request id + limiter
	middlewares.SetupMiddlewares(app, cfg)

	// 🔌 DB connect + pool
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("[ERROR] database: %v", err)
	}
	database.TunePool(db)

	if configs.GetEnvBool("AUTO_MIGRATE", false) {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("[ERROR] migrate: %v", err)
		}
	}
	if configs.GetEnvBool("RUN_SEEDS", false) {
		seeds.RunAllSeeds(db)
	}

	storage, err := blob.New(cfg)
	if err != nil {
		log.Fatalf("[ERROR] storage: %v", err)
	}

	// ⏱ scheduler setelah DB siap
	reaper, err := scheduler.Start(db, storage, cfg)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	// ✅ Routes (termasuk /health)
	routes.SetupRoutes(app, routes.Deps{DB: db, Config: cfg, Storage: storage})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + stop reaper + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	<-reaper.Stop().Done()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
