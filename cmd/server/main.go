package main

import (
	"log"
	"net/http"

	_ "habitgrid/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"habitgrid/internal/auth"
	"habitgrid/internal/cache"
	"habitgrid/internal/config"
	"habitgrid/internal/db"
	"habitgrid/internal/handler"
	"habitgrid/internal/model"
	"habitgrid/internal/repository"
	"habitgrid/internal/router"
	"habitgrid/internal/service"
)

// @title Habit Tracker API
// @version 1.0
// @description Habit tracking API with daily completion counters, year heat-grid views, and JWT authentication.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Habit{},
		&model.HabitRecord{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	habitRepo := repository.NewHabitRepository(gormDB)
	recordRepo := repository.NewHabitRecordRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	habitService := service.NewHabitService(habitRepo, cacheClient)
	trackingService := service.NewTrackingService(habitRepo, recordRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	habitHandler := handler.NewHabitHandler(habitService)
	trackingHandler := handler.NewTrackingHandler(trackingService)

	// Register routes
	router.Register(
		e,
		cfg,
		userRepo,
		tokenStore,
		authHandler,
		habitHandler,
		trackingHandler,
	)

	addr := ":" + cfg.ServerPort
	log.Printf("Swagger documentation available at: http://localhost%s/swagger/index.html", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
