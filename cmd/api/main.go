package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/choosee/choosee-api/internal/auth"
	"github.com/choosee/choosee-api/internal/config"
	"github.com/choosee/choosee-api/internal/database"
	"github.com/choosee/choosee-api/internal/handler"
	"github.com/choosee/choosee-api/internal/llm"
	"github.com/choosee/choosee-api/internal/mail"
	middlewarepkg "github.com/choosee/choosee-api/internal/middleware"
	"github.com/choosee/choosee-api/internal/places"
	"github.com/choosee/choosee-api/internal/repository"
	"github.com/choosee/choosee-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer redisClient.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL, cfg.RefreshTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	promptsRepo := repository.NewPGXPromptsRepository(pool)
	locationsRepo := repository.NewPGXLocationsRepository(pool)
	suggestionsRepo := repository.NewPGXSuggestionsRepository(pool)
	visitedRepo := repository.NewPGXVisitedRepository(pool)

	placesClient := places.NewClient(
		&http.Client{Timeout: 30 * time.Second},
		cfg.PlacesBaseURL, cfg.PlacesAPIKey, cfg.PhoneRegion,
	)
	geminiClient := llm.NewGeminiClient(
		&http.Client{Timeout: 90 * time.Second},
		cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel,
	)

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}

	orchestrator := service.NewSearchOrchestrator(placesClient, cfg.Search)
	rerankEngine := service.NewRerankEngine(geminiClient)

	authService := service.NewAuthService(
		usersRepo, jwtManager,
		auth.NewGoogleValidator(cfg.GoogleClientID),
		auth.NewRedisCodeStore(redisClient),
		mailer,
	)
	suggestionsService := service.NewSuggestionsService(
		orchestrator, rerankEngine, placesClient,
		promptsRepo, locationsRepo, suggestionsRepo,
	)
	visitedService := service.NewVisitedService(visitedRepo)

	authHandler := handler.NewAuthHandler(authService)
	nearbyHandler := handler.NewNearbyHandler(suggestionsService)
	suggestionsHandler := handler.NewSuggestionsHandler(suggestionsService)
	visitedHandler := handler.NewVisitedHandler(visitedService)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/google", authHandler.GoogleLogin)
	e.POST("/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/auth/verify-code", authHandler.VerifyCode)
	e.POST("/auth/reset-password", authHandler.ResetPassword)

	e.POST("/nearby", nearbyHandler.Nearby, middlewarepkg.NearbyRateLimiter(cfg.RateLimitNearby))

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/save_suggestions", suggestionsHandler.SaveSuggestions)
	secured.GET("/user_suggestions", suggestionsHandler.ListUserSuggestions)
	secured.POST("/visited/toggle_visited", visitedHandler.ToggleVisited)
	secured.POST("/visited/check_visited", visitedHandler.CheckVisited)
	secured.GET("/visited", visitedHandler.ListVisited)
	secured.GET("/visited/recent_visits", visitedHandler.RecentVisits)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	log.Printf("api listening addr=:%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("shutting down signal=%s", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("forced shutdown: %v", err)
		}
	}
}
