package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"gradecanvas/internal/ai"
	"gradecanvas/internal/config"
	"gradecanvas/internal/events"
	internalhttp "gradecanvas/internal/http"
	"gradecanvas/internal/jobs"
	"gradecanvas/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, using system env")
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	defer pool.Close()
	store := repository.NewStore(pool)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
	}

	var publisher events.Publisher
	if cfg.AMQPUrl != "" {
		publisher = events.NewAMQPPublisher(cfg.AMQPUrl)
	}

	completer := ai.NewOpenAICompleter(cfg.OpenAIKey, cfg.OpenAIModel, cfg.AITemperature, cfg.AIMaxTokens)

	server := internalhttp.NewServer(cfg, store, completer, publisher, redisClient)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	jobs.StartTokenCheckJob(ctx, cfg, store)

	go func() {
		log.Printf("gradecanvas http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
