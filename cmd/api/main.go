package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmz-api/internal/application/auth"
	"github.com/cmz-api/internal/config"
	"github.com/cmz-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/cmz-api/internal/infrastructure/jwt"
	s3infra "github.com/cmz-api/internal/infrastructure/s3"
	snsinfra "github.com/cmz-api/internal/infrastructure/sns"
	transporthttp "github.com/cmz-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Every route behind /v1 except health and login needs token verification,
	// so a missing JWT secret is fatal rather than a degraded mode.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// S3 store for media objects.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SNS alert publisher (optional — guardrail alerting off when unset).
	var alerts snsinfra.AlertPublisher
	if pub, err := snsinfra.NewPublisher(cfg); err == nil {
		alerts = pub
	} else {
		log.Printf("WARN: SNS alerting not available: %v", err)
	}

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)

	// Seed account so non-production stacks come up with a usable login.
	if cfg.AppEnv != "production" {
		seedSvc := auth.NewService(userRepo, jwtProvider)
		if err := seedSvc.EnsureSeedAdmin(context.Background(), cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			log.Printf("WARN: seed admin: %v", err)
		}
	}

	deps := &transporthttp.Deps{
		DynamoClient:     dynamoClient,
		UserRepo:         userRepo,
		AnimalRepo:       dynamo.NewAnimalRepo(dynamoClient, cfg.DynamoTables.Animals),
		FamilyRepo:       dynamo.NewFamilyRepo(dynamoClient, cfg.DynamoTables.Families),
		GuardrailRepo:    dynamo.NewGuardrailRepo(dynamoClient, cfg.DynamoTables.Guardrails),
		ConversationRepo: dynamo.NewConversationRepo(dynamoClient, cfg.DynamoTables.Conversations),
		MediaRepo:        dynamo.NewMediaRepo(dynamoClient, cfg.DynamoTables.Media),
		S3Store:          s3Store,
		Alerts:           alerts,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
