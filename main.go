package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/chantier-backend/api"
	"github.com/rpupo63/chantier-backend/config"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/rpupo63/chantier-backend/services"
	"github.com/rpupo63/chantier-backend/usecases"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	c := config.New()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := config.LoadSSM(ctx, c); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Error loading SSM parameters")
	}
	cancel()

	if level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		report, err := models.ColumnMismatches(db)
		if err != nil {
			log.Fatal().Err(err).Msg("Error building column report")
		}
		models.PrintColumnReport(report)
		return
	}

	currentDB := database.New(db)

	opts, err := buildOptions(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing services")
	}
	uc := usecases.New(currentDB, opts)

	errChannel := make(chan error)
	defer close(errChannel)

	server := api.NewServer(c, currentDB, uc)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(config.GetDuration(c, "SHUTDOWN_TIMEOUT", 30*time.Second))
}

// buildOptions wires the outbound services. Mail, broadcast and blob storage
// are each optional; an unconfigured one is left out and its channel skipped.
func buildOptions(c map[string]string) (usecases.Options, error) {
	opts := usecases.Options{
		JWTSecret: config.GetString(c, "JWT_SECRET", ""),
		TokenTTL:  config.GetDuration(c, "TOKEN_TTL", 24*time.Hour),
	}
	if opts.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, logins will be refused")
	}

	var mail services.MailSender
	if mailer, err := services.NewResendMailer(c); err != nil {
		log.Warn().Err(err).Msg("Mail delivery disabled")
	} else {
		mail = mailer
	}

	var pub services.Publisher
	if client := services.NewRedisClient(c); client != nil {
		pub = services.NewRedisBroadcaster(client)
	} else {
		log.Warn().Msg("REDIS_ADDR is not set, realtime broadcast disabled")
	}

	opts.Deliverer = services.NewNotifier(mail, pub, config.GetString(c, "APP_URL", ""))

	blobs, err := services.NewS3BlobStore(context.Background(), c)
	if err != nil {
		return opts, fmt.Errorf("blob storage: %w", err)
	}
	if blobs != nil {
		opts.Blobs = blobs
	} else {
		log.Warn().Msg("S3_BUCKET is not set, uploads disabled")
	}

	return opts, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
