// Entry point for the attendance bot
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance.bot/internal/adapters/discord"
	"attendance.bot/internal/api"
	"attendance.bot/internal/config"
	"attendance.bot/internal/core"
	"attendance.bot/internal/ports/messaging"
	"attendance.bot/internal/ports/repository"
	"attendance.bot/internal/scheduler"
	"attendance.bot/pkg/aws"
	"attendance.bot/pkg/database"
	"attendance.bot/pkg/logger"
	"attendance.bot/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/bwmarrin/discordgo"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	// Configure structured logging
	logger.Setup(cfg.IsLocalDev)

	// Configure OpenTelemetry Tracing
	shutdownTracer, err := telemetry.InitTracer("attendance-bot")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// Schema bootstrap on a plain connection; DDL does not need tracing
	setupDB, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	if err := repository.NewAttendanceRepository(setupDB).EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure attendance schema")
	}
	setupDB.Close()

	// Instrumented connection for everything serving traffic
	db, err := database.NewInstrumentedConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()
	log.Info().Msg("Successfully connected to the database.")

	repo := repository.NewAttendanceRepository(db)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("Unknown office timezone")
	}

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	sqsClient := sqs.NewFromConfig(awsCfg)
	producer := messaging.NewSQSProducer(sqsClient, cfg.AttendanceSQSQueueURL)

	// Discord session; opened below by the bot adapter
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Discord session")
	}
	notifier := discord.NewNotifier(session)

	policy := core.Policy{
		Cutoff:        cfg.CutoffTime,
		FineThreshold: cfg.FineThreshold,
		FineAmount:    cfg.FineAmount,
		ExcludedRoles: cfg.ExcludedRoleNames(),
	}

	attendance := core.NewAttendanceService(repo, policy, notifier, producer, cfg.AttendanceChannelID, loc)
	reports := core.NewReportService(repo, policy, notifier)

	var mailer core.FinesMailer
	if cfg.LeadershipEmail != "" {
		mailer = core.NewSESFinesMailer(ses.NewFromConfig(awsCfg), cfg.ReportSenderEmail, cfg.LeadershipEmail)
	}

	bot := discord.NewBot(session, attendance, reports, cfg.GuildID)
	if err := bot.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to open Discord gateway connection")
	}
	defer bot.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Automatic monthly report, anchored to local midnight
	monthly := scheduler.NewMonthlyReporter(reports, mailer, cfg.LeadershipChannelID, loc)
	go monthly.Run(ctx)

	// Ops HTTP server
	router := api.NewRouter(reports, cfg.LeadershipChannelID)

	// Middleware to inject logger with trace ID
	loggerMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.EnrichContextWithLogger(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	// Wrap the router with OpenTelemetry middleware to create spans for each request
	handler := otelhttp.NewHandler(loggerMiddleware(router), "ops-api")

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: handler,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Ops API starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shut everything down.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Bot exiting")
}
