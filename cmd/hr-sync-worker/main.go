// Entry point for the HR sync worker
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"attendance.bot/internal/config"
	"attendance.bot/internal/worker"
	"attendance.bot/internal/worker/hrapi"
	"attendance.bot/internal/worker/hrsync"
	"attendance.bot/pkg/aws"
	"attendance.bot/pkg/logger"
	"attendance.bot/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	logger.Setup(cfg.IsLocalDev)

	shutdownTracer, err := telemetry.InitTracer("hr-sync-worker")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	sqsClient := sqs.NewFromConfig(awsCfg)
	hrClient := hrapi.NewHTTPClient(cfg.HRAPIURL)
	processor := hrsync.NewProcessor(hrClient)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down worker...")
		cancel()
	}()

	w := worker.NewWorker(sqsClient, cfg.AttendanceSQSQueueURL, processor)
	w.Start(ctx)

	log.Info().Msg("Worker exiting")
}
