package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"go-fieldwatch/config"
	"go-fieldwatch/cronjobs"
	"go-fieldwatch/dashboard"
	"go-fieldwatch/db"
	"go-fieldwatch/hub"
	"go-fieldwatch/markers"
	"go-fieldwatch/refresh"
	"go-fieldwatch/routes"
	"go-fieldwatch/snapshot"
	"go-fieldwatch/stream"
	"go-fieldwatch/types"
)

func openStore(ctx context.Context, cfg config.Config) db.DocumentStore {
	if cfg.FirebaseCredentials == "" {
		log.Warn().Msg("FIREBASE_CREDENTIALS not set, snapshots are kept in memory")
		return db.NewMemoryStore()
	}
	firestoreClient, err := db.InitFirestore(ctx, cfg.FirebaseCredentials)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Firestore, falling back to memory")
		return db.NewMemoryStore()
	}
	return db.NewFirestoreStore(firestoreClient)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	config.SetupLogging(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg)
	defer store.Close()

	channels := append([]types.ChannelSpec(nil), types.DefaultChannels...)
	if cfg.VitalChart {
		channels = append(channels, types.VitalChannel)
	}
	state := dashboard.New(dashboard.Options{
		Channels:   channels,
		WindowSize: cfg.WindowSize,
		Seed:       cfg.RandomSeed,
		Markers: markers.SeedConfig{
			Count:  cfg.MarkerCount,
			Base:   types.Coordinates{Lat: cfg.BaseLat, Lon: cfg.BaseLon},
			Jitter: cfg.MarkerJitter,
			Seed:   cfg.RandomSeed,
		},
	})

	pushHub := hub.NewHub()
	coordinator := refresh.NewCoordinator(cfg.RefreshInterval, state)
	coordinator.Subscribe(func(view types.TelemetryView) {
		pushHub.Broadcast(hub.KindTelemetry, view)
	})

	camera := stream.NewSyntheticCamera(cfg.CameraWidth, cfg.CameraHeight, cfg.CameraFPS)
	streamer := stream.NewStreamer(camera, cfg.CameraDevice, cfg.JPEGQuality)

	recorder := snapshot.NewRecorder(streamer, store, cfg.SnapshotCollection)
	jobs, err := cronjobs.InitCronJobs(ctx, cfg.SnapshotSchedule, func(ctx context.Context) bool {
		_, ok := recorder.Capture(ctx)
		return ok
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error scheduling cron jobs")
	}

	r := routes.SetupRouter(routes.Deps{
		State:              state,
		Hub:                pushHub,
		Streamer:           streamer,
		Store:              store,
		SnapshotCollection: cfg.SnapshotCollection,
	})
	if err := coordinator.Start(); err != nil {
		log.Fatal().Err(err).Msg("Error starting refresh coordinator")
	}

	g, gctx := errgroup.WithContext(ctx)
	// request contexts end with gctx so open video feeds let go of the camera
	server := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     r,
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		pushHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting dashboard server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		coordinator.Stop(shutdownCtx)
		<-jobs.Stop().Done()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error().Err(err).Msg("dashboard stopped with error")
	}
	log.Info().Msg("Dashboard stopped.")
}
