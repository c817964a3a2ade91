// Command snapshotviewer polls the snapshot collection and keeps the most
// recent camera snapshot on disk.
package main

import (
	"bytes"
	"context"
	"flag"
	"image/jpeg"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"go-fieldwatch/config"
	"go-fieldwatch/db"
	"go-fieldwatch/snapshot"
)

func main() {
	out := flag.String("out", "latest.jpg", "file the latest snapshot is written to")
	every := flag.Duration("every", 3*time.Second, "poll interval")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	config.SetupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.FirebaseCredentials == "" {
		log.Fatal().Msg("FIREBASE_CREDENTIALS is required to read snapshots")
	}
	client, err := db.InitFirestore(ctx, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firestore")
	}
	store := db.NewFirestoreStore(client)
	defer store.Close()

	log.Info().Dur("every", *every).Str("out", *out).Msg("Displaying the latest image. Press Ctrl+C to stop.")

	ticker := time.NewTicker(*every)
	defer ticker.Stop()
	var lastID string
	for {
		lastID = refresh(ctx, store, cfg.SnapshotCollection, *out, lastID)
		select {
		case <-ctx.Done():
			log.Info().Msg("Exiting image display.")
			return
		case <-ticker.C:
		}
	}
}

// refresh writes the newest snapshot to out when it differs from lastID and
// returns the id now on disk.
func refresh(ctx context.Context, store db.DocumentStore, collection, out, lastID string) string {
	snap, ok := snapshot.Latest(ctx, store, collection)
	if !ok {
		log.Warn().Msg("No valid image data found in the last document.")
		return lastID
	}
	if snap.ID == lastID {
		return lastID
	}

	data, err := snapshot.Decode(snap)
	if err != nil {
		log.Error().Err(err).Msg("Error displaying image")
		return lastID
	}
	if _, err := jpeg.DecodeConfig(bytes.NewReader(data)); err != nil {
		log.Error().Err(err).Msg("Could not decode the image.")
		return lastID
	}

	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Error().Err(err).Msg("Error writing image")
		return lastID
	}
	if err := os.Rename(tmp, out); err != nil {
		log.Error().Err(err).Msg("Error writing image")
		return lastID
	}
	log.Info().Str("id", snap.ID).Time("taken", snap.Timestamp).Msg("Last captured image updated")
	return snap.ID
}
