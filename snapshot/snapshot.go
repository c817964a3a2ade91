package snapshot

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"go-fieldwatch/db"
	"go-fieldwatch/stream"
	"go-fieldwatch/types"
)

const (
	DefaultCollection = "images"
	timestampField    = "timestamp"
	imageField        = "image_base64"
	idLayout          = "20060102T150405.000000Z"
)

// FrameSource yields single frames; *stream.Streamer satisfies it.
type FrameSource interface {
	Snapshot() (stream.Frame, error)
}

// DocumentID derives the document id from the capture time. Firestore keeps
// timestamps to the microsecond, so the id does too.
func DocumentID(ts time.Time) string {
	return ts.UTC().Format(idLayout)
}

// Recorder persists periodic camera snapshots.
type Recorder struct {
	source     FrameSource
	store      db.DocumentStore
	collection string
	now        func() time.Time
}

func NewRecorder(source FrameSource, store db.DocumentStore, collection string) *Recorder {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Recorder{source: source, store: store, collection: collection, now: time.Now}
}

// Capture grabs one frame and writes it. Failures are logged and reported as
// a false return; they never propagate further.
func (r *Recorder) Capture(ctx context.Context) (types.Snapshot, bool) {
	frame, err := r.source.Snapshot()
	if err != nil {
		if errors.Is(err, stream.ErrCameraBusy) {
			log.Debug().Msg("snapshot skipped, camera is streaming")
		} else {
			log.Error().Err(err).Msg("snapshot capture failed")
		}
		return types.Snapshot{}, false
	}

	ts := frame.Timestamp
	if ts.IsZero() {
		ts = r.now()
	}
	ts = ts.UTC().Truncate(time.Microsecond)
	snap := types.Snapshot{
		ID:          DocumentID(ts),
		Timestamp:   ts,
		ImageBase64: base64.StdEncoding.EncodeToString(frame.Data),
		Width:       frame.Width,
		Height:      frame.Height,
	}

	record := db.Record{
		timestampField: snap.Timestamp,
		imageField:     snap.ImageBase64,
		"width":        snap.Width,
		"height":       snap.Height,
	}
	if err := r.store.Write(ctx, r.collection, snap.ID, record); err != nil {
		log.Error().Err(err).Str("doc", snap.ID).Msg("error writing snapshot")
		return types.Snapshot{}, false
	}
	log.Debug().Str("doc", snap.ID).Int("bytes", len(frame.Data)).Msg("snapshot written")
	return snap, true
}

// Latest returns the newest stored snapshot. Missing, malformed or unreadable
// documents are logged and reported as absent.
func Latest(ctx context.Context, store db.DocumentStore, collection string) (types.Snapshot, bool) {
	if collection == "" {
		collection = DefaultCollection
	}
	record, err := store.ReadLatest(ctx, collection, timestampField)
	if err != nil {
		log.Error().Err(err).Str("collection", collection).Msg("error reading latest snapshot")
		return types.Snapshot{}, false
	}
	if record == nil {
		return types.Snapshot{}, false
	}

	snap, err := fromRecord(record)
	if err != nil {
		log.Warn().Err(err).Msg("no valid image data found in the last document")
		return types.Snapshot{}, false
	}
	return snap, true
}

// Decode returns the raw JPEG bytes of snap.
func Decode(snap types.Snapshot) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(snap.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	return data, nil
}

func fromRecord(record db.Record) (types.Snapshot, error) {
	image, ok := record[imageField].(string)
	if !ok || image == "" {
		return types.Snapshot{}, fmt.Errorf("document has no %s", imageField)
	}
	ts, ok := record[timestampField].(time.Time)
	if !ok {
		return types.Snapshot{}, fmt.Errorf("document has no %s", timestampField)
	}
	return types.Snapshot{
		ID:          DocumentID(ts),
		Timestamp:   ts,
		ImageBase64: image,
		Width:       intField(record["width"]),
		Height:      intField(record["height"]),
	}, nil
}

// Firestore hands integers back as int64.
func intField(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
