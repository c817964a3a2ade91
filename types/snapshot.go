package types

import "time"

// Snapshot is a persisted camera frame.
type Snapshot struct {
	ID          string    `firestore:"-" json:"id"`
	Timestamp   time.Time `firestore:"timestamp" json:"timestamp"`
	ImageBase64 string    `firestore:"image_base64" json:"-"`
	Width       int       `firestore:"width" json:"width"`
	Height      int       `firestore:"height" json:"height"`
}
