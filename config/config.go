package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr        string        `mapstructure:"HTTP_ADDR"`
	RefreshInterval time.Duration `mapstructure:"REFRESH_INTERVAL"`
	WindowSize      int           `mapstructure:"WINDOW_SIZE"`
	RandomSeed      int64         `mapstructure:"RANDOM_SEED"`
	// adds the generic single-channel vitals chart next to the four named channels
	VitalChart bool `mapstructure:"VITAL_CHART"`

	MarkerCount  int     `mapstructure:"MARKER_COUNT"`
	BaseLat      float64 `mapstructure:"BASE_LAT"`
	BaseLon      float64 `mapstructure:"BASE_LON"`
	MarkerJitter float64 `mapstructure:"MARKER_JITTER"`

	CameraDevice int `mapstructure:"CAMERA_DEVICE"`
	CameraFPS    int `mapstructure:"CAMERA_FPS"`
	CameraWidth  int `mapstructure:"CAMERA_WIDTH"`
	CameraHeight int `mapstructure:"CAMERA_HEIGHT"`
	JPEGQuality  int `mapstructure:"JPEG_QUALITY"`

	SnapshotSchedule   string `mapstructure:"SNAPSHOT_SCHEDULE"`
	SnapshotCollection string `mapstructure:"SNAPSHOT_COLLECTION"`
	// base64 service-account JSON, empty means in-memory storage
	FirebaseCredentials string `mapstructure:"FIREBASE_CREDENTIALS"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	GinMode  string `mapstructure:"GIN_MODE"`
}

var defaults = map[string]interface{}{
	"HTTP_ADDR":            ":8080",
	"REFRESH_INTERVAL":     "1s",
	"WINDOW_SIZE":          10,
	"RANDOM_SEED":          0,
	"VITAL_CHART":          true,
	"MARKER_COUNT":         10,
	"BASE_LAT":             34.0522,
	"BASE_LON":             -118.2437,
	"MARKER_JITTER":        0.03,
	"CAMERA_DEVICE":        0,
	"CAMERA_FPS":           10,
	"CAMERA_WIDTH":         640,
	"CAMERA_HEIGHT":        480,
	"JPEG_QUALITY":         80,
	"SNAPSHOT_SCHEDULE":    "@every 3s",
	"SNAPSHOT_COLLECTION":  "images",
	"FIREBASE_CREDENTIALS": "",
	"LOG_LEVEL":            "info",
	"GIN_MODE":             "release",
}

// Load reads envFiles (a missing .env is fine) and the process environment.
// With no envFiles it looks for .env in the working directory.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetupLogging points the global zerolog logger at stderr with the configured level.
func SetupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
