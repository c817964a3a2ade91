package types

type Channel string

const (
	HeartRate     Channel = "heart_rate"
	Oxygen        Channel = "oxygen"
	Temperature   Channel = "temperature"
	BloodPressure Channel = "blood_pressure"
	// Vital is the generic single-channel variant.
	Vital Channel = "vital"
)

// ChannelSpec describes how a channel is generated and drawn.
// Min/Max bound generation only; DisplayMin/DisplayMax are the chart's y-axis.
type ChannelSpec struct {
	Channel    Channel `json:"channel" mapstructure:"channel"`
	Label      string  `json:"label" mapstructure:"label"`
	Unit       string  `json:"unit" mapstructure:"unit"`
	Min        float64 `json:"min" mapstructure:"min"`
	Max        float64 `json:"max" mapstructure:"max"`
	DisplayMin float64 `json:"displayMin" mapstructure:"display_min"`
	DisplayMax float64 `json:"displayMax" mapstructure:"display_max"`
}

// DefaultChannels is the four-channel vital-sign table.
var DefaultChannels = []ChannelSpec{
	{Channel: HeartRate, Label: "Heart Rate", Unit: "bpm", Min: 60, Max: 100, DisplayMin: 50, DisplayMax: 120},
	{Channel: Oxygen, Label: "Oxygen Saturation", Unit: "%", Min: 90, Max: 100, DisplayMin: 85, DisplayMax: 102},
	{Channel: Temperature, Label: "Temperature", Unit: "°C", Min: 36, Max: 37.5, DisplayMin: 35, DisplayMax: 39},
	{Channel: BloodPressure, Label: "Blood Pressure (systolic)", Unit: "mmHg", Min: 110, Max: 130, DisplayMin: 100, DisplayMax: 140},
}

// VitalChannel is the generic single-channel table.
var VitalChannel = ChannelSpec{Channel: Vital, Label: "Vital Signs Over Time", Unit: "", Min: 60, Max: 100, DisplayMin: 50, DisplayMax: 120}

type ChannelSeries struct {
	Channel    Channel   `json:"channel"`
	Label      string    `json:"label"`
	Unit       string    `json:"unit"`
	Values     []float64 `json:"values"`
	DisplayMin float64   `json:"displayMin"`
	DisplayMax float64   `json:"displayMax"`
}

// TelemetryView is what every tick pushes to the presentation layer.
type TelemetryView struct {
	Tick     uint64          `json:"tick"`
	Channels []ChannelSeries `json:"channels"`
}
