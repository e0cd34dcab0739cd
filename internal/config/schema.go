package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version    int              `yaml:"version" toml:"version"`
	Server     ServerConfig     `yaml:"server" toml:"server"`
	Database   DatabaseConfig   `yaml:"database" toml:"database"`
	Viewport   ViewportConfig   `yaml:"viewport" toml:"viewport"`
	Simulation SimulationConfig `yaml:"simulation" toml:"simulation"`
	Forces     ForcesConfig     `yaml:"forces" toml:"forces"`
	Graph      GraphConfig      `yaml:"graph" toml:"graph"`
	Load       LoadConfig       `yaml:"load" toml:"load"`
}

// ServerConfig holds HTTP and session loop settings
type ServerConfig struct {
	Addr         string   `yaml:"addr" toml:"addr"`
	TickInterval Duration `yaml:"tick_interval" toml:"tick_interval"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// ViewportConfig describes the drawing canvas
type ViewportConfig struct {
	Width      float64 `yaml:"width" toml:"width"`
	Height     float64 `yaml:"height" toml:"height"`
	Dynamic    *bool   `yaml:"dynamic,omitempty" toml:"dynamic,omitempty"` // follow the browser's size
	Clamp      *bool   `yaml:"clamp,omitempty" toml:"clamp,omitempty"`
	Background string  `yaml:"background" toml:"background"`
}

// SimulationConfig tunes the integrator; zero values keep the stock schedule
type SimulationConfig struct {
	AlphaMin      float64 `yaml:"alpha_min,omitempty" toml:"alpha_min,omitempty"`
	AlphaDecay    float64 `yaml:"alpha_decay,omitempty" toml:"alpha_decay,omitempty"`
	VelocityDecay float64 `yaml:"velocity_decay,omitempty" toml:"velocity_decay,omitempty"`
	Seed          uint64  `yaml:"seed,omitempty" toml:"seed,omitempty"`
}

// ForcesConfig holds per-force parameters
type ForcesConfig struct {
	Link    LinkConfig    `yaml:"link" toml:"link"`
	Charge  ChargeConfig  `yaml:"charge" toml:"charge"`
	Center  CenterConfig  `yaml:"center" toml:"center"`
	Collide CollideConfig `yaml:"collide" toml:"collide"`
	Anchor  AnchorConfig  `yaml:"anchor" toml:"anchor"`
}

// LinkConfig parameterises the link spring
type LinkConfig struct {
	Distance   float64 `yaml:"distance" toml:"distance"`
	Iterations int     `yaml:"iterations" toml:"iterations"`
}

// ChargeConfig parameterises many-body repulsion
type ChargeConfig struct {
	Strength    float64 `yaml:"strength" toml:"strength"`
	Theta       float64 `yaml:"theta" toml:"theta"`
	DistanceMin float64 `yaml:"distance_min,omitempty" toml:"distance_min,omitempty"`
	DistanceMax float64 `yaml:"distance_max,omitempty" toml:"distance_max,omitempty"`
}

// CenterConfig keeps the layout's centroid at a point; nil X/Y mean the
// middle of the canvas
type CenterConfig struct {
	Enabled  *bool    `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	X        *float64 `yaml:"x,omitempty" toml:"x,omitempty"`
	Y        *float64 `yaml:"y,omitempty" toml:"y,omitempty"`
	Strength float64  `yaml:"strength" toml:"strength"`
}

// CollideConfig keeps node circles from overlapping
type CollideConfig struct {
	Enabled bool    `yaml:"enabled" toml:"enabled"`
	Padding float64 `yaml:"padding" toml:"padding"`
}

// AnchorConfig pulls one node toward a point
type AnchorConfig struct {
	Enabled  *bool    `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Node     string   `yaml:"node" toml:"node"`
	X        *float64 `yaml:"x,omitempty" toml:"x,omitempty"`
	Y        *float64 `yaml:"y,omitempty" toml:"y,omitempty"`
	Strength float64  `yaml:"strength" toml:"strength"`
}

// GraphConfig holds editing behaviour
type GraphConfig struct {
	IDs             string  `yaml:"ids" toml:"ids"`           // counter or uuid
	HubNode         string  `yaml:"hub_node" toml:"hub_node"` // target of important tasks
	SpawnOffset     float64 `yaml:"spawn_offset" toml:"spawn_offset"`
	DragAlphaTarget float64 `yaml:"drag_alpha_target" toml:"drag_alpha_target"`
}

// LoadConfig holds snapshot restore policies
type LoadConfig struct {
	Links    string `yaml:"links" toml:"links"`       // skip or abort
	Velocity string `yaml:"velocity" toml:"velocity"` // preserve or reset
}

// Duration wraps time.Duration for YAML and TOML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the TOML decoder
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
