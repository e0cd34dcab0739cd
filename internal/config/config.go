// Package config provides configuration management for forcemap.
//
// The config file describes the canvas, the force parameters and the editing
// behaviour. Force, interaction and load settings can be reloaded while the
// server runs; server and database settings apply at startup.
//
// Config file locations (priority order):
//  1. $FORCEMAP_CONFIG
//  2. ./forcemap.yaml
//  3. $XDG_CONFIG_HOME/forcemap/config.yaml
//  4. ~/.config/forcemap/config.yaml
//  5. /etc/forcemap/config.yaml
//
// Files ending in .toml are read as TOML, everything else as YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"forcemap/internal/domain"
	"forcemap/internal/editor"
	"forcemap/internal/interaction"
	"forcemap/internal/render"
	"forcemap/internal/simulation"
	"forcemap/internal/store"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Stock values
const (
	DefaultAddr         = ":3000"
	DefaultDatabasePath = "./forcemap.db"
	DefaultTickInterval = 16 * time.Millisecond
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func boolPtr(b bool) *bool { return &b }

func isSet(p *bool) bool { return p != nil && *p }

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.TickInterval <= 0 {
		c.Server.TickInterval = Duration(DefaultTickInterval)
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}

	if c.Viewport.Width <= 0 {
		c.Viewport.Width = editor.DefaultWidth
	}
	if c.Viewport.Height <= 0 {
		c.Viewport.Height = editor.DefaultHeight
	}
	if c.Viewport.Dynamic == nil {
		c.Viewport.Dynamic = boolPtr(true)
	}
	if c.Viewport.Clamp == nil {
		c.Viewport.Clamp = boolPtr(true)
	}
	if c.Viewport.Background == "" {
		c.Viewport.Background = render.DefaultBackground
	}

	f := &c.Forces
	if f.Link.Distance <= 0 {
		f.Link.Distance = simulation.DefaultLinkDistance
	}
	if f.Link.Iterations <= 0 {
		f.Link.Iterations = 1
	}
	if f.Charge.Strength == 0 {
		f.Charge.Strength = editor.DefaultChargeStrength
	}
	if f.Charge.Theta <= 0 {
		f.Charge.Theta = 0.9
	}
	if f.Center.Enabled == nil {
		f.Center.Enabled = boolPtr(true)
	}
	if f.Center.Strength <= 0 {
		f.Center.Strength = 1
	}
	if f.Anchor.Enabled == nil {
		f.Anchor.Enabled = boolPtr(true)
	}
	if f.Anchor.Strength <= 0 {
		f.Anchor.Strength = simulation.DefaultAnchorStrength
	}

	if c.Graph.IDs == "" {
		c.Graph.IDs = "counter"
	}
	if c.Graph.HubNode == "" {
		c.Graph.HubNode = editor.DefaultHubID.String()
	}
	if f.Anchor.Node == "" {
		f.Anchor.Node = c.Graph.HubNode
	}
	if c.Graph.SpawnOffset == 0 {
		c.Graph.SpawnOffset = editor.DefaultSpawnOffset
	}
	if c.Graph.DragAlphaTarget <= 0 {
		c.Graph.DragAlphaTarget = interaction.DefaultDragAlphaTarget
	}

	if c.Load.Links == "" {
		c.Load.Links = string(store.LinkPolicySkip)
	}
	if c.Load.Velocity == "" {
		c.Load.Velocity = string(store.VelocityPreserve)
	}
}

// Validate rejects values the editor cannot honour
func (c *Config) Validate() error {
	var errs []error
	switch c.Graph.IDs {
	case "counter", "uuid":
	default:
		errs = append(errs, fmt.Errorf("graph.ids must be counter or uuid, got %q", c.Graph.IDs))
	}
	switch store.LinkPolicy(c.Load.Links) {
	case store.LinkPolicySkip, store.LinkPolicyAbort:
	default:
		errs = append(errs, fmt.Errorf("load.links must be skip or abort, got %q", c.Load.Links))
	}
	switch store.VelocityPolicy(c.Load.Velocity) {
	case store.VelocityPreserve, store.VelocityReset:
	default:
		errs = append(errs, fmt.Errorf("load.velocity must be preserve or reset, got %q", c.Load.Velocity))
	}
	if c.Forces.Collide.Padding < 0 {
		errs = append(errs, fmt.Errorf("forces.collide.padding must not be negative"))
	}
	if c.Graph.DragAlphaTarget > 1 {
		errs = append(errs, fmt.Errorf("graph.drag_alpha_target must be at most 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// ForceOptions converts the force section
func (c *Config) ForceOptions() editor.ForceOptions {
	f := c.Forces
	cx, cy := c.Viewport.Width/2, c.Viewport.Height/2
	return editor.ForceOptions{
		LinkDistance:      f.Link.Distance,
		LinkIterations:    f.Link.Iterations,
		ChargeStrength:    f.Charge.Strength,
		ChargeTheta:       f.Charge.Theta,
		ChargeDistanceMin: f.Charge.DistanceMin,
		ChargeDistanceMax: f.Charge.DistanceMax,
		CenterEnabled:     isSet(f.Center.Enabled),
		CenterX:           orDefault(f.Center.X, cx),
		CenterY:           orDefault(f.Center.Y, cy),
		CenterStrength:    f.Center.Strength,
		CollideEnabled:    f.Collide.Enabled,
		CollidePadding:    f.Collide.Padding,
		AnchorEnabled:     isSet(f.Anchor.Enabled),
		AnchorID:          domain.ParseID(f.Anchor.Node),
		AnchorX:           orDefault(f.Anchor.X, cx),
		AnchorY:           orDefault(f.Anchor.Y, cy),
		AnchorStrength:    f.Anchor.Strength,
	}
}

// InteractionOptions converts the graph section
func (c *Config) InteractionOptions() interaction.Options {
	return interaction.Options{
		DragAlphaTarget: c.Graph.DragAlphaTarget,
		SpawnOffset:     c.Graph.SpawnOffset,
		HubID:           domain.ParseID(c.Graph.HubNode),
	}
}

// RestoreOptions converts the load section
func (c *Config) RestoreOptions() store.RestoreOptions {
	return store.RestoreOptions{
		Links:    store.LinkPolicy(c.Load.Links),
		Velocity: store.VelocityPolicy(c.Load.Velocity),
	}
}

// SimulationOptions converts the simulation section
func (c *Config) SimulationOptions() simulation.Options {
	opts := simulation.DefaultOptions()
	if c.Simulation.AlphaMin > 0 {
		opts.AlphaMin = c.Simulation.AlphaMin
		opts.AlphaDecay = 1 - math.Pow(opts.AlphaMin, 1.0/300)
	}
	if c.Simulation.AlphaDecay > 0 {
		opts.AlphaDecay = c.Simulation.AlphaDecay
	}
	if c.Simulation.VelocityDecay > 0 {
		opts.VelocityDecay = c.Simulation.VelocityDecay
	}
	if c.Simulation.Seed != 0 {
		opts.Seed = c.Simulation.Seed
	}
	return opts
}

// EditorOptions builds the full editor configuration
func (c *Config) EditorOptions() editor.Options {
	var vp render.Viewport = render.FixedViewport{Width: c.Viewport.Width, Height: c.Viewport.Height}
	if isSet(c.Viewport.Dynamic) {
		vp = render.NewLiveViewport(c.Viewport.Width, c.Viewport.Height)
	}
	return editor.Options{
		Viewport:    vp,
		Clamp:       c.Viewport.Clamp == nil || *c.Viewport.Clamp,
		Background:  c.Viewport.Background,
		Simulation:  c.SimulationOptions(),
		Forces:      c.ForceOptions(),
		Interaction: c.InteractionOptions(),
		IDs:         store.NewIDGenerator(c.Graph.IDs),
		Restore:     c.RestoreOptions(),
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Canvas: %gx%g (dynamic: %t, clamp: %t), background %s\n",
		c.Viewport.Width, c.Viewport.Height, isSet(c.Viewport.Dynamic), isSet(c.Viewport.Clamp), c.Viewport.Background)
	summary += fmt.Sprintf("Forces: link %g, charge %g, center %t, collide %t, anchor %t on %s\n",
		c.Forces.Link.Distance, c.Forces.Charge.Strength, isSet(c.Forces.Center.Enabled),
		c.Forces.Collide.Enabled, isSet(c.Forces.Anchor.Enabled), c.Forces.Anchor.Node)
	summary += fmt.Sprintf("Graph: %s ids, hub %s; load links=%s velocity=%s",
		c.Graph.IDs, c.Graph.HubNode, c.Load.Links, c.Load.Velocity)
	return summary
}
